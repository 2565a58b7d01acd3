package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/riskdesk/internal/bootstrap"
	"github.com/jrsteele09/riskdesk/internal/config"
	"github.com/jrsteele09/riskdesk/internal/logging"
	"github.com/jrsteele09/riskdesk/server"
	"github.com/jrsteele09/riskdesk/server/live"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return err
	}
	displayAppname(c.GetAppName())
	logger := logging.Setup(c.GetLogLevel(), c.GetEnv())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sys, err := bootstrap.InitialiseSystem(ctx, c, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := sys.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close session store")
		}
	}()

	jobPoller, err := sys.NewPoller(c, logger)
	if err != nil {
		return err
	}
	feeds, err := live.NewRegistry(ctx, jobPoller, logger)
	if err != nil {
		return err
	}
	defer feeds.Shutdown()

	handler, err := server.New(c, sys.Manager, sys.API, feeds, server.WithLogger(logger))
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetListenAddr(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
