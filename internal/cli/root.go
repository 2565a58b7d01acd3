package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jrsteele09/riskdesk/internal/bootstrap"
	"github.com/jrsteele09/riskdesk/internal/config"
	"github.com/jrsteele09/riskdesk/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is returned by commands that need a session when none is stored.
var ErrNotLoggedIn = errors.New("not logged in, run riskctl login first")

// app carries what the root command set up to its subcommands.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	sys    *bootstrap.System
	out    io.Writer
}

// NewRootCmd builds the riskctl command tree. Output goes to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	rootCmd := &cobra.Command{
		Use:           "riskctl",
		Short:         "Command line client for the loan-risk dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.close()
		},
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newWhoamiCmd(a))
	rootCmd.AddCommand(newCustomersCmd(a))
	rootCmd.AddCommand(newPredictCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newSignupCmd(a))
	return rootCmd
}

// Execute runs riskctl with the process arguments.
func Execute(ctx context.Context, out io.Writer) error {
	return NewRootCmd(out).ExecuteContext(ctx)
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.Setup(cfg.GetLogLevel(), cfg.GetEnv())

	sys, err := bootstrap.InitialiseSystem(ctx, cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	a.sys = sys
	return nil
}

func (a *app) close() error {
	if a.sys == nil {
		return nil
	}
	err := a.sys.Close()
	a.sys = nil
	return err
}

func (a *app) requireSession() error {
	if !a.sys.Manager.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
