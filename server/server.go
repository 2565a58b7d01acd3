package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/riskdesk/auth"
	"github.com/jrsteele09/riskdesk/guard"
	"github.com/jrsteele09/riskdesk/internal/config"
	"github.com/jrsteele09/riskdesk/server/live"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	appName     string
	mux         *http.ServeMux
	routes      []string
	manager     *auth.Manager
	guard       *guard.Guard
	backend     Backend
	feeds       *live.Registry
	templates   *pageTemplates
	crossOrigin *http.CrossOriginProtection
	logger      zerolog.Logger
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

// WithLogger sets the server's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New wires the dashboard routes. feeds may be nil, in which case prediction pages
// fall back to periodic reloads.
func New(cfg config.EnvConfig, manager *auth.Manager, backend Backend, feeds *live.Registry, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if manager == nil {
		return nil, errors.New("[Server New] manager is required")
	}
	if backend == nil {
		return nil, errors.New("[Server New] backend is required")
	}

	s := &Server{
		env:     cfg.GetEnv(),
		appName: cfg.GetAppName(),
		mux:     http.NewServeMux(),
		manager: manager,
		backend: backend,
		feeds:   feeds,
		logger:  log.Logger,

		crossOrigin: http.NewCrossOriginProtection(),
	}
	for _, opt := range options {
		opt(s)
	}

	g, err := guard.New(manager, guard.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create route guard: %w", err)
	}
	s.guard = g

	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}
	s.templates = templates

	if feeds != nil {
		// Live feeds belong to the logged in user, drop them when the session ends.
		manager.Subscribe(func(state guard.State) {
			if !state.Authenticated() {
				feeds.CloseAll()
			}
		})
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	s.logger.Info().Msgf("[%s] %s", colouredMethod(method), path)
}
