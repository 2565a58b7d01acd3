package guard

import (
	"errors"

	"github.com/jrsteele09/riskdesk/routes"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Action is what the caller should do with a navigation.
type Action int

const (
	// Hold shows a neutral loading view, nothing is decided yet.
	Hold Action = iota
	// Render shows the requested destination.
	Render
	// Redirect navigates to Decision.Path instead.
	Redirect
)

func (a Action) String() string {
	switch a {
	case Hold:
		return "hold"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the outcome for one navigation. Path is the redirect target for Redirect,
// and the requested path otherwise.
type Decision struct {
	Action Action
	Path   string
}

// SessionView is the part of the session the guard decides on.
type SessionView interface {
	State() State
}

// Guard gates navigation on the session state. It only ever reads a snapshot, so one
// decision never sees a half-applied login or logout.
type Guard struct {
	session   SessionView
	loginPath string
	fallback  string
	logger    zerolog.Logger
}

// Option defines a function type to modify the Guard instance.
type Option func(*Guard)

// WithFallback sets where a denied user without a default route goes (default "/")
func WithFallback(path string) Option {
	return func(g *Guard) {
		g.fallback = path
	}
}

// WithLoginPath sets where unauthenticated users go (default "/login")
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		g.loginPath = path
	}
}

// WithLogger sets the logger used for denial traces
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

func New(session SessionView, options ...Option) (*Guard, error) {
	if session == nil {
		return nil, errors.New("[guard New] session is required")
	}
	g := &Guard{
		session:   session,
		loginPath: routes.Login,
		fallback:  routes.Fallback,
		logger:    log.Logger,
	}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// WithSession returns a copy of g deciding on session instead.
func (g *Guard) WithSession(session SessionView) *Guard {
	c := *g
	c.session = session
	return &c
}

// Decide gates a protected path. With no required roles any authenticated user may render it.
func (g *Guard) Decide(path string, required ...string) Decision {
	return decide(g.session.State(), path, g.loginPath, g.fallback, g.logger, required...)
}

// DecideGuest gates a guest-only page such as the login form.
func (g *Guard) DecideGuest(path string) Decision {
	state := g.session.State()
	switch {
	case state.Initializing():
		return Decision{Action: Hold, Path: path}
	case state.Authenticated():
		return Decision{Action: Redirect, Path: routes.Root}
	default:
		return Decision{Action: Render, Path: path}
	}
}

// DecideHome routes "/" to the role's landing page. An authenticated user whose role has
// no landing page renders the neutral page.
func (g *Guard) DecideHome() Decision {
	state := g.session.State()
	switch {
	case state.Initializing():
		return Decision{Action: Hold, Path: routes.Root}
	case !state.Authenticated():
		return Decision{Action: Redirect, Path: g.loginPath}
	}
	if target, ok := state.DefaultRoute(); ok {
		return Decision{Action: Redirect, Path: target}
	}
	return Decision{Action: Render, Path: routes.Root}
}

func decide(state State, path, loginPath, fallback string, logger zerolog.Logger, required ...string) Decision {
	if state.Initializing() {
		return Decision{Action: Hold, Path: path}
	}
	if !state.Authenticated() {
		return Decision{Action: Redirect, Path: loginPath}
	}
	if len(required) > 0 && !state.HasRole(required...) {
		target, ok := state.DefaultRoute()
		if !ok {
			target = fallback
		}
		logger.Debug().
			Str("path", path).
			Str("role", state.Role).
			Strs("required", required).
			Str("redirect", target).
			Msg("Route denied")
		return Decision{Action: Redirect, Path: target}
	}
	return Decision{Action: Render, Path: path}
}

// DecideFor evaluates a navigation against an explicit state.
func DecideFor(state State, path string, required ...string) Decision {
	return decide(state, path, routes.Login, routes.Fallback, log.Logger, required...)
}
