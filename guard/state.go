package guard

import (
	"fmt"

	"github.com/jrsteele09/riskdesk/rbac"
)

// Phase is the coarse authentication phase of the process-wide session.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseUnauthenticated
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a consistent snapshot of the session as the guard sees it.
// Role is only meaningful in PhaseAuthenticated and holds the raw backend role.
type State struct {
	Phase Phase
	Role  string
}

// Initializing is the state before a persisted session has been restored.
func Initializing() State {
	return State{Phase: PhaseInitializing}
}

// Unauthenticated is the state with no session.
func Unauthenticated() State {
	return State{Phase: PhaseUnauthenticated}
}

// Authenticated is the state with a session holding role.
func Authenticated(role string) State {
	return State{Phase: PhaseAuthenticated, Role: role}
}

func (s State) Initializing() bool {
	return s.Phase == PhaseInitializing
}

func (s State) Authenticated() bool {
	return s.Phase == PhaseAuthenticated
}

// HasRole reports whether the state is authenticated with one of allowed.
func (s State) HasRole(allowed ...string) bool {
	return s.Authenticated() && rbac.HasRole(s.Role, allowed...)
}

// DefaultRoute returns the landing page for the authenticated role.
func (s State) DefaultRoute() (string, bool) {
	if !s.Authenticated() {
		return "", false
	}
	return rbac.DefaultRouteFor(s.Role)
}

func (s State) String() string {
	if s.Authenticated() {
		return fmt.Sprintf("%s(%s)", s.Phase, s.Role)
	}
	return s.Phase.String()
}
