package auth

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/jrsteele09/riskdesk/guard"
	"github.com/jrsteele09/riskdesk/rbac"
	"github.com/jrsteele09/riskdesk/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var _ guard.SessionView = (*Manager)(nil)

// Manager owns the process-wide authentication state.
// Login and Logout are the only ways the session changes after Initialize.
type Manager struct {
	store     *sessions.Store
	exchanger Exchanger

	mutate sync.Mutex // serializes Initialize, Login and Logout

	lock         sync.RWMutex
	session      *sessions.AuthSession
	initializing bool
	initialized  bool
	listeners    []func(guard.State)

	nowTime        func() time.Time
	discardExpired bool
	logger         zerolog.Logger
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithDiscardExpired drops a restored session whose access token has already expired
func WithDiscardExpired(discard bool) ManagerOption {
	return func(m *Manager) {
		m.discardExpired = discard
	}
}

// WithLogger sets the manager's logger
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager in the initializing state.
func NewManager(store *sessions.Store, exchanger Exchanger, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] store is required")
	}
	if exchanger == nil {
		return nil, errors.New("[NewManager] exchanger is required")
	}
	m := &Manager{
		store:        store,
		exchanger:    exchanger,
		initializing: true,
		nowTime:      time.Now,
		logger:       log.Logger,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Initialize restores the persisted session. Anything unusable is cleared and the manager
// starts unauthenticated. Only the first call does any work.
func (m *Manager) Initialize(ctx context.Context) {
	m.mutate.Lock()
	defer m.mutate.Unlock()

	if m.initialized {
		return
	}

	session := m.restore(ctx)

	m.lock.Lock()
	m.session = session
	m.initializing = false
	m.initialized = true
	m.lock.Unlock()

	m.notify()
}

func (m *Manager) restore(ctx context.Context) *sessions.AuthSession {
	session, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Could not restore session, starting logged out")
		m.clearStore(ctx)
		return nil
	}
	if session == nil {
		return nil
	}
	if m.discardExpired && session.Expired(m.nowTime()) {
		m.logger.Info().Str("userId", session.UserID).Msg("Persisted session has expired, starting logged out")
		m.clearStore(ctx)
		return nil
	}
	m.logger.Info().Str("userId", session.UserID).Str("role", session.Role).Msg("Session restored")
	return session
}

// Login exchanges credentials for a session and persists it. On failure the current
// session, if any, is left as it was and an *AuthError is returned.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.mutate.Lock()
	defer m.mutate.Unlock()

	session, err := m.exchanger.Login(ctx, email, password)
	if err != nil {
		return newLoginError(err)
	}
	if err := session.Validate(); err != nil {
		return newInvalidSessionError(err)
	}
	owned := *session

	if err := m.store.Save(ctx, &owned); err != nil {
		m.logger.Err(err).Str("userId", owned.UserID).Msg("Failed to persist session")
	}

	m.lock.Lock()
	m.session = &owned
	m.initializing = false
	m.initialized = true
	m.lock.Unlock()

	m.logger.Info().Str("userId", owned.UserID).Str("role", owned.Role).Msg("Logged in")
	m.notify()
	return nil
}

// Logout tears down the session. The remote call is best effort: its failure is logged and
// local state is cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.mutate.Lock()
	defer m.mutate.Unlock()

	m.lock.RLock()
	current := m.session
	m.lock.RUnlock()

	if current != nil {
		if err := m.exchanger.Logout(ctx, current.AccessToken); err != nil {
			m.logger.Warn().Err(err).Str("userId", current.UserID).Msg("Remote logout failed, clearing local session anyway")
		}
	}

	m.lock.Lock()
	m.session = nil
	m.initializing = false
	m.initialized = true
	m.lock.Unlock()

	m.clearStore(ctx)
	m.logger.Info().Msg("Logged out")
	m.notify()
}

func (m *Manager) clearStore(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Err(err).Msg("Failed to clear persisted session")
	}
}

// Subscribe registers fn to be called with the new state after every transition.
// Listeners run on the goroutine that made the change and must not call Login or Logout.
func (m *Manager) Subscribe(fn func(guard.State)) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) notify() {
	m.lock.RLock()
	state := m.stateLocked()
	listeners := slices.Clone(m.listeners)
	m.lock.RUnlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// State returns a consistent snapshot for route decisions.
func (m *Manager) State() guard.State {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() guard.State {
	switch {
	case m.initializing:
		return guard.Initializing()
	case m.session == nil:
		return guard.Unauthenticated()
	default:
		return guard.Authenticated(m.session.Role)
	}
}

func (m *Manager) Initializing() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.initializing
}

func (m *Manager) IsAuthenticated() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.session != nil
}

// Session returns a copy of the current session, nil when logged out.
func (m *Manager) Session() *sessions.AuthSession {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.session == nil {
		return nil
	}
	copied := *m.session
	return &copied
}

func (m *Manager) field(get func(*sessions.AuthSession) string) string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.session == nil {
		return ""
	}
	return get(m.session)
}

// Role returns the raw backend role.
func (m *Manager) Role() string {
	return m.field(func(s *sessions.AuthSession) string { return s.Role })
}

func (m *Manager) ParsedRole() rbac.Role {
	return rbac.Parse(m.Role())
}

func (m *Manager) UserID() string {
	return m.field(func(s *sessions.AuthSession) string { return s.UserID })
}

func (m *Manager) Email() string {
	return m.field(func(s *sessions.AuthSession) string { return s.Email })
}

func (m *Manager) AccessToken() string {
	return m.field(func(s *sessions.AuthSession) string { return s.AccessToken })
}

func (m *Manager) TokenType() string {
	return m.field(func(s *sessions.AuthSession) string { return s.GetTokenType() })
}

// HasRole reports whether the current session holds one of allowed.
func (m *Manager) HasRole(allowed ...string) bool {
	return rbac.HasRole(m.Role(), allowed...)
}

// DefaultRoute returns the landing page for the current role.
func (m *Manager) DefaultRoute() (string, bool) {
	return rbac.DefaultRouteFor(m.Role())
}
