package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/riskdesk/auth"
	fakeexchanger "github.com/jrsteele09/riskdesk/auth/exchangerfakes"
	"github.com/jrsteele09/riskdesk/guard"
	"github.com/jrsteele09/riskdesk/rbac"
	"github.com/jrsteele09/riskdesk/routes"
	"github.com/jrsteele09/riskdesk/sessions"
	fakesessionrepo "github.com/jrsteele09/riskdesk/sessions/repofakes"
	"github.com/stretchr/testify/require"
)

const (
	staffEmail    = "staff@example.com"
	staffPassword = "password123"
	adminEmail    = "admin@example.com"
	adminPassword = "admin-pass"
)

// testFixture holds all test dependencies
type testFixture struct {
	repo      *fakesessionrepo.FakeSessionRepo
	store     *sessions.Store
	exchanger *fakeexchanger.FakeExchanger
	manager   *auth.Manager
}

func staffSession() *sessions.AuthSession {
	return &sessions.AuthSession{
		UserID:       "staff-1",
		Email:        staffEmail,
		Role:         "STAFF",
		AccessToken:  "staff-token",
		RefreshToken: "staff-refresh",
		TokenType:    "Bearer",
	}
}

func adminSession() *sessions.AuthSession {
	return &sessions.AuthSession{
		UserID:      "admin-1",
		Email:       adminEmail,
		Role:        "ROLE_ADMIN",
		AccessToken: "admin-token",
	}
}

func newFixture(t *testing.T, options ...auth.ManagerOption) *testFixture {
	t.Helper()
	repo := fakesessionrepo.NewFakeSessionRepo()
	store, err := sessions.NewStore(repo)
	require.NoError(t, err)

	exchanger := fakeexchanger.NewFakeExchanger()
	exchanger.AddAccount(staffEmail, staffPassword, staffSession())
	exchanger.AddAccount(adminEmail, adminPassword, adminSession())

	manager, err := auth.NewManager(store, exchanger, options...)
	require.NoError(t, err)

	return &testFixture{repo: repo, store: store, exchanger: exchanger, manager: manager}
}

func TestNewManager_Validation(t *testing.T) {
	store, err := sessions.NewStore(fakesessionrepo.NewFakeSessionRepo())
	require.NoError(t, err)

	_, err = auth.NewManager(nil, fakeexchanger.NewFakeExchanger())
	require.Error(t, err)
	_, err = auth.NewManager(store, nil)
	require.Error(t, err)
}

func TestInitialize(t *testing.T) {
	ctx := context.Background()

	t.Run("starts initializing", func(t *testing.T) {
		f := newFixture(t)
		require.True(t, f.manager.Initializing())
		require.False(t, f.manager.IsAuthenticated())
		require.Equal(t, guard.Initializing(), f.manager.State())
	})

	t.Run("nothing persisted", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)

		require.False(t, f.manager.Initializing())
		require.False(t, f.manager.IsAuthenticated())
		require.Equal(t, guard.Unauthenticated(), f.manager.State())
	})

	t.Run("restores persisted session", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Save(ctx, staffSession()))

		f.manager.Initialize(ctx)

		require.True(t, f.manager.IsAuthenticated())
		require.Equal(t, staffSession(), f.manager.Session())
		require.Equal(t, rbac.RoleStaff, f.manager.ParsedRole())
		require.Equal(t, guard.Authenticated("STAFF"), f.manager.State())
	})

	t.Run("corrupted data recovers to logged out", func(t *testing.T) {
		f := newFixture(t)
		f.repo.Seed(sessions.StorageKey, []byte(`{"userId":`))

		f.manager.Initialize(ctx)

		require.False(t, f.manager.Initializing())
		require.False(t, f.manager.IsAuthenticated())
		_, ok := f.repo.Raw(sessions.StorageKey)
		require.False(t, ok)
	})

	t.Run("storage failure recovers to logged out", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Save(ctx, staffSession()))
		f.repo.GetErr = errors.New("unreadable")

		f.manager.Initialize(ctx)

		require.False(t, f.manager.Initializing())
		require.False(t, f.manager.IsAuthenticated())
	})

	t.Run("only the first call does work", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)
		require.NoError(t, f.store.Save(ctx, staffSession()))

		f.manager.Initialize(ctx)
		require.False(t, f.manager.IsAuthenticated())
	})
}

func TestInitialize_ExpiredToken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	expiredToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(now.Add(-time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	expired := staffSession()
	expired.AccessToken = expiredToken

	t.Run("discarded when enabled", func(t *testing.T) {
		f := newFixture(t, auth.WithDiscardExpired(true), auth.WithNowTime(func() time.Time { return now }))
		require.NoError(t, f.store.Save(ctx, expired))

		f.manager.Initialize(ctx)

		require.False(t, f.manager.IsAuthenticated())
		_, ok := f.repo.Raw(sessions.StorageKey)
		require.False(t, ok)
	})

	t.Run("kept when disabled", func(t *testing.T) {
		f := newFixture(t, auth.WithNowTime(func() time.Time { return now }))
		require.NoError(t, f.store.Save(ctx, expired))

		f.manager.Initialize(ctx)

		require.True(t, f.manager.IsAuthenticated())
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success persists and exposes the session", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)

		require.NoError(t, f.manager.Login(ctx, staffEmail, staffPassword))

		require.True(t, f.manager.IsAuthenticated())
		require.Equal(t, "staff-1", f.manager.UserID())
		require.Equal(t, staffEmail, f.manager.Email())
		require.Equal(t, "STAFF", f.manager.Role())
		require.Equal(t, "staff-token", f.manager.AccessToken())
		require.Equal(t, "Bearer", f.manager.TokenType())
		require.True(t, f.manager.HasRole(rbac.Staff))
		require.False(t, f.manager.HasRole(rbac.Admin))

		route, ok := f.manager.DefaultRoute()
		require.True(t, ok)
		require.Equal(t, routes.StaffCustomers, route)

		persisted, err := f.store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, staffSession(), persisted)
	})

	t.Run("replaces the session wholesale", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)
		require.NoError(t, f.manager.Login(ctx, staffEmail, staffPassword))

		require.NoError(t, f.manager.Login(ctx, adminEmail, adminPassword))

		require.Equal(t, adminSession(), f.manager.Session())
		require.Equal(t, "Bearer", f.manager.TokenType())
		require.Empty(t, f.manager.Session().RefreshToken)
	})

	t.Run("failure keeps the existing session", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.store.Save(ctx, adminSession()))
		f.manager.Initialize(ctx)

		err := f.manager.Login(ctx, staffEmail, "wrong")

		var authErr *auth.AuthError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, auth.KindRejected, authErr.Kind)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
		require.True(t, f.manager.IsAuthenticated())
		require.Equal(t, "admin-1", f.manager.UserID())
		require.Equal(t, "ROLE_ADMIN", f.manager.Role())

		persisted, err := f.store.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, adminSession(), persisted)
	})

	t.Run("unreachable service", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)
		f.exchanger.LoginErr = errors.New("connection refused")

		err := f.manager.Login(ctx, staffEmail, staffPassword)

		var authErr *auth.AuthError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, auth.KindUnavailable, authErr.Kind)
		require.False(t, f.manager.IsAuthenticated())
	})

	t.Run("incomplete record is rejected", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)
		f.exchanger.AddAccount("norole@example.com", "pw", &sessions.AuthSession{UserID: "x", AccessToken: "tok"})

		err := f.manager.Login(ctx, "norole@example.com", "pw")

		var authErr *auth.AuthError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, auth.KindInvalidSession, authErr.Kind)
		require.False(t, f.manager.IsAuthenticated())
	})

	t.Run("save failure still logs the user in", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)
		f.repo.PutErr = errors.New("disk full")

		require.NoError(t, f.manager.Login(ctx, staffEmail, staffPassword))
		require.True(t, f.manager.IsAuthenticated())
	})

	t.Run("returned session is not shared with the caller", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)
		require.NoError(t, f.manager.Login(ctx, staffEmail, staffPassword))

		s := f.manager.Session()
		s.Role = "ADMIN"
		require.Equal(t, "STAFF", f.manager.Role())
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears local state and storage", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)
		require.NoError(t, f.manager.Login(ctx, staffEmail, staffPassword))

		f.manager.Logout(ctx)

		require.False(t, f.manager.IsAuthenticated())
		require.Equal(t, []string{"staff-token"}, f.exchanger.LogoutTokens)
		loaded, err := f.store.Load(ctx)
		require.NoError(t, err)
		require.Nil(t, loaded)
	})

	t.Run("server error is swallowed", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)
		require.NoError(t, f.manager.Login(ctx, staffEmail, staffPassword))
		f.exchanger.LogoutErr = errors.New("500 internal server error")

		f.manager.Logout(ctx)

		require.False(t, f.manager.IsAuthenticated())
		require.Empty(t, f.manager.Role())
		_, ok := f.repo.Raw(sessions.StorageKey)
		require.False(t, ok)
	})

	t.Run("without a session skips the remote call", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)

		f.manager.Logout(ctx)

		require.Empty(t, f.exchanger.LogoutTokens)
		require.False(t, f.manager.IsAuthenticated())
	})

	t.Run("storage failure does not keep the user logged in", func(t *testing.T) {
		f := newFixture(t)
		f.manager.Initialize(ctx)
		require.NoError(t, f.manager.Login(ctx, staffEmail, staffPassword))
		f.repo.DeleteErr = errors.New("read only")

		f.manager.Logout(ctx)

		require.False(t, f.manager.IsAuthenticated())
	})
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var (
		lock   sync.Mutex
		states []guard.State
	)
	f.manager.Subscribe(func(s guard.State) {
		lock.Lock()
		defer lock.Unlock()
		states = append(states, s)
	})

	calls := 0
	f.manager.Subscribe(func(guard.State) { calls++ })

	f.manager.Initialize(ctx)
	require.NoError(t, f.manager.Login(ctx, staffEmail, staffPassword))
	require.Error(t, f.manager.Login(ctx, staffEmail, "wrong"))
	f.manager.Logout(ctx)

	require.Equal(t, []guard.State{
		guard.Unauthenticated(),
		guard.Authenticated("STAFF"),
		guard.Unauthenticated(),
	}, states)
	require.Equal(t, 3, calls)
}

func TestManagerDrivesGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g, err := guard.New(f.manager)
	require.NoError(t, err)

	require.Equal(t, guard.Hold, g.Decide(routes.AdminEmployees, rbac.Admin).Action)

	f.manager.Initialize(ctx)
	require.Equal(t, guard.Decision{Action: guard.Redirect, Path: routes.Login}, g.Decide(routes.AdminEmployees, rbac.Admin))

	require.NoError(t, f.manager.Login(ctx, staffEmail, staffPassword))
	require.Equal(t, guard.Decision{Action: guard.Redirect, Path: routes.StaffCustomers}, g.Decide(routes.AdminEmployees, rbac.Admin))
	require.Equal(t, guard.Decision{Action: guard.Redirect, Path: routes.Root}, g.DecideGuest(routes.Login))

	f.manager.Logout(ctx)
	require.Equal(t, guard.Decision{Action: guard.Redirect, Path: routes.Login}, g.Decide(routes.StaffCustomers, rbac.Staff))
}

func TestAuthError(t *testing.T) {
	err := &auth.AuthError{Kind: auth.KindRejected, Message: "Invalid email or password", Err: auth.ErrInvalidCredentials}
	require.Contains(t, err.Error(), "Invalid email or password")
	require.True(t, errors.Is(err, auth.ErrInvalidCredentials))
	require.Equal(t, "rejected", auth.KindRejected.String())
}
