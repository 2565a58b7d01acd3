package bootstrap_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/riskdesk/internal/bootstrap"
	"github.com/jrsteele09/riskdesk/internal/config"
	"github.com/jrsteele09/riskdesk/sessions"
	"github.com/jrsteele09/riskdesk/sessions/filerepo"
	"github.com/jrsteele09/riskdesk/sessions/memrepo"
	"github.com/jrsteele09/riskdesk/sessions/sqliterepo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newConfig(t *testing.T, vars map[string]string) config.Config {
	t.Helper()
	cfg, err := config.NewFromMap(vars)
	require.NoError(t, err)
	return cfg
}

func TestOpenSessionRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("File", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "session")
		repo, closer, err := bootstrap.OpenSessionRepo(ctx, newConfig(t, map[string]string{"SESSION_BACKEND": "file", "SESSION_DIR": dir}))
		require.NoError(t, err)
		require.Nil(t, closer)
		require.IsType(t, &filerepo.FileRepo{}, repo)
		_, err = os.Stat(dir)
		require.NoError(t, err)
	})

	t.Run("SQLite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "session.db")
		repo, closer, err := bootstrap.OpenSessionRepo(ctx, newConfig(t, map[string]string{"SESSION_BACKEND": "sqlite", "SESSION_DB_PATH": path}))
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer closer.Close()
		require.IsType(t, &sqliterepo.SQLiteRepo{}, repo)
	})

	t.Run("Memory", func(t *testing.T) {
		repo, closer, err := bootstrap.OpenSessionRepo(ctx, newConfig(t, map[string]string{"SESSION_BACKEND": "memory"}))
		require.NoError(t, err)
		require.Nil(t, closer)
		require.IsType(t, &memrepo.InMemorySessionRepo{}, repo)
	})
}

func TestInitialiseSystem(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	vars := map[string]string{
		"SESSION_BACKEND":    "file",
		"SESSION_DIR":        dir,
		"SESSION_PASSPHRASE": "correct horse",
		"API_BASE_URL":       "http://localhost:9/api/",
		"API_TIMEOUT":        "1s",
	}

	t.Run("Starts logged out with an empty store", func(t *testing.T) {
		sys, err := bootstrap.InitialiseSystem(ctx, newConfig(t, vars), zerolog.Nop())
		require.NoError(t, err)
		defer sys.Close()

		require.False(t, sys.Manager.Initializing())
		require.False(t, sys.Manager.IsAuthenticated())
		require.Equal(t, "http://localhost:9/api", sys.Client.BaseURL())
	})

	t.Run("Restores a sealed session", func(t *testing.T) {
		sys, err := bootstrap.InitialiseSystem(ctx, newConfig(t, vars), zerolog.Nop())
		require.NoError(t, err)
		require.NoError(t, sys.Store.Save(ctx, &sessions.AuthSession{UserID: "u-1", Email: "u@example.com", Role: "STAFF", AccessToken: "opaque"}))
		require.NoError(t, sys.Close())

		raw, err := os.ReadFile(filepath.Join(dir, sessions.StorageKey+".json"))
		require.NoError(t, err)
		require.NotContains(t, string(raw), "u@example.com")

		again, err := bootstrap.InitialiseSystem(ctx, newConfig(t, vars), zerolog.Nop())
		require.NoError(t, err)
		defer again.Close()
		require.True(t, again.Manager.IsAuthenticated())
		require.Equal(t, "u-1", again.Manager.UserID())
	})

	t.Run("Builds a poller", func(t *testing.T) {
		sys, err := bootstrap.InitialiseSystem(ctx, newConfig(t, map[string]string{"SESSION_BACKEND": "memory", "POLL_INTERVAL": "250ms"}), zerolog.Nop())
		require.NoError(t, err)
		defer sys.Close()

		p, err := sys.NewPoller(newConfig(t, map[string]string{"POLL_INTERVAL": (250 * time.Millisecond).String()}), zerolog.Nop())
		require.NoError(t, err)
		require.NotNil(t, p)
	})
}
