package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jrsteele09/riskdesk/apiclient"
	"github.com/jrsteele09/riskdesk/auth"
	"github.com/jrsteele09/riskdesk/internal/config"
	"github.com/jrsteele09/riskdesk/poller"
	"github.com/jrsteele09/riskdesk/sessions"
	"github.com/jrsteele09/riskdesk/sessions/filerepo"
	"github.com/jrsteele09/riskdesk/sessions/memrepo"
	"github.com/jrsteele09/riskdesk/sessions/redisrepo"
	"github.com/jrsteele09/riskdesk/sessions/sqliterepo"
	"github.com/rs/zerolog"
)

// System is the dashboard core assembled from configuration.
type System struct {
	Client  *apiclient.Client
	Store   *sessions.Store
	Manager *auth.Manager
	// API calls the backend as the manager's current user.
	API *apiclient.SessionClient

	closers []io.Closer
}

// InitialiseSystem opens the session store, builds the API client and restores any
// persisted session. Close releases what it opened.
func InitialiseSystem(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*System, error) {
	sys := &System{}

	repo, closer, err := OpenSessionRepo(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("[bootstrap InitialiseSystem] failed to open session store: %w", err)
	}
	if closer != nil {
		sys.closers = append(sys.closers, closer)
	}

	storeOptions := []sessions.StoreOption{sessions.WithLogger(logger)}
	if passphrase := cfg.GetSessionPassphrase(); passphrase != "" {
		sealer, err := sessions.NewPassphraseSealer(passphrase)
		if err != nil {
			_ = sys.Close()
			return nil, fmt.Errorf("[bootstrap InitialiseSystem] failed to create session sealer: %w", err)
		}
		storeOptions = append(storeOptions, sessions.WithSealer(sealer))
	}
	if sys.Store, err = sessions.NewStore(repo, storeOptions...); err != nil {
		_ = sys.Close()
		return nil, fmt.Errorf("[bootstrap InitialiseSystem] failed to create session store: %w", err)
	}

	sys.Client, err = apiclient.New(cfg.GetAPIBaseURL(),
		apiclient.WithTimeout(cfg.GetAPITimeout()),
		apiclient.WithRateLimit(cfg.GetAPIRateLimit()),
		apiclient.WithLogger(logger),
	)
	if err != nil {
		_ = sys.Close()
		return nil, fmt.Errorf("[bootstrap InitialiseSystem] failed to create API client: %w", err)
	}

	sys.Manager, err = auth.NewManager(sys.Store, sys.Client,
		auth.WithDiscardExpired(cfg.GetDiscardExpiredSessions()),
		auth.WithLogger(logger),
	)
	if err != nil {
		_ = sys.Close()
		return nil, fmt.Errorf("[bootstrap InitialiseSystem] failed to create auth manager: %w", err)
	}
	sys.API = sys.Client.WithSession(sys.Manager)

	sys.Manager.Initialize(ctx)

	logger.Info().
		Str("api", sys.Client.BaseURL()).
		Str("sessionBackend", cfg.GetSessionBackend()).
		Bool("sealed", cfg.GetSessionPassphrase() != "").
		Str("state", sys.Manager.State().String()).
		Msg("System initialised")
	return sys, nil
}

// NewPoller builds a job poller that fetches as the current user.
func (s *System) NewPoller(cfg config.PollConfig, logger zerolog.Logger) (*poller.Poller, error) {
	return poller.New(s.API,
		poller.WithInterval(cfg.GetPollInterval()),
		poller.WithMaxAttempts(cfg.GetPollMaxAttempts()),
		poller.WithLogger(logger),
	)
}

func (s *System) Close() error {
	var errList []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errList = append(errList, err)
		}
	}
	s.closers = nil
	return errors.Join(errList...)
}

// OpenSessionRepo opens the configured session backend. The closer is nil for backends
// that hold nothing open.
func OpenSessionRepo(ctx context.Context, cfg config.SessionConfig) (sessions.Repo, io.Closer, error) {
	switch cfg.GetSessionBackend() {
	case config.SessionBackendFile:
		repo, err := filerepo.New(cfg.GetSessionDir())
		return repo, nil, err
	case config.SessionBackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.GetSessionDBPath()), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create database directory: %w", err)
		}
		repo, err := sqliterepo.Open(cfg.GetSessionDBPath())
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil
	case config.SessionBackendRedis:
		client, err := redisrepo.Dial(ctx, cfg.GetRedisURL())
		if err != nil {
			return nil, nil, err
		}
		repo, err := redisrepo.New(client, cfg.GetRedisKeyPrefix())
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return repo, repo, nil
	case config.SessionBackendMemory:
		return memrepo.NewInMemorySessionRepo(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.GetSessionBackend())
	}
}
