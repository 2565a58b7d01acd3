package config

import "fmt"

// Session store backends
const (
	SessionBackendFile   = "file"
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type SessionConfig interface {
	GetSessionBackend() string
	GetSessionDir() string
	GetSessionDBPath() string
	GetRedisURL() string
	GetRedisKeyPrefix() string
	GetSessionPassphrase() string
	GetDiscardExpiredSessions() bool
}

type Session struct {
	Backend        string `env:"SESSION_BACKEND" envDefault:"file"`
	Dir            string `env:"SESSION_DIR" envDefault:"./data/session"`
	DBPath         string `env:"SESSION_DB_PATH" envDefault:"./data/session.db"`
	RedisURL       string `env:"REDIS_URL"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"riskdesk:"`
	Passphrase     string `env:"SESSION_PASSPHRASE"`
	DiscardExpired bool   `env:"DISCARD_EXPIRED_SESSIONS" envDefault:"true"`
}

var _ SessionConfig = Session{}

func (s Session) validate() error {
	switch s.Backend {
	case SessionBackendFile, SessionBackendSQLite, SessionBackendMemory:
		return nil
	case SessionBackendRedis:
		if s.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the %q session backend", s.Backend)
		}
		return nil
	default:
		return fmt.Errorf("unknown session backend %q", s.Backend)
	}
}

func (s Session) GetSessionBackend() string {
	return s.Backend
}

func (s Session) GetSessionDir() string {
	return s.Dir
}

func (s Session) GetSessionDBPath() string {
	return s.DBPath
}

func (s Session) GetRedisURL() string {
	return s.RedisURL
}

func (s Session) GetRedisKeyPrefix() string {
	return s.RedisKeyPrefix
}

// GetSessionPassphrase returns the passphrase used to encrypt the persisted session, empty means plaintext.
func (s Session) GetSessionPassphrase() string {
	return s.Passphrase
}

func (s Session) GetDiscardExpiredSessions() bool {
	return s.DiscardExpired
}
