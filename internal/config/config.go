package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	APIConfig
	SessionConfig
	PollConfig
}

type EnvConfig interface {
	GetPort() string
	GetListenAddr() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	IsDev() bool
}

type mainConfig struct {
	EnvVars
	API
	Session
	Poll
}

// New reads the process environment into a Config, applying defaults for anything unset.
func New() (Config, error) {
	return parse(env.Options{})
}

// NewFromMap builds a Config from the supplied variables instead of the process environment.
func NewFromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	c := mainConfig{}
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, fmt.Errorf("[config New] failed to parse environment: %w", err)
	}
	if err := c.Session.validate(); err != nil {
		return nil, fmt.Errorf("[config New] %w", err)
	}
	return c, nil
}
