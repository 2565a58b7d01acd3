package config

import "time"

type PollConfig interface {
	GetPollInterval() time.Duration
	GetPollMaxAttempts() int
}

type Poll struct {
	Interval    time.Duration `env:"POLL_INTERVAL" envDefault:"3s"`
	MaxAttempts int           `env:"POLL_MAX_ATTEMPTS" envDefault:"0"`
}

var _ PollConfig = Poll{}

func (p Poll) GetPollInterval() time.Duration {
	return p.Interval
}

func (p Poll) GetPollMaxAttempts() int {
	return p.MaxAttempts
}
