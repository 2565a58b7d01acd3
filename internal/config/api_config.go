package config

import (
	"strings"
	"time"
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetAPIRateLimit() float64
}

// API describes how the dashboard reaches the loan-risk backend.
type API struct {
	BaseURL   string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
	Timeout   time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	RateLimit float64       `env:"API_RATE_LIMIT" envDefault:"10"` // requests per second, 0 disables
}

var _ APIConfig = API{}

func (a API) GetAPIBaseURL() string {
	return strings.TrimRight(a.BaseURL, "/")
}

func (a API) GetAPITimeout() time.Duration {
	return a.Timeout
}

func (a API) GetAPIRateLimit() float64 {
	return a.RateLimit
}
