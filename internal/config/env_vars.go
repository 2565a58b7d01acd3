package config

import (
	"fmt"
	"net"
	"strings"
)

type EnvVars struct {
	Host     string `env:"HOST" envDefault:"127.0.0.1"`
	Port     string `env:"PORT" envDefault:"8081"`
	AppName  string `env:"APP_NAME" envDefault:"Risk Desk"`
	Env      string `env:"ENV" envDefault:"DEV"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

// GetListenAddr is the address the dashboard binds to, loopback unless HOST says otherwise.
func (e EnvVars) GetListenAddr() string {
	return net.JoinHostPort(e.Host, strings.TrimPrefix(e.GetPort(), ":"))
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) IsDev() bool {
	return e.GetEnv() == "DEV"
}
