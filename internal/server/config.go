package server

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the HTTP surface.
type Config struct {
	Addr         string        `envconfig:"MANDIR_ADDR" default:":8085"`
	ReadTimeout  time.Duration `envconfig:"MANDIR_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"MANDIR_WRITE_TIMEOUT" default:"15s"`
	LogLevel     string        `envconfig:"MANDIR_LOG_LEVEL" default:"info"`
	LogFormat    string        `envconfig:"MANDIR_LOG_FORMAT" default:"text"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
