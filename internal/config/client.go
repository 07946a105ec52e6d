package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

// ClientConfig holds configuration for the terminal chat client.
type ClientConfig struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"chat-client"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// APIURL is the public base URL of the gateway, including the /api prefix.
	APIURL string `env:"PUBLIC_API_URL" envDefault:"http://localhost:3000/api"`

	LogLevel  string `env:"CHAT_LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"CHAT_LOG_FORMAT" envDefault:"console"`
	LogFile   string `env:"CHAT_LOG_FILE" envDefault:""`
}

// LoadClient parses environment variables into ClientConfig.
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("PUBLIC_API_URL is required")
	}

	return cfg, nil
}
