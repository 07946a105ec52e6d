package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage backends supported for uploaded files.
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

// Config holds all configuration for the gateway service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-relay"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"SERVER_PORT" envDefault:"3000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// External agent
	AgentURL             string        `env:"PYTHON_AGENT_URL" envDefault:"http://localhost:5000"`
	AgentBreakerEnabled  bool          `env:"AGENT_BREAKER_ENABLED" envDefault:"false"`
	AgentBreakerFailures uint32        `env:"AGENT_BREAKER_FAILURES" envDefault:"5"`
	AgentBreakerCooldown time.Duration `env:"AGENT_BREAKER_COOLDOWN" envDefault:"30s"`

	// Uploads
	StorageBackend      string `env:"UPLOAD_STORAGE_BACKEND" envDefault:"local"`
	UploadDir           string `env:"UPLOAD_DIR" envDefault:"uploads"`
	UploadURLPrefix     string `env:"UPLOAD_URL_PREFIX" envDefault:"/uploads"`
	UploadPublicBaseURL string `env:"UPLOAD_PUBLIC_BASE_URL" envDefault:""`
	UploadMaxBytes      int64  `env:"UPLOAD_MAX_BYTES" envDefault:"0"` // 0 disables the limit

	// S3-compatible storage (UPLOAD_STORAGE_BACKEND=s3)
	S3Endpoint     string `env:"UPLOAD_S3_ENDPOINT"`
	S3Region       string `env:"UPLOAD_S3_REGION" envDefault:"us-east-1"`
	S3Bucket       string `env:"UPLOAD_S3_BUCKET"`
	S3AccessKeyID  string `env:"UPLOAD_S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"UPLOAD_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool   `env:"UPLOAD_S3_USE_PATH_STYLE" envDefault:"true"`

	// Hosted conversations
	ConversationIdleTTL         time.Duration `env:"CONVERSATION_IDLE_TTL" envDefault:"30m"`
	ConversationCleanupInterval time.Duration `env:"CONVERSATION_CLEANUP_INTERVAL" envDefault:"1m"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.AgentURL = strings.TrimRight(strings.TrimSpace(cfg.AgentURL), "/")
	if cfg.AgentURL == "" {
		return nil, fmt.Errorf("PYTHON_AGENT_URL is required")
	}

	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	switch cfg.StorageBackend {
	case StorageBackendLocal:
		if strings.TrimSpace(cfg.UploadDir) == "" {
			return nil, fmt.Errorf("UPLOAD_DIR is required for local storage")
		}
	case StorageBackendS3:
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("UPLOAD_S3_BUCKET is required when UPLOAD_STORAGE_BACKEND is s3")
		}
	default:
		return nil, fmt.Errorf("unsupported UPLOAD_STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	cfg.UploadURLPrefix = "/" + strings.Trim(strings.TrimSpace(cfg.UploadURLPrefix), "/")
	if cfg.UploadURLPrefix == "/" {
		return nil, fmt.Errorf("UPLOAD_URL_PREFIX must not be the root path")
	}
	cfg.UploadPublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.UploadPublicBaseURL), "/")

	if cfg.UploadMaxBytes < 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_BYTES must not be negative")
	}
	if cfg.ConversationCleanupInterval <= 0 {
		return nil, fmt.Errorf("CONVERSATION_CLEANUP_INTERVAL must be positive")
	}

	return cfg, nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage reports whether uploads are kept on the local filesystem.
func (c *Config) IsLocalStorage() bool {
	return c.StorageBackend == StorageBackendLocal
}
