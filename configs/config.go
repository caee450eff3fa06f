// Package configs loads application configuration from environment
// variables (prefix SPRINGMCP_) merged with an optional YAML file.
package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	BackendURL string `yaml:"backend_url,omitempty"`
	ServerName string `yaml:"server_name,omitempty"`
}

// Config holds the final application configuration. Environment variables
// override file settings.
type Config struct {
	// ConfigFilePath is loaded first, from the environment only.
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	// BackendURL is the base URL of the original Spring Boot service the
	// proxy relays calls to.
	BackendURL string `envconfig:"BACKEND_URL" default:"http://localhost:8080"`

	// ServerName labels the generated schema document.
	ServerName string `envconfig:"SERVER_NAME" default:"MyAPI"`

	ListenAddr         string        `envconfig:"LISTEN_ADDR" default:":8000"`
	MCPListenAddr      string        `envconfig:"MCP_LISTEN_ADDR" default:":8001"`
	HTTPClientTimeout  time.Duration `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	ServerReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"5s"`
	ServerWriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ServerIdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"120s"`

	OtelExporterOtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// ParsedLogLevel returns the slog.Level for the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Load processes the environment (which also resolves the optional config
// file path), then merges the file's settings into fields the environment
// left unset. Precedence is environment over file over struct default.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("springmcp", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if cfg.ConfigFilePath != "" {
		yamlFile, err := os.ReadFile(cfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", cfg.ConfigFilePath, err)
		}
		var fileCfg FileConfig
		if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", cfg.ConfigFilePath, err)
		}
		// A second envconfig pass would re-apply defaults over the file
		// values, so file settings are applied per field, only where the
		// environment did not set the key.
		if fileCfg.BackendURL != "" && !envSet("BACKEND_URL") {
			cfg.BackendURL = fileCfg.BackendURL
		}
		if fileCfg.ServerName != "" && !envSet("SERVER_NAME") {
			cfg.ServerName = fileCfg.ServerName
		}
		slog.Info("Loaded configuration from file.", "path", cfg.ConfigFilePath)
	}

	return &cfg, nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv("SPRINGMCP_" + key)
	return ok
}
