package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LogLevel defines the minimum severity for error logs.
type LogLevel string

const (
	LogLevelDebug   LogLevel = "DEBUG"
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARNING"
	LogLevelError   LogLevel = "ERROR"
)

const (
	// DefaultAddress is the bind address used when none is configured.
	DefaultAddress = "127.0.0.1"
	// DefaultPort is the bind port used when none is configured.
	DefaultPort = 8080
	// DefaultGracefulShutdownTimeout bounds connection draining on shutdown.
	DefaultGracefulShutdownTimeout = "10s"
)

// Config is the top-level configuration structure for the server.
type Config struct {
	Server  *ServerConfig  `json:"server,omitempty" toml:"server,omitempty" yaml:"server,omitempty"`
	Logging *LoggingConfig `json:"logging,omitempty" toml:"logging,omitempty" yaml:"logging,omitempty"`
}

// ServerConfig holds the listener settings and the served root directory.
// Optional fields are pointers so that "unset" and "zero" stay distinguishable
// when merging file values with flag overrides.
type ServerConfig struct {
	Address                 *string `json:"address,omitempty" toml:"address,omitempty" yaml:"address,omitempty"`
	Port                    *int    `json:"port,omitempty" toml:"port,omitempty" yaml:"port,omitempty"`
	Root                    string  `json:"root" toml:"root" yaml:"root"`
	MaxConnections          *int    `json:"max_connections,omitempty" toml:"max_connections,omitempty" yaml:"max_connections,omitempty"`
	GracefulShutdownTimeout *string `json:"graceful_shutdown_timeout,omitempty" toml:"graceful_shutdown_timeout,omitempty" yaml:"graceful_shutdown_timeout,omitempty"` // e.g., "10s"
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	LogLevel LogLevel `json:"log_level,omitempty" toml:"log_level,omitempty" yaml:"log_level,omitempty"`
	Target   string   `json:"target,omitempty" toml:"target,omitempty" yaml:"target,omitempty"` // "stdout", "stderr", or a file path
}

// Default returns a Config populated with defaults for every optional field.
// The root directory has no default; it must come from a file or a flag.
func Default() *Config {
	return &Config{
		Server: &ServerConfig{
			Address:                 strPtr(DefaultAddress),
			Port:                    intPtr(DefaultPort),
			GracefulShutdownTimeout: strPtr(DefaultGracefulShutdownTimeout),
		},
		Logging: &LoggingConfig{
			LogLevel: LogLevelInfo,
			Target:   "stderr",
		},
	}
}

// LoadConfig reads and parses the configuration file at path. The format is
// chosen by file extension: .toml, .json, .yaml or .yml. Defaults are applied
// to any field the file leaves unset. Validation is a separate step so that
// callers can layer flag overrides between loading and validating.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("configuration file path cannot be empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML configuration %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON configuration %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML configuration %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration file extension %q (want .toml, .json, .yaml or .yml)", filepath.Ext(path))
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills every unset optional field with its default value.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Address == nil {
		c.Server.Address = d.Server.Address
	}
	if c.Server.Port == nil {
		c.Server.Port = d.Server.Port
	}
	if c.Server.GracefulShutdownTimeout == nil {
		c.Server.GracefulShutdownTimeout = d.Server.GracefulShutdownTimeout
	}
	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	if c.Logging.LogLevel == "" {
		c.Logging.LogLevel = d.Logging.LogLevel
	}
	if c.Logging.Target == "" {
		c.Logging.Target = d.Logging.Target
	}
}

// Validate checks the configuration for consistency. On success the root
// directory has been cleaned and made absolute.
func (c *Config) Validate() error {
	if c.Server == nil {
		return fmt.Errorf("server configuration section is missing")
	}
	if c.Server.Address == nil || *c.Server.Address == "" {
		return fmt.Errorf("server bind address is not configured")
	}
	if c.Server.Port == nil {
		return fmt.Errorf("server bind port is not configured")
	}
	if *c.Server.Port < 1 || *c.Server.Port > 65535 {
		return fmt.Errorf("server bind port %d is out of range (1-65535)", *c.Server.Port)
	}
	if c.Server.MaxConnections != nil && *c.Server.MaxConnections < 0 {
		return fmt.Errorf("max_connections must not be negative, got %d", *c.Server.MaxConnections)
	}
	if c.Server.GracefulShutdownTimeout != nil {
		if _, err := time.ParseDuration(*c.Server.GracefulShutdownTimeout); err != nil {
			return fmt.Errorf("invalid graceful_shutdown_timeout %q: %w", *c.Server.GracefulShutdownTimeout, err)
		}
	}

	if c.Server.Root == "" {
		return fmt.Errorf("root directory is not configured")
	}
	absRoot, err := filepath.Abs(c.Server.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve root directory %s: %w", c.Server.Root, err)
	}
	fi, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("root directory %s does not exist", absRoot)
		}
		return fmt.Errorf("failed to stat root directory %s: %w", absRoot, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("root path %s is not a directory", absRoot)
	}
	c.Server.Root = filepath.Clean(absRoot)

	if c.Logging != nil {
		switch c.Logging.LogLevel {
		case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		default:
			return fmt.Errorf("invalid log level %q", c.Logging.LogLevel)
		}
	}

	return nil
}

// ShutdownTimeout returns the parsed graceful shutdown timeout. An
// unparseable value falls back to the default; Validate rejects those up
// front, so the fallback only matters for hand-built configs.
func (c *ServerConfig) ShutdownTimeout() time.Duration {
	if c.GracefulShutdownTimeout != nil {
		if d, err := time.ParseDuration(*c.GracefulShutdownTimeout); err == nil {
			return d
		}
	}
	d, _ := time.ParseDuration(DefaultGracefulShutdownTimeout)
	return d
}

// ListenAddr returns the host:port string the listener should bind.
func (c *ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", *c.Address, *c.Port)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
