// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"regexp"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "ANNEX_CONFIG"

// Config is the master configuration for Annex.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Paths anchors the service on the filesystem.
	Paths PathsConfig `yaml:"paths"`

	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server"`

	// Scanner configures eligible-file discovery.
	Scanner ScannerConfig `yaml:"scanner"`

	// Archive configures archive production.
	Archive ArchiveConfig `yaml:"archive"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Paths   *PathsConfig      `yaml:"paths,omitempty"`
	Server  *ServerConfig     `yaml:"server,omitempty"`
	Archive *ArchiveOverrides `yaml:"archive,omitempty"`
	Log     *LogConfig        `yaml:"log,omitempty"`
}

// ArchiveOverrides mirrors ArchiveConfig with a pointer for the flag,
// so an override section that leaves it out keeps the base value.
type ArchiveOverrides struct {
	Compression        string `yaml:"compression"`
	WriteRootHashEntry *bool  `yaml:"write_root_hash_entry"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// SourceRoot is the folder tree that logical paths are relative
	// to. Nothing outside it is listed or packaged.
	SourceRoot string `yaml:"source_root"`

	// DestinationBase holds the year partitions of produced archives.
	DestinationBase string `yaml:"destination_base"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0
	Host string `yaml:"host"`

	// Port is the TCP listen port. Default: 3001
	Port int `yaml:"port"`

	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout string `yaml:"shutdown_timeout"`

	// AllowedOrigins lists the origins the browsing frontend is
	// served from. "*" allows any origin and is rejected in
	// production. Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ScannerConfig configures eligible-file discovery.
type ScannerConfig struct {
	// MaxDepth bounds recursion below the packaged folder. Default: 5
	MaxDepth int `yaml:"max_depth"`

	// Patterns are glob patterns matched against base names.
	// Default: ["hashlog.*", "Lista de Arquivos.csv"]
	Patterns []string `yaml:"patterns"`
}

// ArchiveConfig configures archive production.
type ArchiveConfig struct {
	// Compression is deflate, zstd, or store. Default: deflate
	Compression string `yaml:"compression"`

	// WriteRootHashEntry stores root_hash.txt in new archives.
	// Default: false, which keeps new archives laid out like the
	// ones already on disk.
	WriteRootHashEntry bool `yaml:"write_root_hash_entry"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is debug, info, warn, or error. Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3001,
			ShutdownTimeout: "10s",
			AllowedOrigins:  []string{"*"},
		},
		Scanner: ScannerConfig{
			MaxDepth: 5,
			Patterns: []string{"hashlog.*", "Lista de Arquivos.csv"},
		},
		Archive: ArchiveConfig{
			Compression: "deflate",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the ANNEX_CONFIG environment variable.
//
// There are no fallbacks or defaults - if ANNEX_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your annex.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. The only expansion
// performed is ${VAR} substitution in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production sections in the file).
	cfg.applyEnvironmentOverrides()

	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.SourceRoot != "" {
			c.Paths.SourceRoot = overrides.Paths.SourceRoot
		}
		if overrides.Paths.DestinationBase != "" {
			c.Paths.DestinationBase = overrides.Paths.DestinationBase
		}
	}

	if overrides.Server != nil {
		if overrides.Server.Host != "" {
			c.Server.Host = overrides.Server.Host
		}
		if overrides.Server.Port != 0 {
			c.Server.Port = overrides.Server.Port
		}
		if overrides.Server.ShutdownTimeout != "" {
			c.Server.ShutdownTimeout = overrides.Server.ShutdownTimeout
		}
		if len(overrides.Server.AllowedOrigins) > 0 {
			c.Server.AllowedOrigins = overrides.Server.AllowedOrigins
		}
	}

	if overrides.Archive != nil {
		if overrides.Archive.Compression != "" {
			c.Archive.Compression = overrides.Archive.Compression
		}
		if overrides.Archive.WriteRootHashEntry != nil {
			c.Archive.WriteRootHashEntry = *overrides.Archive.WriteRootHashEntry
		}
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.SourceRoot = expandVars(c.Paths.SourceRoot, vars)
	vars["SOURCE_ROOT"] = c.Paths.SourceRoot
	c.Paths.DestinationBase = expandVars(c.Paths.DestinationBase, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Paths.SourceRoot == "" {
		errs = append(errs, fmt.Errorf("paths.source_root is required"))
	}
	if c.Paths.DestinationBase == "" {
		errs = append(errs, fmt.Errorf("paths.destination_base is required"))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout: %w", err))
	}
	if c.Environment == Production && slices.Contains(c.Server.AllowedOrigins, "*") {
		errs = append(errs, fmt.Errorf("server.allowed_origins must list explicit origins in production"))
	}

	if c.Scanner.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("scanner.max_depth must not be negative, got %d", c.Scanner.MaxDepth))
	}
	if len(c.Scanner.Patterns) == 0 {
		errs = append(errs, fmt.Errorf("scanner.patterns must list at least one pattern"))
	}

	compressionValues := []string{"deflate", "zstd", "store"}
	if !slices.Contains(compressionValues, c.Archive.Compression) {
		errs = append(errs, fmt.Errorf("archive.compression must be one of: %v", compressionValues))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Address returns the host:port listen address.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ShutdownTimeout returns the parsed shutdown timeout. Call Validate
// first; an unparsable value yields zero.
func (c *Config) ShutdownTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Server.ShutdownTimeout)
	return timeout
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
