// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 600 * time.Second
)

// ErrNotFound indicates no configuration file exists at any searched path.
var ErrNotFound = errors.New("config file not found")

// Config represents the top-level application configuration.
type Config struct {
	Hosts          []Host `json:"hosts" mapstructure:"hosts"`
	Debug          bool   `json:"debug" mapstructure:"debug"`
	PlainMode      bool   `json:"plainMode" mapstructure:"plainMode"`
	SampleCount    int    `json:"sampleCount,omitempty" mapstructure:"sampleCount"`
	TimeoutSeconds int    `json:"timeout,omitempty" mapstructure:"timeout"`
	FixturesPath   string `json:"fixtures,omitempty" mapstructure:"fixtures"`
	ReportPath     string `json:"report,omitempty" mapstructure:"report"`
	LogFile        string `json:"logFile,omitempty" mapstructure:"logFile"`
	ConfigPath     string `json:"-" mapstructure:"-"`
}

// Host represents a single host that can serve language models.
type Host struct {
	Name   string   `json:"name" mapstructure:"name"`
	URL    string   `json:"url" mapstructure:"url"`
	Type   string   `json:"type" mapstructure:"type"`
	Models []string `json:"models" mapstructure:"models"`
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "evalon.log"
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		return validated(config, path)
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				return validated(config, legacyConfigPath)
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("%w (searched %q and %q)", ErrNotFound, DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("%w at %q", ErrNotFound, path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// validated rejects configs without hosts and records the path the config was
// loaded from.
func validated(config Config, path string) (Config, error) {
	if len(config.Hosts) == 0 {
		return Config{}, errors.New("config must contain at least one host")
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
