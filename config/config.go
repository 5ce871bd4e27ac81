// Package config handles configuration loading and saving.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/linanwx/chatwidget/chat"
	"github.com/linanwx/chatwidget/logger"
)

const (
	configDirName  = ".chatwidget"
	configFileName = "config.yaml"

	envEndpoint   = "CHATWIDGET_ENDPOINT"
	envSendPolicy = "CHATWIDGET_SEND_POLICY"
	envLogLevel   = "CHATWIDGET_LOG_LEVEL"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Endpoint   string        `json:"endpoint" yaml:"endpoint"`                         // POST target, defaults to http://localhost:5001/chat
	SendPolicy string        `json:"sendPolicy,omitempty" yaml:"sendPolicy,omitempty"` // serial, concurrent
	UI         UIConfig      `json:"ui,omitempty" yaml:"ui,omitempty"`
	Logging    LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// UIConfig contains terminal widget settings.
type UIConfig struct {
	Prompt   string  `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	ShowLogs *bool   `json:"showLogs,omitempty" yaml:"showLogs,omitempty"` // log panel above the transcript
	LogRatio float64 `json:"logRatio,omitempty" yaml:"logRatio,omitempty"` // share of rows used by the log panel
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`     // debug, info, warn, error
	Console bool   `json:"console,omitempty" yaml:"console,omitempty"` // log to stderr outside the TUI
	File    string `json:"file,omitempty" yaml:"file,omitempty"`       // relative to the config dir
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the full path of config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads config.yaml, falling back to defaults when it does not exist,
// then applies environment overrides.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.applyDefaults()
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to config.yaml, creating the directory if needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("invalid sendPolicy: %w", err)
	}
	if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return fmt.Errorf("invalid endpoint %q: must be an http(s) URL", c.Endpoint)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(envEndpoint)); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(envSendPolicy)); v != "" {
		c.SendPolicy = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		c.Logging.Level = v
	}
}

// Policy parses SendPolicy.
func (c *Config) Policy() (chat.SendPolicy, error) {
	return chat.ParseSendPolicy(c.SendPolicy)
}

// LogsVisible reports whether the TUI shows the log panel.
func (c *Config) LogsVisible() bool {
	return c.UI.ShowLogs == nil || *c.UI.ShowLogs
}

// BuildLoggerConfig converts the logging section into logger settings.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := c.Logging.Enabled == nil || *c.Logging.Enabled
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Console: c.Logging.Console,
		File:    c.Logging.File,
	}
}
