package config

import (
	"strings"

	"github.com/linanwx/chatwidget/chat"
)

const (
	defaultEndpoint = "http://localhost:5001/chat"
	defaultPrompt   = "you> "
	defaultLogRatio = 0.25
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	showLogs := true
	return &Config{
		Endpoint:   defaultEndpoint,
		SendPolicy: chat.SendSerial.String(),
		UI: UIConfig{
			Prompt:   defaultPrompt,
			ShowLogs: &showLogs,
			LogRatio: defaultLogRatio,
		},
		Logging: defaultLoggingConfig(),
	}
}

func defaultLoggingConfig() LoggingConfig {
	enabled := true
	return LoggingConfig{
		Enabled: &enabled,
		Level:   "info",
		Console: false,
		File:    "logs/chatwidget.log",
	}
}

func (c *Config) applyDefaults() {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	c.SendPolicy = strings.ToLower(strings.TrimSpace(c.SendPolicy))
	if c.SendPolicy == "" {
		c.SendPolicy = chat.SendSerial.String()
	}

	if c.UI.Prompt == "" {
		c.UI.Prompt = defaultPrompt
	}
	if c.UI.ShowLogs == nil {
		showLogs := true
		c.UI.ShowLogs = &showLogs
	}
	if c.UI.LogRatio <= 0 || c.UI.LogRatio >= 1 {
		c.UI.LogRatio = defaultLogRatio
	}

	def := defaultLoggingConfig()
	if c.Logging == (LoggingConfig{}) {
		c.Logging = def
		return
	}

	hasAny := c.Logging.Level != "" || c.Logging.File != "" || c.Logging.Console
	if c.Logging.Enabled == nil && hasAny {
		enabled := true
		c.Logging.Enabled = &enabled
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Level
	}
	if c.Logging.File == "" && !c.Logging.Console {
		c.Logging.File = def.File
	}
	if c.Logging.Enabled == nil {
		c.Logging.Enabled = def.Enabled
	}
}
