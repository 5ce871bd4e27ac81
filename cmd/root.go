// Package cmd implements the chatwidget command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/linanwx/chatwidget/config"
	"github.com/linanwx/chatwidget/logger"
)

var (
	configDirFlag string
	endpointFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "chatwidget",
	Short: "Terminal chat widget for a remote chat endpoint",
	Long: `chatwidget is a small chat client: type a message, it is sent to the
configured HTTP endpoint, and the reply is appended below it.

Running chatwidget without a subcommand starts the interactive widget.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Config directory (default ~/.chatwidget)")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "Override the chat endpoint URL")
	rootCmd.Flags().BoolVar(&plainFlag, "plain", false, "Use the line-oriented interface even on a terminal")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup applies --config-dir and starts logging before any subcommand runs.
func setup(_ *cobra.Command, _ []string) error {
	config.SetConfigDir(configDirFlag)

	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	configDir, dirErr := config.ConfigDir()
	if dirErr != nil {
		return dirErr
	}
	lc := cfg.BuildLoggerConfig()
	lc.Session = uuid.NewString()[:8]
	if initErr := logger.Init(lc, configDir); initErr != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", initErr)
	}
	if err != nil {
		logger.Warn("config not loaded, using defaults", "err", err)
	}
	return nil
}

// loadConfig loads the config and applies --endpoint.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'chatwidget onboard' to recreate it", err)
	}
	if v := strings.TrimSpace(endpointFlag); v != "" {
		cfg.Endpoint = v
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
