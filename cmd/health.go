package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/linanwx/chatwidget/config"
	"github.com/linanwx/chatwidget/internal/health"
	"github.com/linanwx/chatwidget/logger"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Print a diagnostic snapshot",
	Long: `Print runtime information, the config and log file locations, and whether
the chat endpoint accepts TCP connections. No chat message is sent.

Examples:
  chatwidget health
  chatwidget health --format json
  chatwidget health --probe=false`,
	RunE: runHealth,
}

var (
	healthFormat string
	healthProbe  bool
)

func init() {
	healthCmd.Flags().StringVar(&healthFormat, "format", "yaml", "Output format: yaml or json")
	healthCmd.Flags().BoolVar(&healthProbe, "probe", true, "Dial the endpoint host")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	configDir, _ := config.ConfigDir()

	opts := health.Options{
		ConfigPath: configPath,
		Endpoint:   cfg.Endpoint,
		SendPolicy: cfg.SendPolicy,
		Probe:      healthProbe,
	}
	if lc := cfg.BuildLoggerConfig(); lc.Enabled && lc.File != "" {
		opts.LogFile = logger.FilePath(lc.File, configDir)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	snapshot := health.Collect(ctx, opts)

	var data []byte
	if strings.EqualFold(healthFormat, "json") {
		data, err = json.MarshalIndent(snapshot, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yaml.Marshal(snapshot)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize health snapshot: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
