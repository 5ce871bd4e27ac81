package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/linanwx/chatwidget/chat"
	"github.com/linanwx/chatwidget/config"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize chatwidget configuration",
	Long:  `Create the chatwidget configuration directory and config file.`,
	RunE:  runOnboard,
}

var onboardForce bool

func init() {
	onboardCmd.Flags().BoolVar(&onboardForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(_ *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(configPath); err == nil && !onboardForce {
		fmt.Println("Config already exists at:", configPath)
		fmt.Println("To reconfigure, edit the file directly or run 'chatwidget onboard --force'.")
		return nil
	}

	// --- interactive wizard ---

	cfg := config.DefaultConfig()
	var (
		endpoint = cfg.Endpoint
		policy   = cfg.SendPolicy
		level    = cfg.Logging.Level
		showLogs = true
	)

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Chat endpoint").
				Description("Messages are POSTed here as {\"message\": ...}; the reply is read from {\"reply\": ...}.").
				Validate(validateEndpoint).
				Value(&endpoint),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Send policy").
				Description("Serial waits for each reply before accepting the next message.").
				Options(
					huh.NewOption("serial [Recommended]", chat.SendSerial.String()),
					huh.NewOption("concurrent (replies may arrive out of order)", chat.SendConcurrent.String()),
				).
				Value(&policy),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&level),
			huh.NewConfirm().
				Title("Show the log panel above the chat?").
				Value(&showLogs),
		),
	).Run()
	if err != nil {
		return err
	}

	// --- apply config ---

	cfg.Endpoint = strings.TrimSpace(endpoint)
	cfg.SendPolicy = policy
	cfg.Logging.Level = level
	cfg.UI.ShowLogs = &showLogs
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("chatwidget initialized successfully!")
	fmt.Println()
	fmt.Println("  Config:", configPath)
	fmt.Println("  Endpoint:", cfg.Endpoint)
	fmt.Println("  Send policy:", cfg.SendPolicy)
	fmt.Println()
	fmt.Println("Run 'chatwidget' to start.")
	return nil
}

func validateEndpoint(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint needs a host")
	}
	return nil
}
