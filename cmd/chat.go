package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linanwx/chatwidget/channel"
	"github.com/linanwx/chatwidget/chat"
	"github.com/linanwx/chatwidget/config"
	"github.com/linanwx/chatwidget/exchange"
	"github.com/linanwx/chatwidget/logger"
)

var plainFlag bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the chat widget",
	Long: `Start an interactive chat session against the configured endpoint.

On a terminal this opens the full-screen widget: a message list, an input
line and a Send button. When stdin is not a terminal, or with --plain, each
input line is sent as one message and the transcript is printed as it grows.

Examples:
  chatwidget chat
  chatwidget chat --plain
  echo "hello" | chatwidget chat
  chatwidget --endpoint http://127.0.0.1:8080/chat chat`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&plainFlag, "plain", false, "Use the line-oriented interface even on a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	ch := channel.NewCLIChannel(channelConfig(cfg, policy), plainFlag)
	logger.Info("starting chat", "channel", ch.Name(), "endpoint", cfg.Endpoint, "policy", policy.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ch.Run(ctx); err != nil {
		return fmt.Errorf("%s channel: %w", ch.Name(), err)
	}
	return nil
}

func channelConfig(cfg *config.Config, policy chat.SendPolicy) channel.Config {
	return channel.Config{
		Exchanger: exchange.NewClient(cfg.Endpoint, http.DefaultClient),
		Policy:    policy,
		Prompt:    cfg.UI.Prompt,
		ShowLogs:  cfg.LogsVisible(),
		LogRatio:  cfg.UI.LogRatio,
	}
}
