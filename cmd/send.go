package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linanwx/chatwidget/channel"
	"github.com/linanwx/chatwidget/chat"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a single message and print the reply",
	Long: `Send one message to the configured endpoint and print the user and bot
lines. Exits non-zero when the exchange fails; the placeholder reply is
still printed.

Examples:
  chatwidget send -m "Hi there"`,
	RunE: runSend,
}

var sendText string

func init() {
	sendCmd.Flags().StringVarP(&sendText, "message", "m", "", "Message text (required)")
	_ = sendCmd.MarkFlagRequired("message")
	rootCmd.AddCommand(sendCmd)
}

func runSend(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ccfg := channelConfig(cfg, chat.SendSerial)
	ccfg.Out = os.Stdout
	printer := channel.NewPlainChannel(ccfg)
	ctrl := chat.NewController(chat.Config{
		Exchanger: ccfg.Exchanger,
		View:      printer,
		Policy:    chat.SendSerial,
	})

	p, err := ctrl.Begin(sendText)
	if errors.Is(err, chat.ErrEmptyInput) {
		return fmt.Errorf("--message is blank")
	}
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := ctrl.Exchange(ctx, p)
	if ctx.Err() != nil {
		ctrl.Abandon(p)
		return ctx.Err()
	}
	ctrl.Settle(p, out)
	if out.Err != nil {
		return fmt.Errorf("exchange failed: %w", out.Err)
	}
	return nil
}
