// Package channel provides the surfaces the chat widget runs on.
package channel

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/linanwx/chatwidget/chat"
)

// Channel is a user-facing surface driving one chat session.
type Channel interface {
	// Name returns the channel name ("tui" or "plain").
	Name() string

	// Run blocks until the user ends the session or ctx is done.
	Run(ctx context.Context) error
}

// Config holds what every channel needs.
type Config struct {
	Exchanger chat.Exchanger
	Policy    chat.SendPolicy
	Prompt    string
	ShowLogs  bool
	LogRatio  float64

	In  io.Reader // plain channel input, defaults to os.Stdin
	Out io.Writer // plain channel output, defaults to os.Stdout
}

// NewCLIChannel returns the terminal widget when stdin is a terminal and
// forcePlain is false, otherwise the line-oriented channel.
func NewCLIChannel(cfg Config, forcePlain bool) Channel {
	if !forcePlain && term.IsTerminal(int(os.Stdin.Fd())) {
		return newTUIChannel(cfg)
	}
	return NewPlainChannel(cfg)
}

func isExitCommand(text string) bool {
	switch text {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}
