package channel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/linanwx/chatwidget/chat"
	"github.com/linanwx/chatwidget/logger"
	"github.com/linanwx/chatwidget/transcript"
)

const botPrefix = "bot> "

// PlainChannel is the line-oriented surface used when stdin is not a terminal.
// Every input line is one submission; the transcript is printed as it grows.
type PlainChannel struct {
	cfg Config
	in  io.Reader
	out io.Writer

	mu sync.Mutex
}

// NewPlainChannel creates a plain channel.
func NewPlainChannel(cfg Config) *PlainChannel {
	if cfg.Prompt == "" {
		cfg.Prompt = "you> "
	}
	in, out := cfg.In, cfg.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &PlainChannel{cfg: cfg, in: in, out: out}
}

func (c *PlainChannel) Name() string { return "plain" }

// Render prints one transcript entry.
func (c *PlainChannel) Render(msg transcript.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := botPrefix
	if msg.Origin == transcript.User {
		prefix = c.cfg.Prompt
	}
	fmt.Fprintln(c.out, prefix+msg.Text)
}

func (c *PlainChannel) Run(ctx context.Context) error {
	ctrl := chat.NewController(chat.Config{
		Exchanger: c.cfg.Exchanger,
		View:      c,
		Policy:    c.cfg.Policy,
	})
	logger.Info("plain channel started", "policy", c.cfg.Policy.String())

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var inflight sync.WaitGroup
	defer inflight.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}
			if isExitCommand(strings.TrimSpace(line)) {
				return nil
			}

			done, err := ctrl.Submit(ctx, line)
			switch {
			case errors.Is(err, chat.ErrEmptyInput):
				continue
			case err != nil:
				logger.Warn("send ignored", "err", err)
				continue
			}

			if c.cfg.Policy == chat.SendSerial {
				select {
				case <-done:
				case <-ctx.Done():
					return nil
				}
				continue
			}
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				<-done
			}()
		}
	}
}
