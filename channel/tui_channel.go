package channel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/chatwidget/channel/tui"
	"github.com/linanwx/chatwidget/logger"
)

const logBufferSize = 256

// TUIChannel runs the chat widget as a bubbletea program.
type TUIChannel struct {
	cfg Config
}

func newTUIChannel(cfg Config) *TUIChannel {
	return &TUIChannel{cfg: cfg}
}

func (c *TUIChannel) Name() string { return "tui" }

func (c *TUIChannel) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tui.NewApp(ctx, c.cfg.Exchanger, tui.Options{
		Prompt:   c.cfg.Prompt,
		Policy:   c.cfg.Policy,
		ShowLogs: c.cfg.ShowLogs,
		LogRatio: c.cfg.LogRatio,
	})
	program := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	// Redirect logger output to the log panel for the program's lifetime.
	lw := newLogWriter(program)
	logger.Intercept(lw)
	defer func() {
		logger.Restore()
		lw.close()
	}()

	logger.Info("chat widget started", "policy", c.cfg.Policy.String())
	_, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// logWriter forwards log lines to the program. Writes never block: Update
// itself logs, and program.Send from inside Update would deadlock.
type logWriter struct {
	program *tea.Program
	lines   chan string
	done    chan struct{}
	once    sync.Once
}

func newLogWriter(p *tea.Program) *logWriter {
	w := &logWriter{
		program: p,
		lines:   make(chan string, logBufferSize),
		done:    make(chan struct{}),
	}
	go w.pump()
	return w
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(p, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		select {
		case w.lines <- string(line):
		case <-w.done:
			return len(p), nil
		default:
			// Panel is behind; drop rather than stall the caller.
		}
	}
	return len(p), nil
}

func (w *logWriter) pump() {
	for {
		select {
		case line := <-w.lines:
			w.program.Send(tui.LogLineMsg{Line: line})
		case <-w.done:
			return
		}
	}
}

func (w *logWriter) close() {
	w.once.Do(func() { close(w.done) })
}
