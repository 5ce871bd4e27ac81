package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/chatwidget/chat"
	"github.com/linanwx/chatwidget/logger"
)

const defaultLogRatio = 0.25

var separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

// Options configures the widget.
type Options struct {
	Prompt   string
	Policy   chat.SendPolicy
	ShowLogs bool
	LogRatio float64
}

// App is the root bubbletea model: log panel, message list, input and send button.
type App struct {
	ctx  context.Context
	ctrl *chat.Controller

	logPanel   *LogPanel
	chatPanel  *ChatPanel
	inputPanel *InputPanel
	button     *SendButton

	width, height int
	logHeight     int
	showLogs      bool
	logRatio      float64
}

// NewApp creates the widget. Exchanges run with ctx; once ctx is done, replies
// that arrive late are dropped.
func NewApp(ctx context.Context, ex chat.Exchanger, opts Options) *App {
	if opts.Prompt == "" {
		opts.Prompt = "you> "
	}
	if opts.LogRatio <= 0 || opts.LogRatio >= 1 {
		opts.LogRatio = defaultLogRatio
	}
	chatPanel := NewChatPanel()
	return &App{
		ctx: ctx,
		ctrl: chat.NewController(chat.Config{
			Exchanger: ex,
			View:      chatPanel,
			Policy:    opts.Policy,
		}),
		logPanel:   NewLogPanel(),
		chatPanel:  chatPanel,
		inputPanel: NewInputPanel(opts.Prompt),
		button:     NewSendButton(),
		showLogs:   opts.ShowLogs,
		logRatio:   opts.LogRatio,
	}
}

// Controller returns the controller driving the transcript.
func (m *App) Controller() *chat.Controller { return m.ctrl }

func (m *App) Init() tea.Cmd {
	return textinput.Blink
}

func (m *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		if m.onButton(msg) {
			return m, m.submit()
		}
		if m.onLogPanel(msg) {
			_, cmd := m.logPanel.Update(msg)
			return m, cmd
		}
		_, cmd := m.chatPanel.Update(msg)
		return m, cmd

	case ReplyMsg:
		if m.ctx.Err() != nil {
			m.ctrl.Abandon(msg.Pending)
		} else {
			m.ctrl.Settle(msg.Pending, msg.Outcome)
		}
		if m.ctrl.Outstanding() == 0 {
			m.button.SetBusy(false)
		}
		return m, nil

	case LogLineMsg:
		_, cmd := m.logPanel.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		_, cmd := m.button.Update(msg)
		return m, cmd
	}

	// Cursor blink and anything else the text input cares about.
	_, cmd := m.inputPanel.Update(msg)
	return m, cmd
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	case tea.KeyTab, tea.KeyShiftTab:
		return m.toggleFocus()
	case tea.KeyEnter:
		// Enter in the input is the same as pressing the button.
		return m.submit()
	case tea.KeySpace:
		if m.button.Focused() {
			return m.submit()
		}
	case tea.KeyPgUp, tea.KeyPgDown:
		_, cmd := m.chatPanel.Update(msg)
		return cmd
	}
	if !m.inputPanel.Focused() {
		return nil
	}
	_, cmd := m.inputPanel.Update(msg)
	return cmd
}

// submit is the single send path for Enter and button activation.
func (m *App) submit() tea.Cmd {
	p, err := m.ctrl.Begin(m.inputPanel.Value())
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		return nil
	case errors.Is(err, chat.ErrBusy):
		logger.Warn("send ignored, waiting for the previous reply")
		return nil
	case err != nil:
		logger.Error("send failed", "err", err)
		return nil
	}
	m.inputPanel.Clear()

	ctx, ctrl := m.ctx, m.ctrl
	exchange := func() tea.Msg {
		return ReplyMsg{Pending: p, Outcome: ctrl.Exchange(ctx, p)}
	}
	return tea.Batch(exchange, m.button.SetBusy(true))
}

func (m *App) toggleFocus() tea.Cmd {
	if m.inputPanel.Focused() {
		m.inputPanel.Blur()
		m.button.SetFocused(true)
		return nil
	}
	m.button.SetFocused(false)
	return m.inputPanel.Focus()
}

// onButton reports whether msg is a left click on the send button.
func (m *App) onButton(msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	return msg.Y == m.height-1 && msg.X >= m.width-m.button.Width() && msg.X < m.width
}

// onLogPanel reports whether msg points into the log panel rows.
func (m *App) onLogPanel(msg tea.MouseMsg) bool {
	return m.showLogs && msg.Y >= 0 && msg.Y < m.logHeight
}

func (m *App) View() string {
	if m.width == 0 || m.height == 0 {
		return "initializing..."
	}

	sep := separatorStyle.Render(strings.Repeat("─", m.width))
	inputW := max(m.width-m.button.Width(), 1)
	inputRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(inputW).MaxWidth(inputW).Render(m.inputPanel.View()),
		m.button.View(),
	)

	rows := make([]string, 0, 5)
	if m.showLogs {
		rows = append(rows, m.logPanel.View(), sep)
	}
	rows = append(rows, m.chatPanel.View(), sep, inputRow)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *App) recalcLayout() {
	const inputH = 1
	seps := 1
	if m.showLogs {
		seps = 2
	}

	usable := max(m.height-inputH-seps, 2)
	logH := 0
	if m.showLogs {
		logH = max(int(float64(usable)*m.logRatio), 1)
	}
	chatH := max(usable-logH, 1)
	m.logHeight = logH

	m.logPanel.SetSize(m.width, logH)
	m.chatPanel.SetSize(m.width, chatH)
	m.inputPanel.SetSize(max(m.width-m.button.Width(), 1), inputH)
}
