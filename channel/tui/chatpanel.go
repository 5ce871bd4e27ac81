package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/linanwx/chatwidget/transcript"
)

var (
	userMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")) // cyan
	botMsgStyle  = lipgloss.NewStyle()
)

// ChatPanel is the message list. It renders the entries it is given and
// keeps the newest one in view.
type ChatPanel struct {
	viewport viewport.Model
	entries  []transcript.Message
	width    int
}

// NewChatPanel creates a chat panel.
func NewChatPanel() *ChatPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &ChatPanel{viewport: vp}
}

// Render appends one entry and scrolls to the bottom. It implements chat.View
// and must be called from the bubbletea event loop.
func (p *ChatPanel) Render(msg transcript.Message) {
	p.entries = append(p.entries, msg)
	p.refresh()
}

// Len returns the number of rendered entries.
func (p *ChatPanel) Len() int { return len(p.entries) }

// AtBottom reports whether the newest entry is in view.
func (p *ChatPanel) AtBottom() bool { return p.viewport.AtBottom() }

func (p *ChatPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *ChatPanel) View() string {
	return p.viewport.View()
}

func (p *ChatPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	if width != p.width {
		p.width = width
		p.refresh()
	}
}

func (p *ChatPanel) refresh() {
	lines := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		lines = append(lines, renderEntry(e, p.width))
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
	p.viewport.GotoBottom()
}

// renderEntry projects one message to text. Origin only selects the style.
func renderEntry(msg transcript.Message, width int) string {
	style := botMsgStyle
	text := msg.Text
	if msg.Origin == transcript.User {
		style = userMsgStyle
		text = "> " + text
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(text)
}
