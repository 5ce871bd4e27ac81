// Package tui is the terminal rendition of the chat widget: a scrolling
// message list, a single-line input and a send button.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/linanwx/chatwidget/chat"
)

// Panel is a composable TUI region with its own state, update logic, and view.
// The root App model orchestrates panels without knowing their internals.
type Panel interface {
	Update(tea.Msg) (Panel, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// LogLineMsg carries a single log line from the logger writer.
type LogLineMsg struct{ Line string }

// ReplyMsg carries the outcome of an exchange back into the event loop.
type ReplyMsg struct {
	Pending *chat.Pending
	Outcome chat.Outcome
}
