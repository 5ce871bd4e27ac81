package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const buttonLabel = " Send "

var (
	buttonStyle        = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("7"))
	buttonFocusedStyle = buttonStyle.Reverse(true)
)

// SendButton is the activation control next to the input. While an exchange
// is outstanding it shows a spinner; it stays clickable either way.
type SendButton struct {
	spinner spinner.Model
	focused bool
	busy    bool
}

// NewSendButton creates an unfocused send button.
func NewSendButton() *SendButton {
	return &SendButton{spinner: spinner.New(spinner.WithSpinner(spinner.Dot))}
}

// Width is the number of cells the button occupies.
func (b *SendButton) Width() int {
	return lipgloss.Width(b.View())
}

// SetFocused toggles keyboard focus.
func (b *SendButton) SetFocused(v bool) { b.focused = v }

// Focused reports whether the button has keyboard focus.
func (b *SendButton) Focused() bool { return b.focused }

// SetBusy switches the spinner on or off. Turning it on returns the first tick.
func (b *SendButton) SetBusy(v bool) tea.Cmd {
	wasBusy := b.busy
	b.busy = v
	if v && !wasBusy {
		return b.spinner.Tick
	}
	return nil
}

func (b *SendButton) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		if !b.busy {
			return b, nil
		}
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(tick)
		return b, cmd
	}
	return b, nil
}

func (b *SendButton) View() string {
	label := "[" + buttonLabel + "]"
	if b.busy {
		label = "[" + b.spinner.View() + "Send]"
	}
	if b.focused {
		return buttonFocusedStyle.Render(label)
	}
	return buttonStyle.Render(label)
}

func (b *SendButton) SetSize(int, int) {}
