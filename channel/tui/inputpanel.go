package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputPanel is the single-line text field. It never submits by itself; the
// App decides what Enter means and clears the field only on a successful send.
type InputPanel struct {
	input         textinput.Model
	width, height int
}

// NewInputPanel creates a focused input panel with the given prompt.
func NewInputPanel(prompt string) *InputPanel {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = "Type a message..."
	ti.Focus()
	return &InputPanel{input: ti}
}

// Value returns the current field content.
func (p *InputPanel) Value() string { return p.input.Value() }

// SetValue replaces the field content.
func (p *InputPanel) SetValue(s string) { p.input.SetValue(s) }

// Clear empties the field.
func (p *InputPanel) Clear() { p.input.Reset() }

// Focus gives the field keyboard focus.
func (p *InputPanel) Focus() tea.Cmd { return p.input.Focus() }

// Blur removes keyboard focus.
func (p *InputPanel) Blur() { p.input.Blur() }

// Focused reports whether the field has focus.
func (p *InputPanel) Focused() bool { return p.input.Focused() }

func (p *InputPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *InputPanel) View() string {
	return p.input.View()
}

func (p *InputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(width-len(p.input.Prompt)-1, 1)
}
