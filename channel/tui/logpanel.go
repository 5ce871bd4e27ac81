package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultMaxLogLines = 500

var (
	logLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // dim gray
	logWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	logErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// LogPanel is the diagnostic channel made visible: exchange failures and
// other logger records appear here while the widget owns the terminal.
// Lines are wrapped to the panel width so the cause at the end of an error
// record stays readable.
type LogPanel struct {
	viewport viewport.Model
	lines    []string // raw records, newest last
	maxLines int
	errors   int
	width    int
}

// NewLogPanel creates a log panel.
func NewLogPanel() *LogPanel {
	vp := viewport.New(0, 0)
	vp.SetContent("")
	return &LogPanel{
		viewport: vp,
		maxLines: defaultMaxLogLines,
	}
}

// Errors returns how many error records were shown.
func (p *LogPanel) Errors() int { return p.errors }

func (p *LogPanel) Update(msg tea.Msg) (Panel, tea.Cmd) {
	if line, ok := msg.(LogLineMsg); ok {
		p.appendLine(strings.TrimRight(line.Line, "\n"))
		return p, nil
	}
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *LogPanel) appendLine(line string) {
	if strings.Contains(line, "level=ERROR") {
		p.errors++
	}
	p.lines = append(p.lines, line)
	if len(p.lines) > p.maxLines {
		p.lines = p.lines[len(p.lines)-p.maxLines:]
	}
	p.refresh()
}

func (p *LogPanel) refresh() {
	rendered := make([]string, 0, len(p.lines))
	for _, line := range p.lines {
		rendered = append(rendered, renderLogLine(line, p.width))
	}
	p.viewport.SetContent(strings.Join(rendered, "\n"))
	p.viewport.GotoBottom()
}

func renderLogLine(line string, width int) string {
	style := logLineStyle
	switch {
	case strings.Contains(line, "level=ERROR"):
		style = logErrorStyle
	case strings.Contains(line, "level=WARN"):
		style = logWarnStyle
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(line)
}

func (p *LogPanel) View() string {
	return p.viewport.View()
}

func (p *LogPanel) SetSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = height
	if width != p.width {
		p.width = width
		p.refresh()
	}
}
