package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/lineview/internal/document"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81")) // Sky Blue/Cyan

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				Foreground(lipgloss.Color("205")) // Pinkish

	unselectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(3)

	plainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196"))
)

// chrome is the number of rows used by the title, status and help lines.
const chrome = 4

func (m Model) listHeight() int {
	if m.height <= chrome {
		return 10
	}
	return m.height - chrome
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.snapshot.Title))
	b.WriteString("\n\n")

	lines := m.snapshot.Lines
	if len(lines) == 0 {
		b.WriteString(plainStyle.Render("   (empty document)"))
		b.WriteString("\n")
	}
	end := min(m.offset+m.listHeight(), len(lines))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderLine(lines[i], i == m.cursor))
		b.WriteString("\n")
	}

	status := m.status
	if status == "" {
		status = fmt.Sprintf("%d/%d", min(m.cursor+1, len(lines)), len(lines))
	}
	if m.failed {
		b.WriteString(errorStatusStyle.Render(status))
	} else {
		b.WriteString(statusStyle.Render(status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderLine(l document.LineDetail, selected bool) string {
	text := l.Text
	switch {
	case l.Kind == "title":
		text = subtitleStyle.Render(text)
	case l.Kind == "warning":
		text = warningStyle.Render("! " + text)
	case !l.HasCommand:
		text = plainStyle.Render(text)
	}
	if selected {
		return selectedItemStyle.Render("> " + text)
	}
	return unselectedItemStyle.Render(text)
}
