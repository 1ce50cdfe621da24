package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/lineview/internal/apperr"
	"github.com/starford/lineview/internal/models"
)

// ReloadedMsg reports that the document was rebuilt outside the UI, for
// example by the file watcher.
type ReloadedMsg models.ViewSummary

type executedMsg struct {
	run *models.Run
	err error
}

type reloadDoneMsg struct {
	summary models.ViewSummary
	err     error
}

// Update handles events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil

	case ReloadedMsg:
		m.refresh()
		m.setStatus(fmt.Sprintf("reloaded %d lines", msg.Lines), false)
		return m, nil

	case reloadDoneMsg:
		if msg.err != nil {
			m.setStatus("reload failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.refresh()
		m.setStatus(fmt.Sprintf("reloaded %d lines", msg.summary.Lines), false)
		return m, nil

	case executedMsg:
		switch {
		case errors.Is(msg.err, apperr.ErrConflict):
			m.refresh()
			m.setStatus("document changed, press enter again", true)
		case msg.err != nil:
			m.setStatus(msg.err.Error(), true)
		default:
			m.setStatus(fmt.Sprintf("started %s (pid %d)", strings.Join(msg.run.Args, " "), msg.run.PID), false)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	last := len(m.snapshot.Lines) - 1

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < last {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(last, 0)
	case key.Matches(msg, m.keys.PageUp):
		m.cursor = max(m.cursor-m.listHeight(), 0)
	case key.Matches(msg, m.keys.PageDn):
		m.cursor = max(min(m.cursor+m.listHeight(), last), 0)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Reload):
		m.setStatus("reloading...", false)
		return m, m.reload()
	case key.Matches(msg, m.keys.Execute):
		return m.execute()
	}
	m.scroll()
	return m, nil
}

func (m Model) execute() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.snapshot.Lines) {
		return m, nil
	}
	line := m.snapshot.Lines[m.cursor]
	if !line.HasCommand {
		m.setStatus("no command on this line", true)
		return m, nil
	}
	doc, index, checksum := m.doc, m.cursor, m.snapshot.Checksum
	return m, func() tea.Msg {
		run, err := doc.Execute(context.Background(), index, checksum)
		return executedMsg{run: run, err: err}
	}
}

func (m Model) reload() tea.Cmd {
	doc := m.doc
	return func() tea.Msg {
		summary, err := doc.Reload(context.Background())
		return reloadDoneMsg{summary: summary, err: err}
	}
}

// refresh takes a new snapshot and keeps the cursor in range.
func (m *Model) refresh() {
	m.snapshot = m.doc.Snapshot(context.Background())
	if last := len(m.snapshot.Lines) - 1; m.cursor > last {
		m.cursor = max(last, 0)
	}
	m.scroll()
}

func (m *Model) setStatus(text string, failed bool) {
	m.status = text
	m.failed = failed
}

// scroll keeps the cursor inside the visible window.
func (m *Model) scroll() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
