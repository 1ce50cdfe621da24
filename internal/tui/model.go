// Package tui is the interactive terminal front end: a scrollable list of the
// document's lines where enter runs the selected line's command.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/lineview/internal/document"
	"github.com/starford/lineview/internal/models"
)

// Document is what the terminal UI needs from the document service.
type Document interface {
	Snapshot(ctx context.Context) document.Snapshot
	Execute(ctx context.Context, index int, ifMatch string) (*models.Run, error)
	Reload(ctx context.Context) (models.ViewSummary, error)
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	PageUp  key.Binding
	PageDn  key.Binding
	Execute key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Execute, k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDn, k.Top, k.Bottom},
		{k.Execute, k.Reload, k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", "first line")),
		Bottom:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", "last line")),
		PageUp:  key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDn:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Execute: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model holds the TUI state.
type Model struct {
	doc  Document
	keys keyMap
	help help.Model

	// Data
	snapshot document.Snapshot

	// UI State
	cursor int
	offset int // first visible line
	width  int
	height int
	status string
	failed bool
}

// NewModel returns the initial state for doc.
func NewModel(doc Document) Model {
	return Model{
		doc:      doc,
		keys:     defaultKeyMap(),
		help:     help.New(),
		snapshot: doc.Snapshot(context.Background()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Cursor returns the selected line index.
func (m Model) Cursor() int { return m.cursor }

// Status returns the status line text.
func (m Model) Status() string { return m.status }
