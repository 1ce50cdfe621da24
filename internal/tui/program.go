package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/lineview/internal/models"
)

// Notifier forwards document events into a running program. It can be
// registered with the document service before the program exists.
type Notifier struct {
	mu      sync.Mutex
	program *tea.Program
}

// Attach sets the program that receives events.
func (n *Notifier) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

// ViewReloaded implements document.Notifier.
func (n *Notifier) ViewReloaded(summary models.ViewSummary) {
	n.mu.Lock()
	p := n.program
	n.mu.Unlock()
	if p != nil {
		p.Send(ReloadedMsg(summary))
	}
}

// LineExecuted implements document.Notifier. The model already reports its
// own executions.
func (n *Notifier) LineExecuted(models.Run) {}

// Run starts the full-screen UI and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, doc Document, n *Notifier) error {
	p := tea.NewProgram(NewModel(doc), tea.WithAltScreen(), tea.WithContext(ctx))
	if n != nil {
		n.Attach(p)
		defer n.Attach(nil)
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
