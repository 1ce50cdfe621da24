// Package models defines the domain types shared by the line-view services.
package models

import "time"

// Run records one execution of a line's command.
type Run struct {
	ID        string    `json:"id"`
	Root      string    `json:"root"`
	Index     int       `json:"index"`
	Source    string    `json:"source"`
	Position  int       `json:"position"`
	Text      string    `json:"text"`
	Args      []string  `json:"args"`
	PID       int       `json:"pid,omitempty"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Succeeded reports whether the process was spawned.
func (r Run) Succeeded() bool {
	return r.Error == ""
}

// ViewSummary describes the currently loaded document.
type ViewSummary struct {
	Root     string    `json:"root"`
	Title    string    `json:"title"`
	Lines    int       `json:"line_count"`
	Sources  int       `json:"source_count"`
	Checksum string    `json:"checksum"`
	LoadedAt time.Time `json:"loaded_at"`
}
