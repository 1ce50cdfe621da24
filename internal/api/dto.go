package api

import (
	"github.com/starford/lineview/internal/document"
	"github.com/starford/lineview/internal/models"
)

// ViewResponse is the full view (aliased from the domain layer).
type ViewResponse = document.Snapshot

// LineResponse is a single line (aliased from the domain layer).
type LineResponse = document.LineDetail

// ExecuteResponse is returned after a command was started.
type ExecuteResponse struct {
	Run models.Run `json:"run" validate:"required"`
}

// SourcesResponse lists every file of the current view, root first.
type SourcesResponse struct {
	Root    string   `json:"root" example:"/home/me/menu.txt" validate:"required"`
	Sources []string `json:"sources" validate:"required"`
}

// HistoryResponse wraps paginated run listings.
type HistoryResponse struct {
	Runs  []models.Run `json:"runs" validate:"required"`
	Total int          `json:"total" example:"42" validate:"required"`
}
