package internal

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/lineview/internal/document"
)

type healthResponse struct {
	Status   string `json:"status"`
	Lines    int    `json:"lines,omitempty"`
	Checksum string `json:"checksum,omitempty"`
	History  string `json:"history,omitempty"`
}

func writeHealth(w http.ResponseWriter, status int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// healthRoutes mounts the liveness and readiness probes. Readiness fails
// while the history database is unreachable.
func (a *application) healthRoutes(r chi.Router, doc *document.Service) {
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, healthResponse{Status: "ok"})
	})

	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		summary := doc.Summary()
		resp := healthResponse{Status: "ok", Lines: summary.Lines, Checksum: summary.Checksum}
		status := http.StatusOK

		if db := a.history; db != nil {
			if err := db.Ping(r.Context()); err != nil {
				resp.Status = "unavailable"
				resp.History = err.Error()
				status = http.StatusServiceUnavailable
			} else {
				resp.History = "ok"
			}
		}
		writeHealth(w, status, resp)
	})
}
