package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc ViewService, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// View.
	r.Get("/view", h.GetView)
	r.Post("/view/reload", h.ReloadView)
	r.Get("/view/sources", h.ListSources)
	r.Get("/view/lines/{index}", h.GetLine)
	r.Post("/view/lines/{index}/execute", h.ExecuteLine)

	// Run history.
	r.Get("/history", h.ListHistory)
	r.Get("/history/{id}", h.GetRun)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
