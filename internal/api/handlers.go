package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/lineview/internal/checksum"
	"github.com/starford/lineview/internal/document"
	"github.com/starford/lineview/internal/models"
)

// ViewService is the document behaviour the API needs.
type ViewService interface {
	Snapshot(ctx context.Context) document.Snapshot
	Line(ctx context.Context, index int) (document.LineDetail, error)
	Execute(ctx context.Context, index int, ifMatch string) (*models.Run, error)
	Reload(ctx context.Context) (models.ViewSummary, error)
	Summary() models.ViewSummary
	Sources() []string
	History(ctx context.Context, limit, offset int) ([]models.Run, int, error)
	SearchHistory(ctx context.Context, query string, limit int) ([]models.Run, error)
	Run(ctx context.Context, id string) (*models.Run, error)
}

// Verify *document.Service satisfies ViewService at compile time.
var _ ViewService = (*document.Service)(nil)

// Handler holds API route handlers.
type Handler struct {
	svc ViewService
}

// NewHandler creates a new Handler.
func NewHandler(svc ViewService) *Handler {
	return &Handler{svc: svc}
}

// lineIndex parses the {index} URL parameter.
func lineIndex(r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

// GetView handles GET /api/view.
//
//	@Summary		Get the current view with all lines
//	@Tags			view
//	@Produce		json
//	@Param			If-None-Match	header	string	false	"Checksum of a cached view"
//	@Success		200		{object}	ViewResponse
//	@Success		304
//	@Security		BearerAuth
//	@Router			/view [get]
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot(r.Context())
	w.Header().Set("ETag", checksum.ETag(snap.Checksum))
	if checksum.Matches(r.Header.Get("If-None-Match"), snap.Checksum) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetLine handles GET /api/view/lines/{index}.
//
//	@Summary		Get a single line by index
//	@Tags			view
//	@Produce		json
//	@Param			index	path		int	true	"Line index"
//	@Success		200		{object}	LineResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view/lines/{index} [get]
func (h *Handler) GetLine(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "index must be a non-negative integer"))
		return
	}
	line, err := h.svc.Line(r.Context(), index)
	if err != nil {
		writeError(w, r, err, "get line failed")
		return
	}
	writeJSON(w, http.StatusOK, line)
}

// ExecuteLine handles POST /api/view/lines/{index}/execute.
//
//	@Summary		Start the command of a line
//	@Tags			view
//	@Produce		json
//	@Param			index		path	int		true	"Line index"
//	@Param			If-Match	header	string	false	"View checksum for optimistic concurrency"
//	@Success		202		{object}	ExecuteResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view/lines/{index}/execute [post]
func (h *Handler) ExecuteLine(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody(codeBadRequest, "index must be a non-negative integer"))
		return
	}
	// Strip surrounding quotes if present (standard ETag format).
	ifMatch := checksum.Unquote(r.Header.Get("If-Match"))

	run, err := h.svc.Execute(r.Context(), index, ifMatch)
	if err != nil {
		writeError(w, r, err, "failed to start command")
		return
	}
	writeJSON(w, http.StatusAccepted, ExecuteResponse{Run: *run})
}

// ReloadView handles POST /api/view/reload.
//
//	@Summary		Rebuild the view from its root file
//	@Tags			view
//	@Produce		json
//	@Success		200		{object}	models.ViewSummary
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/view/reload [post]
func (h *Handler) ReloadView(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Reload(r.Context())
	if err != nil {
		writeError(w, r, err, "reload failed")
		return
	}
	w.Header().Set("ETag", checksum.ETag(summary.Checksum))
	writeJSON(w, http.StatusOK, summary)
}

// ListSources handles GET /api/view/sources.
//
//	@Summary		List every file read to build the view
//	@Tags			view
//	@Produce		json
//	@Success		200		{object}	SourcesResponse
//	@Security		BearerAuth
//	@Router			/view/sources [get]
func (h *Handler) ListSources(w http.ResponseWriter, _ *http.Request) {
	sources := h.svc.Sources()
	if sources == nil {
		sources = []string{}
	}
	writeJSON(w, http.StatusOK, SourcesResponse{
		Root:    h.svc.Summary().Root,
		Sources: sources,
	})
}

// ListHistory handles GET /api/history.
//
//	@Summary		List executed commands, newest first
//	@Tags			history
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			q		query		string	false	"Search line text and arguments"
//	@Success		200		{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/history [get]
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	if query := strings.TrimSpace(q.Get("q")); query != "" {
		runs, err := h.svc.SearchHistory(r.Context(), query, limit)
		if err != nil {
			writeError(w, r, err, "search history failed")
			return
		}
		writeJSON(w, http.StatusOK, HistoryResponse{Runs: runs, Total: len(runs)})
		return
	}

	runs, total, err := h.svc.History(r.Context(), limit, offset)
	if err != nil {
		writeError(w, r, err, "list history failed")
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Runs: runs, Total: total})
}

// GetRun handles GET /api/history/{id}.
//
//	@Summary		Get a single executed command
//	@Tags			history
//	@Produce		json
//	@Param			id	path		string	true	"Run ID"
//	@Success		200	{object}	models.Run
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/history/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.svc.Run(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "get run failed")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
