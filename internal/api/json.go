package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/lineview/internal/apperr"
)

// Error codes returned next to the message.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeNotFound     = "not_found"
	codeConflict     = "conflict"
	codeNoCommand    = "no_command"
	codeInternal     = "internal"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
	Code  string `json:"code" example:"not_found" validate:"required"`
}

func errorBody(code, msg string) errResponse {
	return errResponse{Error: msg, Code: code}
}

// writeError maps a service error onto a status code. Errors without a
// matching sentinel are logged and reported as msg with status 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(codeNotFound, "not found"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody(codeConflict, "checksum mismatch"))
	case errors.Is(err, apperr.ErrNoCommand):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(codeNoCommand, "line has no command"))
	default:
		slog.Error(msg,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody(codeInternal, msg))
	}
}
