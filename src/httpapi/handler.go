// Package httpapi exposes the archive pipeline over HTTP: one endpoint
// that takes a repo identifier and runs it end to end, mirroring the
// teacher's TarHandler/Serve split between request handling and process
// wiring.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/repocask/archiveforge/src/pipeline"
)

// Runner is the subset of *pipeline.Pipeline the handler depends on.
type Runner interface {
	Run(ctx context.Context, repo, rev string) (pipeline.Result, error)
}

// Handler is a http.Handler that archives a single repo per request.
type Handler struct {
	Pipeline Runner
	Logger   *log.Logger
}

func (h *Handler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.Default()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Handler(w, r)
}

// Handler implements the single archive endpoint: GET/POST with a
// "repo" query parameter and an optional "rev" parameter.
func (h *Handler) Handler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	reqID := uuid.NewString()
	repo := r.URL.Query().Get("repo")
	rev := r.URL.Query().Get("rev")

	result, err := h.Pipeline.Run(r.Context(), repo, rev)
	if err != nil {
		status := http.StatusInternalServerError
		var pe *pipeline.Error
		if errors.As(err, &pe) {
			status = pe.Status
		}
		h.logger().Printf("[%s] archive %q failed: %s", reqID, repo, err)
		writeError(w, status, err.Error())
		return
	}

	h.logger().Printf("[%s] archived %q: %d files, %d bytes", reqID, repo, result.FileCount, result.ArchiveSize)
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}
