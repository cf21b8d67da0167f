// Package handler exposes the news service as JSON-over-HTTP endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"newsdesk/internal/gateway/repository/draft"
	"newsdesk/internal/gateway/service/news"
	"newsdesk/internal/platform/apierr"
	"newsdesk/internal/platform/logger"
	"newsdesk/internal/ui"
)

const maxBodyBytes = 1 << 20

// NewsService is the business surface the handlers call.
type NewsService interface {
	Generate(ctx context.Context, input, typ string) (ui.Surface, error)
	Regenerate(ctx context.Context, newsID, section string) (ui.Surface, error)
	UpdateHeadlines(ctx context.Context, newsID string, headlines []string) (ui.AckPayload, error)
	UpdateScript(ctx context.Context, newsID, scriptText string) (ui.AckPayload, error)
	Save(ctx context.Context, newsID string) (ui.AckPayload, error)
	Approve(ctx context.Context, newsID, format string) (ui.ExportPayload, error)
	SelectHeadline(ctx context.Context, newsID, headlineID string) (ui.Surface, error)
	ToggleChecklist(ctx context.Context, newsID, itemID string) (ui.Surface, error)
	Surface(ctx context.Context, newsID string) (ui.Surface, error)
	Watch(ctx context.Context, newsID string) (<-chan ui.Surface, error)
	Drafts(ctx context.Context, newsID string) ([]draft.Draft, error)
	Exports(ctx context.Context, newsID string) ([]news.ExportFile, error)
	Export(ctx context.Context, newsID, name string) ([]byte, error)
}

type Handler struct {
	svc NewsService
	log *logger.Logger
}

func New(svc NewsService, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{svc: svc, log: log}
}

// Register mounts every endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+ui.EndpointGenerate, h.Generate)
	mux.HandleFunc("POST "+ui.EndpointRegenerate, h.Regenerate)
	mux.HandleFunc("POST "+ui.EndpointUpdateHeadlines, h.UpdateHeadlines)
	mux.HandleFunc("POST "+ui.EndpointUpdateScript, h.UpdateScript)
	mux.HandleFunc("POST "+ui.EndpointSave, h.Save)
	mux.HandleFunc("POST "+ui.EndpointApprove, h.Approve)
	mux.HandleFunc("POST "+ui.EndpointSelectHeadline, h.SelectHeadline)
	mux.HandleFunc("POST "+ui.EndpointToggleChecklist, h.ToggleChecklist)
	mux.HandleFunc("GET /api/surface", h.GetSurface)
	mux.HandleFunc("GET /api/drafts", h.ListDrafts)
	mux.HandleFunc("GET /api/exports", h.ListExports)
	mux.HandleFunc("GET /api/export", h.GetExport)
	mux.HandleFunc("GET "+ui.EndpointWatch, h.Watch)
	mux.HandleFunc("GET /healthz", h.Health)
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierr.BadRequest("request body is required")
		}
		return apierr.BadRequest("invalid json body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := apierr.StatusOf(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "path", r.URL.Path, "code", code, "error", err)
	} else {
		h.log.Debug("request rejected", "path", r.URL.Path, "status", status, "code", code, "error", err)
	}
	writeJSON(w, status, ui.ErrorPayload{Error: err.Error()})
}
