package handler

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"newsdesk/internal/gateway/repository/artifact"
)

type generateRequest struct {
	Input string `json:"input"`
	Type  string `json:"type"`
}

type regenerateRequest struct {
	NewsID  string `json:"newsId"`
	Section string `json:"section"`
}

type updateHeadlinesRequest struct {
	NewsID    string   `json:"newsId"`
	Headlines []string `json:"headlines"`
}

type updateScriptRequest struct {
	NewsID     string `json:"newsId"`
	ScriptText string `json:"scriptText"`
}

type newsRequest struct {
	NewsID     string `json:"newsId"`
	Format     string `json:"format,omitempty"`
	HeadlineID string `json:"headlineId,omitempty"`
	ItemID     string `json:"itemId,omitempty"`
}

type draftView struct {
	Revision int64     `json:"revision"`
	SavedAt  time.Time `json:"savedAt"`
	Headline string    `json:"headline"`
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var in generateRequest
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.svc.Generate(r.Context(), in.Input, in.Type)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var in regenerateRequest
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.svc.Regenerate(r.Context(), in.NewsID, in.Section)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdateHeadlines(w http.ResponseWriter, r *http.Request) {
	var in updateHeadlinesRequest
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.svc.UpdateHeadlines(r.Context(), in.NewsID, in.Headlines)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdateScript(w http.ResponseWriter, r *http.Request) {
	var in updateScriptRequest
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.svc.UpdateScript(r.Context(), in.NewsID, in.ScriptText)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var in newsRequest
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.svc.Save(r.Context(), in.NewsID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	var in newsRequest
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.svc.Approve(r.Context(), in.NewsID, in.Format)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SelectHeadline(w http.ResponseWriter, r *http.Request) {
	var in newsRequest
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.svc.SelectHeadline(r.Context(), in.NewsID, in.HeadlineID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ToggleChecklist(w http.ResponseWriter, r *http.Request) {
	var in newsRequest
	if err := decode(w, r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	out, err := h.svc.ToggleChecklist(r.Context(), in.NewsID, in.ItemID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetSurface(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Surface(r.Context(), newsIDParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Drafts(r.Context(), newsIDParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]draftView, 0, len(list))
	for _, d := range list {
		out = append(out, draftView{
			Revision: d.Revision,
			SavedAt:  d.SavedAt,
			Headline: d.Bundle.SelectedHeadline(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": out})
}

func (h *Handler) ListExports(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.Exports(r.Context(), newsIDParam(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": files})
}

// GetExport streams a stored export as a download.
func (h *Handler) GetExport(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	raw, err := h.svc.Export(r.Context(), newsIDParam(r), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", artifact.ContentType(name))
	w.Header().Set("Content-Length", strconv.Itoa(len(raw)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func newsIDParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("newsId"))
}
