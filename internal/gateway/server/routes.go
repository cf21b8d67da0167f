package server

import (
	"net/http"
	"strings"

	"newsdesk/internal/gateway/handler"
	"newsdesk/internal/gateway/middleware"
	"newsdesk/internal/platform/logger"
)

// NewMux mounts the API and, when staticDir is set, the browser client.
func NewMux(h *handler.Handler, staticDir string, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	if dir := strings.TrimSpace(staticDir); dir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(dir)))
	}
	return middleware.Logging(log, middleware.CORS(mux))
}
