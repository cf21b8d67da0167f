package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"newsdesk/internal/platform/apierr"
	"newsdesk/internal/ui"
)

const (
	watchWriteWait = 10 * time.Second
	watchPongWait  = 60 * time.Second
	watchPingEvery = (watchPongWait * 9) / 10
)

var watchUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// Watch upgrades to a websocket and pushes the full surface of a news
// item on connect and after every change. Clients only ever replace their
// whole surface; no partial updates are sent.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	newsID := newsIDParam(r)
	if newsID == "" {
		h.writeError(w, r, apierr.BadRequest("newsId is required"))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	surfaces, err := h.svc.Watch(ctx, newsID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	conn, err := watchUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("watch upgrade failed", "newsId", newsID, "error", err)
		return
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(watchPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchPongWait))
	})

	// The read loop only drives pong handling and notices the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.log.Debug("watch opened", "newsId", newsID)
	defer h.log.Debug("watch closed", "newsId", newsID)

	ticker := time.NewTicker(watchPingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-surfaces:
			if !ok {
				return
			}
			if err := writeSurface(conn, s); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeSurface(conn *websocket.Conn, s ui.Surface) error {
	if err := conn.SetWriteDeadline(time.Now().Add(watchWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(s)
}
