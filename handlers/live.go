// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/jury-live/cliparse"
	"github.com/danielhkuo/jury-live/hub"
	"github.com/danielhkuo/jury-live/middleware"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// LiveHandler streams score updates over WebSocket.
type LiveHandler struct {
	hub          *hub.Hub
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

func NewLiveHandler(h *hub.Hub, cfg cliparse.Config) *LiveHandler {
	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = cliparse.DefaultWriteTimeout
	}
	allowed := cfg.AllowedOrigins

	return &LiveHandler{
		hub:          h,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(allowed, r.Header.Get("Origin"))
			},
		},
	}
}

// Serve handles GET /ws
func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		slog.Warn("websocket upgrade failed", "remote", middleware.GetClientIP(r), "error", err)
		return
	}

	sub := h.hub.Subscribe()
	slog.Info("live subscriber connected", "subscriber_id", sub.ID, "remote", middleware.GetClientIP(r))

	go h.readPump(conn, sub)
	h.writePump(conn, sub)
}

// readPump discards client messages and notices disconnects.
func (h *LiveHandler) readPump(conn *websocket.Conn, sub *hub.Subscription) {
	defer h.hub.Unsubscribe(sub)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("live subscriber read error", "subscriber_id", sub.ID, "error", err)
			}
			return
		}
	}
}

// writePump is the only writer on conn. It returns when the subscription
// ends or a write fails.
func (h *LiveHandler) writePump(conn *websocket.Conn, sub *hub.Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.hub.Unsubscribe(sub)
		conn.Close()
		slog.Info("live subscriber disconnected", "subscriber_id", sub.ID)
	}()

	for {
		select {
		case msg := <-sub.Messages():
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sub.Done():
			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
