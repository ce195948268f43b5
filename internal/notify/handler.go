package notify

import (
	"log/slog"
	"net/http"
	"time"

	"crimecity-server/internal/middleware"
	"crimecity-server/internal/shared/config"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Handler upgrades an authenticated request to a WebSocket and keeps the
// connection registered with the hub until it drops.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == config.GlobalConfig.Frontend.URL
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "notifications_ws", "remote_addr", r.RemoteAddr)

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	c := &client{
		playerID: claims.PlayerID,
		send:     make(chan []byte, clientBufferSize),
	}
	h.hub.register(c)

	logger.Info("WebSocket connection established", "player_id", claims.PlayerID)

	go h.writePump(conn, c, logger)
	go h.readPump(conn, c, logger)
}

// readPump drains incoming frames so pong handlers fire and unregisters
// the client when the socket dies. Client messages are ignored; the socket
// is push only.
func (h *Handler) readPump(conn *websocket.Conn, c *client, logger *slog.Logger) {
	defer func() {
		h.hub.unregister(c)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("WebSocket closed unexpectedly", "error", err, "player_id", c.playerID)
			}
			return
		}
	}
}

func (h *Handler) writePump(conn *websocket.Conn, c *client, logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Debug("WebSocket write failed", "error", err, "player_id", c.playerID)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
