package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/league-system/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin dashboards connect directly; auth happens elsewhere.
		return true
	},
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeOrgRoom upgrades the connection and joins the caller to the
// organization's event room.
func (h *WebSocketHandler) ServeOrgRoom(w http.ResponseWriter, r *http.Request) {
	orgID, err := getIDFromURL(r, "orgID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: live.RoomForOrg(orgID),
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
