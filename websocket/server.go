package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // dashboard clients connect from arbitrary origins
	},
}

// Handler returns the HTTP handler that upgrades connections and attaches
// them to the hub.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Error("websocket upgrade failed", err)
			return
		}

		client := NewClient(h, conn)
		h.register <- client

		go client.writePump()
		go client.readPump()
	}
}
