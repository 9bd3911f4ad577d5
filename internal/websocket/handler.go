package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection, queues the initial frame and pumps until the peer leaves.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, initial []byte) {
	serve(hub, c, sessionID, initial)
}

func serve(hub *Hub, conn wsConn, sessionID string, initial []byte) {
	client := newClient(hub, conn, sessionID)
	if initial != nil {
		client.Send <- initial
	}
	if !hub.join(client) {
		_ = conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
