package ws

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/abeme/go_qa_api/middleware"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the HTTP connection to a WebSocket, resolves the session
// identity through the gate, registers the client with the hub, and starts
// the pumps. A connection without a valid session is accepted as anonymous:
// it receives public broadcasts but can never join a room or receive
// user-targeted events.
func ServeWS(h *Hub, gate *SessionGate, c *gin.Context) {
	token := middleware.BearerToken(c.GetHeader("Authorization"))
	if token == "" {
		// browser websocket clients cannot set headers
		token = c.Query("token")
	}
	userID := gate.Authenticate(c.Request.Context(), token)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		gate:   gate,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
	}

	h.RegisterClient(client)
	go client.Serve()
}
