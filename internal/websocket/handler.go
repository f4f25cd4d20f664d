package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"vendorflow-backend/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Restrict in production
		return true
	},
}

// HandleWebSocket upgrades an HTTP connection into a session-event
// subscription. Authentication uses the token query parameter because
// browser WebSocket clients cannot set headers.
func HandleWebSocket(hub *Hub, store *auth.Store, resolver *auth.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := store.CurrentSession(r.URL.Query().Get("token"))
		if session == nil {
			log.Println("❌ Invalid or missing token for WebSocket connection")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Degraded users may still subscribe; they will observe their own
		// signed_out / session_resolved events like any other client.
		user := resolver.ResolveSession(session)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(session.Identity.UserID, user.Role(), conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()

		log.Printf("✅ WebSocket connection established for user: %s (%s)", session.Identity.Email, session.Identity.UserID)
	}
}
