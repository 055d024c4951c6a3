package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/tidelog-dev/tidelog/internal/types"
)

// Gorilla connections allow one concurrent writer, so every connection
// carries a mutex shared by the broadcast path and its ping loop.
var (
	userClients   = make(map[string]map[*websocket.Conn]*sync.Mutex)
	userClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

func writeJSONLocked(conn *websocket.Conn, mu *sync.Mutex, payload interface{}) error {
	mu.Lock()
	defer mu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return conn.WriteJSON(payload)
}

// BroadcastRefresh tells a user's open dashboard sockets to refetch after a
// journal or pet write.
func BroadcastRefresh(userID string) {
	type client struct {
		conn *websocket.Conn
		mu   *sync.Mutex
	}

	userClientsMu.RLock()
	clients, exists := userClients[userID]
	if !exists || len(clients) == 0 {
		userClientsMu.RUnlock()
		return
	}

	// Copy the connection set so the registry lock is not held while writing
	clientsCopy := make([]client, 0, len(clients))
	for conn, mu := range clients {
		clientsCopy = append(clientsCopy, client{conn: conn, mu: mu})
	}
	userClientsMu.RUnlock()

	for _, c := range clientsCopy {
		err := writeJSONLocked(c.conn, c.mu, map[string]string{
			"type":    "refresh",
			"message": "Dashboard data updated",
			"userId":  userID,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			userClientsMu.Lock()
			if clients, exists := userClients[userID]; exists {
				delete(clients, c.conn)
				if len(clients) == 0 {
					delete(userClients, userID)
				}
			}
			userClientsMu.Unlock()
			c.conn.Close()
		}
	}
}

func WebSocket(c *gin.Context) {
	userID := c.Param("user_id")

	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	writeMu := &sync.Mutex{}

	userClientsMu.Lock()
	if userClients[userID] == nil {
		userClients[userID] = make(map[*websocket.Conn]*sync.Mutex)
	}
	userClients[userID][conn] = writeMu
	userClientsMu.Unlock()

	defer func() {
		userClientsMu.Lock()

		if clients, exists := userClients[userID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(userClients, userID)
			}
		}

		userClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for user %s", userID)
	}()

	err = writeJSONLocked(conn, writeMu, map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
		"userId":  userID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			writeMu.Lock()
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				writeMu.Unlock()
				log.Printf("Failed to set write deadline for user %s: %v", userID, err)
				return
			}
			err := conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
			if err != nil {
				log.Printf("Ping failed for user %s: %v", userID, err)
				return
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for user %s: %v", userID, err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for user %s: %v", userID, err)
			}
			break
		}

		if messageType == websocket.TextMessage {
			log.Printf("Received message from user %s: %s", userID, string(message))
		}
	}
}
