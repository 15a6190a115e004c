package handlers

import (
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/recruitdesk/recruitdesk/internal/types"
)

var (
	departmentClients   = make(map[uint]map[*websocket.Conn]bool)
	departmentClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastRefresh nudges every dashboard watching a department to re-fetch.
func BroadcastRefresh(departmentID uint) {
	departmentClientsMu.RLock()
	clients, exists := departmentClients[departmentID]
	if !exists || len(clients) == 0 {
		departmentClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		clientsCopy = append(clientsCopy, conn)
	}
	departmentClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]interface{}{
			"type":          "refresh",
			"message":       "Recruitment data updated",
			"department_id": departmentID,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			departmentClientsMu.Lock()
			if clients, exists := departmentClients[departmentID]; exists {
				delete(clients, conn)
				if len(clients) == 0 {
					delete(departmentClients, departmentID)
				}
			}
			departmentClientsMu.Unlock()
			conn.Close()
		}
	}
}

// WebSocket subscribes the caller to refresh events for one department.
func WebSocket(c *gin.Context) {
	departmentParam := c.Param("department_id")

	parsed, err := strconv.ParseUint(departmentParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department ID is required"})
		return
	}
	departmentID := uint(parsed)

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

	departmentClientsMu.Lock()
	if departmentClients[departmentID] == nil {
		departmentClients[departmentID] = make(map[*websocket.Conn]bool)
	}
	departmentClients[departmentID][conn] = true
	departmentClientsMu.Unlock()

	defer func() {
		departmentClientsMu.Lock()

		if clients, exists := departmentClients[departmentID]; exists {
			delete(clients, conn)

			if len(clients) == 0 {
				delete(departmentClients, departmentID)
			}
		}

		departmentClientsMu.Unlock()
		conn.Close()

		log.Printf("WebSocket connection closed for department %d", departmentID)
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]interface{}{
		"type":          "connected",
		"message":       "WebSocket connection established",
		"department_id": departmentID,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	// Stopping the ticker alone would leave the ping goroutine blocked on its
	// channel forever; the done channel releases it when the read loop exits.
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					log.Printf("Failed to set write deadline for department %d: %v", departmentID, err)
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					log.Printf("Ping failed for department %d: %v", departmentID, err)
					return
				}
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for department %d: %v", departmentID, err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for department %d: %v", departmentID, err)
			}
			break
		}

		if messageType == websocket.TextMessage {
			log.Printf("Received message from client in department %d: %s", departmentID, string(message))
		}
	}
}
