// Package ws broadcasts refreshed live-match predictions to subscribed
// WebSocket clients.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/scoutsight/intel-engine/pkg/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin restriction belongs to the gateway in front of us
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Client represents one WebSocket subscriber
type Client struct {
	MatchIDs []string // Matches this client is interested in
	Conn     *websocket.Conn
	Send     chan []byte
	Hub      *PredictionHub
	LastSeen time.Time
}

// PredictionHub maintains active WebSocket connections and fans match
// prediction updates out to interested clients
type PredictionHub struct {
	clients      map[*Client]bool
	matchClients map[string][]*Client
	broadcast    chan types.MatchPredictions
	register     chan *Client
	unregister   chan *Client
	logger       *logrus.Logger
	mutex        sync.RWMutex
}

// PredictionMessage is the envelope sent to clients
type PredictionMessage struct {
	Type      string      `json:"type"` // "match_predictions", "error"
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
	MatchID   string      `json:"match_id,omitempty"`
}

// NewPredictionHub creates a live prediction hub
func NewPredictionHub(logger *logrus.Logger) *PredictionHub {
	return &PredictionHub{
		clients:      make(map[*Client]bool),
		matchClients: make(map[string][]*Client),
		broadcast:    make(chan types.MatchPredictions, 256),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		logger:       logger,
	}
}

// Run starts the hub loop; it owns all client membership mutations
func (h *PredictionHub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case predictions := <-h.broadcast:
			h.broadcastPredictions(predictions)

		case <-ticker.C:
			h.pingClients()
		}
	}
}

// Broadcast queues refreshed predictions for fan-out
func (h *PredictionHub) Broadcast(predictions types.MatchPredictions) {
	select {
	case h.broadcast <- predictions:
	default:
		h.logger.WithField("match_id", predictions.MatchID).Warn("Prediction broadcast channel full, dropping update")
	}
}

// HandleConnection upgrades an HTTP request to a WebSocket subscription.
// Clients subscribe via ?match_id=...
func (h *PredictionHub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("WebSocket upgrade failed")
		return
	}

	client := &Client{
		MatchIDs: c.QueryArray("match_id"),
		Conn:     conn,
		Send:     make(chan []byte, 64),
		Hub:      h,
		LastSeen: time.Now(),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *PredictionHub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	for _, matchID := range client.MatchIDs {
		h.matchClients[matchID] = append(h.matchClients[matchID], client)
	}

	h.logger.WithFields(logrus.Fields{
		"matches": client.MatchIDs,
		"clients": len(h.clients),
	}).Debug("WebSocket client registered")
}

func (h *PredictionHub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	for _, matchID := range client.MatchIDs {
		subscribers := h.matchClients[matchID]
		for i, c := range subscribers {
			if c == client {
				h.matchClients[matchID] = append(subscribers[:i], subscribers[i+1:]...)
				break
			}
		}
		if len(h.matchClients[matchID]) == 0 {
			delete(h.matchClients, matchID)
		}
	}
}

func (h *PredictionHub) broadcastPredictions(predictions types.MatchPredictions) {
	message := PredictionMessage{
		Type:      "match_predictions",
		Data:      predictions,
		Timestamp: time.Now().UTC(),
		MatchID:   predictions.MatchID,
	}
	payload, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal prediction message")
		return
	}

	h.mutex.RLock()
	subscribers := h.matchClients[predictions.MatchID]
	h.mutex.RUnlock()

	for _, client := range subscribers {
		select {
		case client.Send <- payload:
		default:
			// Slow consumer; drop and let the ping cycle reap it
		}
	}
}

func (h *PredictionHub) pingClients() {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if err := client.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()

	for payload := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
		c.LastSeen = time.Now()
	}
}
