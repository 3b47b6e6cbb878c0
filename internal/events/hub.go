// Package events broadcasts detection and request activity to websocket
// subscribers, so pipeline dashboards can watch what a running server is
// scrubbing without ever seeing the sensitive literals themselves.
package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// HubConfig controls which event types are broadcast and who may connect.
type HubConfig struct {
	BroadcastDetections  bool
	BroadcastRequests    bool
	BroadcastSystem      bool
	BroadcastConnections bool
	AllowedOrigins       []string
}

// Hub maintains the set of active subscribers and fans events out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client

	config   *HubConfig
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu    sync.RWMutex
	stats *HubStats
}

// HubStats tracks hub statistics
type HubStats struct {
	TotalConnections   int64
	ActiveConnections  int64
	TotalMessages      int64
	TotalBroadcasts    int64
	LastConnectionTime time.Time
	LastDisconnectTime time.Time
	LastBroadcastTime  time.Time
}

// NewHub creates a new event hub
func NewHub(config *HubConfig, logger *zap.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		config:     config,
		logger:     logger,
		stats:      &HubStats{},
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if h.config == nil || len(h.config.AllowedOrigins) == 0 {
		return false
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// Run handles client registration, unregistration, and broadcasting. It
// blocks; call it in its own goroutine.
func (h *Hub) Run() {
	h.logger.Info("Starting event hub")

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.stats.TotalConnections++
	h.stats.ActiveConnections++
	h.stats.LastConnectionTime = time.Now()

	h.logger.Info("Subscriber connected",
		zap.String("client_id", client.ID),
		zap.String("client_ip", client.IP),
		zap.Int64("active_connections", h.stats.ActiveConnections),
	)

	connectionEvent := Event{
		Type:      EventTypeConnection,
		Timestamp: time.Now(),
		Data: ConnectionEvent{
			Action:   "connected",
			ClientID: client.ID,
			ClientIP: client.IP,
		},
	}

	// Broadcast to other clients (not the newly connected one)
	go h.broadcastToOthers(connectionEvent, client)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
		h.stats.ActiveConnections--
		h.stats.LastDisconnectTime = time.Now()

		h.logger.Info("Subscriber disconnected",
			zap.String("client_id", client.ID),
			zap.Int64("active_connections", h.stats.ActiveConnections),
		)

		connectionEvent := Event{
			Type:      EventTypeConnection,
			Timestamp: time.Now(),
			Data: ConnectionEvent{
				Action:   "disconnected",
				ClientID: client.ID,
				ClientIP: client.IP,
			},
		}

		go h.BroadcastEvent(connectionEvent)
	}
}

func (h *Hub) broadcastEvent(event Event) {
	// Full lock: slow subscribers are evicted from the client set here.
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stats.TotalBroadcasts++
	h.stats.LastBroadcastTime = time.Now()

	for client := range h.clients {
		if !h.shouldSendToClient(client, event) {
			continue
		}
		select {
		case client.Send <- event:
			h.stats.TotalMessages++
		default:
			// Client's send channel is full, close it
			h.logger.Warn("Subscriber send channel full, closing connection",
				zap.String("client_id", client.ID),
			)
			delete(h.clients, client)
			close(client.Send)
			h.stats.ActiveConnections--
		}
	}
}

func (h *Hub) broadcastToOthers(event Event, excludeClient *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if client == excludeClient || !h.shouldSendToClient(client, event) {
			continue
		}
		select {
		case client.Send <- event:
			h.stats.TotalMessages++
		default:
			delete(h.clients, client)
			close(client.Send)
			h.stats.ActiveConnections--
		}
	}
}

func (h *Hub) shouldSendToClient(client *Client, event Event) bool {
	if client.Subscription == nil {
		// No subscription filter, send all events
		return true
	}
	for _, eventType := range client.Subscription.Events {
		if eventType == event.Type {
			return true
		}
	}
	return false
}

// BroadcastEvent queues an event for all subscribers, if its type is
// enabled in the configuration. Never blocks: when the queue is full the
// event is dropped.
func (h *Hub) BroadcastEvent(event Event) {
	if !h.shouldBroadcastEvent(event.Type) {
		return
	}

	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("Broadcast channel full, dropping event",
			zap.String("event_type", string(event.Type)),
		)
	}
}

func (h *Hub) shouldBroadcastEvent(eventType EventType) bool {
	if h.config == nil {
		return false
	}

	switch eventType {
	case EventTypeDetection:
		return h.config.BroadcastDetections
	case EventTypeRequestLog:
		return h.config.BroadcastRequests
	case EventTypeSystemStatus:
		return h.config.BroadcastSystem
	case EventTypeConnection:
		return h.config.BroadcastConnections
	default:
		return false
	}
}

// HandleWebSocket upgrades an HTTP request to a subscriber connection.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket connection", zap.Error(err))
		return
	}

	client := &Client{
		ID:          generateClientID(),
		Conn:        conn,
		Send:        make(chan Event, 256),
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
		IP:          clientIP(r),
		UserAgent:   r.UserAgent(),
	}

	h.register <- client

	go h.writePump(client)
	go h.readPump(client)
}

// writePump delivers queued events and keepalive pings to one subscriber.
func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteJSON(event); err != nil {
				h.logger.Error("Failed to write websocket message",
					zap.String("client_id", client.ID),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes subscription updates and pings from one subscriber.
func (h *Hub) readPump(client *Client) {
	defer func() {
		h.unregister <- client
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.LastPing = time.Now()
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Error("Websocket error",
					zap.String("client_id", client.ID),
					zap.Error(err),
				)
			}
			break
		}

		h.handleClientMessage(client, msg)
	}
}

func (h *Hub) handleClientMessage(client *Client, msg ClientMessage) {
	switch msg.Type {
	case "subscribe":
		if data, ok := msg.Data.(map[string]any); ok {
			jsonData, _ := json.Marshal(data)
			var subscription SubscriptionRequest
			if err := json.Unmarshal(jsonData, &subscription); err == nil {
				client.Subscription = &subscription
				h.logger.Info("Subscriber filter updated",
					zap.String("client_id", client.ID),
					zap.Any("subscription", subscription),
				)
			}
		}
	case "ping":
		pongEvent := Event{
			Type:      "pong",
			Timestamp: time.Now(),
			Data:      map[string]string{"message": "pong"},
		}
		select {
		case client.Send <- pongEvent:
		default:
		}
	}
}

// GetStats returns current hub statistics
func (h *Hub) GetStats() HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := *h.stats
	stats.ActiveConnections = int64(len(h.clients))
	return stats
}

func generateClientID() string {
	return fmt.Sprintf("client_%d", time.Now().UnixNano())
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
