package events

import (
	"time"

	"github.com/gorilla/websocket"
)

// EventType represents the type of event sent over the feed
type EventType string

const (
	// EventTypeDetection is emitted when a request's payload contained PII
	EventTypeDetection EventType = "detection"
	// EventTypeRequestLog is emitted for every completed API request
	EventTypeRequestLog EventType = "request_log"
	// EventTypeSystemStatus carries periodic server status
	EventTypeSystemStatus EventType = "system_status"
	// EventTypeConnection reports subscriber connects and disconnects
	EventTypeConnection EventType = "connection"
)

// Event is a single message sent to subscribers
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	RequestID string    `json:"request_id,omitempty"`
}

// DetectionEvent summarizes what was found in one request. It carries
// counts and rule names only; matched literals never leave the masking
// pipeline through the event feed.
type DetectionEvent struct {
	RequestID    string         `json:"request_id"`
	Path         string         `json:"path"`
	ClientIP     string         `json:"client_ip"`
	TotalMatches int            `json:"total_matches"`
	Patterns     map[string]int `json:"patterns"`
	Categories   map[string]int `json:"categories"`
	Strategy     string         `json:"strategy"`
	ProcessingMS float64        `json:"processing_ms"`
}

// RequestLogEvent represents a completed API request
type RequestLogEvent struct {
	RequestID    string        `json:"request_id"`
	Method       string        `json:"method"`
	Path         string        `json:"path"`
	StatusCode   int           `json:"status_code"`
	ClientIP     string        `json:"client_ip"`
	Duration     time.Duration `json:"duration"`
	RequestSize  int64         `json:"request_size"`
	ResponseSize int64         `json:"response_size"`
}

// SystemStatusEvent represents system status information
type SystemStatusEvent struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	TotalRequests    int64  `json:"total_requests"`
	TotalDetections  int64  `json:"total_detections"`
	ActiveRules      int    `json:"active_rules"`
	ConnectedClients int    `json:"connected_clients"`
}

// ConnectionEvent reports subscriber lifecycle changes
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected", "disconnected"
	ClientID string `json:"client_id"`
	ClientIP string `json:"client_ip"`
	Message  string `json:"message,omitempty"`
}

// ClientMessage represents messages sent from subscribers to the server
type ClientMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// SubscriptionRequest narrows which event types a subscriber receives
type SubscriptionRequest struct {
	Events []EventType `json:"events"`
}

// Client represents one websocket subscriber
type Client struct {
	ID           string
	Conn         *websocket.Conn
	Send         chan Event
	Subscription *SubscriptionRequest
	ConnectedAt  time.Time
	LastPing     time.Time
	IP           string
	UserAgent    string
}
