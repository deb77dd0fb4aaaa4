package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgAssessmentCompleted MessageType = "assessment_completed"
	MsgError               MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans out notifications to every open connection of a subject
type Hub struct {
	// subjectID -> open connections
	conns map[string]map[*Connection]struct{}

	mu  sync.RWMutex
	log *slog.Logger

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once
}

// Connection represents a WebSocket connection
type Connection struct {
	SubjectID string
	Send      chan []byte
}

// BroadcastMessage is a message for all connections of one subject
type BroadcastMessage struct {
	SubjectID string
	Message   *Message
}

// NewHub creates a hub and starts its event loop
func NewHub(log *slog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		log:        log,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

// NewConnection creates a connection with a buffered send queue
func NewConnection(subjectID string) *Connection {
	return &Connection{
		SubjectID: subjectID,
		Send:      make(chan []byte, 256),
	}
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.SubjectID] == nil {
				h.conns[conn.SubjectID] = make(map[*Connection]struct{})
			}
			h.conns[conn.SubjectID][conn] = struct{}{}
			h.mu.Unlock()
			h.log.Debug("ws connection registered", "subject_id", conn.SubjectID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.SubjectID]; ok {
				if _, ok := set[conn]; ok {
					delete(set, conn)
					close(conn.Send)
					if len(set) == 0 {
						delete(h.conns, conn.SubjectID)
					}
					h.log.Debug("ws connection closed", "subject_id", conn.SubjectID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Error("ws encode message", "type", msg.Message.Type, "error", err)
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.SubjectID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for subject, set := range h.conns {
				for conn := range set {
					close(conn.Send)
				}
				delete(h.conns, subject)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection and closes its send queue
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// NotifySubject queues a message for every connection of subjectID
// (implements service.Broadcaster)
func (h *Hub) NotifySubject(subjectID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("ws encode payload", "type", msgType, "error", err)
		return
	}
	msg := &BroadcastMessage{
		SubjectID: subjectID,
		Message:   &Message{Type: MessageType(msgType), Payload: data},
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.log.Warn("ws broadcast queue full, dropping message", "subject_id", subjectID, "type", msgType)
	}
}

// ConnectionCount returns the number of open connections of subjectID.
func (h *Hub) ConnectionCount(subjectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[subjectID])
}

// Close stops the event loop and closes every connection.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
