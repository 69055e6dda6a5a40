package services

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const feedWriteTimeout = 5 * time.Second

const (
	FeedServerLog = "server_log"
	FeedDelivery  = "delivery_log"
)

// FeedEvent is one entry pushed to /ws/logs subscribers.
type FeedEvent struct {
	Kind      string      `json:"kind"`
	Namespace string      `json:"namespace,omitempty"`
	Entry     interface{} `json:"entry"`
	At        time.Time   `json:"at"`
}

// LogFeed fans log entries out to websocket clients. Only Run writes to connections.
type LogFeed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	ch      chan FeedEvent
}

func NewLogFeed() *LogFeed {
	return &LogFeed{
		clients: map[*websocket.Conn]bool{},
		ch:      make(chan FeedEvent, 64),
	}
}

func (h *LogFeed) Run(ctx context.Context) {
	for {
		select {
		case event := <-h.ch:
			for _, conn := range h.snapshot() {
				_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
				if err := conn.WriteJSON(event); err != nil {
					log.WithError(err).Debug("dropping log feed client")
					h.Remove(conn)
					_ = conn.Close()
				}
			}
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Publish never blocks; events are dropped when the buffer is full.
func (h *LogFeed) Publish(event FeedEvent) {
	if h == nil {
		return
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	select {
	case h.ch <- event:
	default:
	}
}

func (h *LogFeed) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *LogFeed) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *LogFeed) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *LogFeed) snapshot() []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	return conns
}

func (h *LogFeed) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}
