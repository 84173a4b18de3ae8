package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	wrap "github.com/Temutjin2k/dispatch-engine/pkg/logger/wrapper"
	"github.com/Temutjin2k/dispatch-engine/pkg/metrics"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
	ErrHubClosed      = errors.New("hub is closed")
)

// ConnectionHub keeps every live subscriber grouped by topic.
type ConnectionHub struct {
	topics  map[string]map[string]*Conn
	service string
	closed  bool
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(service string, l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		topics:  make(map[string]map[string]*Conn),
		service: service,
		l:       l,
	}
}

// Add registers a subscriber under its topic.
func (h *ConnectionHub) Add(c *Conn) error {
	if c == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}

	subs, ok := h.topics[c.topic]
	if !ok {
		subs = make(map[string]*Conn)
		h.topics[c.topic] = subs
	}
	subs[c.id] = c
	metrics.WebSocketConnectionsGauge.WithLabelValues(h.service).Inc()

	return nil
}

// Delete closes and forgets a subscriber.
func (h *ConnectionHub) Delete(c *Conn) error {
	if c == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	subs, ok := h.topics[c.topic]
	if ok {
		_, ok = subs[c.id]
	}
	if ok {
		delete(subs, c.id)
		if len(subs) == 0 {
			delete(h.topics, c.topic)
		}
		metrics.WebSocketConnectionsGauge.WithLabelValues(h.service).Dec()
	}
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}

	if err := c.Close(); err != nil {
		h.l.Warn(wrap.WithAction(context.Background(), "ws_connection_delete"), "failed to close conn", "topic", c.topic, "error", err.Error())
	}
	return nil
}

// Broadcast sends msg to every subscriber of the topic and returns how many
// received it. Subscribers that fail to receive are dropped.
func (h *ConnectionHub) Broadcast(ctx context.Context, topic string, msg any) int {
	conns := h.Subscribers(topic)

	sent := 0
	for _, c := range conns {
		if err := c.Send(msg); err != nil {
			h.l.Debug(ctx, "dropping ws subscriber", "topic", topic, "error", err.Error())
			_ = h.Delete(c)
			continue
		}
		sent++
	}
	return sent
}

// Subscribers returns a snapshot of the topic's subscribers.
func (h *ConnectionHub) Subscribers(topic string) []*Conn {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.topics[topic]
	out := make([]*Conn, 0, len(subs))
	for _, c := range subs {
		out = append(out, c)
	}
	return out
}

// Count returns the number of subscribers across all topics.
func (h *ConnectionHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, subs := range h.topics {
		n += len(subs)
	}
	return n
}

// Close closes every connection; later Adds fail with ErrHubClosed.
func (h *ConnectionHub) Close() {
	ctx := wrap.WithAction(context.Background(), "hub_close")

	h.mu.Lock()
	h.closed = true
	var conns []*Conn
	for _, subs := range h.topics {
		for _, c := range subs {
			conns = append(conns, c)
		}
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = h.Delete(c)
	}

	h.l.Info(ctx, "all websocket connections closed gracefully", "count", len(conns))
}
