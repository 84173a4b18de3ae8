package ws

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Temutjin2k/dispatch-engine/pkg/logger"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, hub *ConnectionHub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewConn(context.Background(), r.URL.Query().Get("topic"), raw)
		if err := hub.Add(c); err != nil {
			_ = c.Close()
			return
		}
		_ = c.Listen()
		_ = hub.Delete(c)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, topic string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?topic=" + topic
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func waitCount(t *testing.T, hub *ConnectionHub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, got %d", want, hub.Count())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewConnHub("test", logger.New(io.Discard, "test", logger.LevelError))
	srv := newTestServer(t, hub)

	a1 := dial(t, srv, "drv-1")
	a2 := dial(t, srv, "drv-1")
	b := dial(t, srv, "drv-2")
	waitCount(t, hub, 3)

	sent := hub.Broadcast(context.Background(), "drv-1", map[string]any{"driver_id": "drv-1"})
	if sent != 2 {
		t.Fatalf("expected 2 deliveries, got %d", sent)
	}

	for _, c := range []*websocket.Conn{a1, a2} {
		_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg map[string]any
		if err := c.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg["driver_id"] != "drv-1" {
			t.Fatalf("unexpected message %v", msg)
		}
	}

	_ = b.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := b.ReadMessage(); err == nil {
		t.Fatal("subscriber of another topic must not receive the message")
	}

	if n := hub.Broadcast(context.Background(), "nobody", map[string]any{}); n != 0 {
		t.Fatalf("expected 0 deliveries, got %d", n)
	}
}

func TestHubClose(t *testing.T) {
	hub := NewConnHub("test", logger.New(io.Discard, "test", logger.LevelError))
	srv := newTestServer(t, hub)

	dial(t, srv, "drv-1")
	waitCount(t, hub, 1)

	hub.Close()
	if hub.Count() != 0 {
		t.Fatalf("expected no subscribers after close, got %d", hub.Count())
	}
	if err := hub.Add(&Conn{topic: "x", id: "y"}); err != ErrHubClosed {
		t.Fatalf("expected ErrHubClosed, got %v", err)
	}
}
