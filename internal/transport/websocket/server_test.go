package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()

	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator := r.URL.Query().Get("operator")
		if operator == "" {
			operator = "alice"
		}
		hub.HandleWebSocket(w, r, operator)
	}))
	t.Cleanup(server.Close)
	t.Cleanup(cancel)

	return hub, server, cancel
}

func dial(t *testing.T, server *httptest.Server, operator string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?operator=" + operator
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	return conn
}

func waitForCount(t *testing.T, hub *Hub, operator string, want int) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ConnectionCount(operator) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d connections for %s, got %d", want, operator, hub.ConnectionCount(operator))
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub, server, _ := startHub(t)

	conn := dial(t, server, "alice")
	waitForCount(t, hub, "alice", 1)

	conn.Close()
	waitForCount(t, hub, "alice", 0)
}

func TestHub_Broadcast(t *testing.T) {
	hub, server, _ := startHub(t)

	conn := dial(t, server, "alice")
	defer conn.Close()
	waitForCount(t, hub, "alice", 1)

	hub.Broadcast("alice", &Message{
		Type:    "test",
		Channel: "test_channel",
		Data:    map[string]any{"test": "data"},
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var received Message
	if err := conn.ReadJSON(&received); err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	if received.Type != "test" {
		t.Errorf("expected type 'test', got '%s'", received.Type)
	}
	if received.Channel != "test_channel" {
		t.Errorf("expected channel 'test_channel', got '%s'", received.Channel)
	}
	if received.Operator != "alice" {
		t.Errorf("expected operator alice, got %s", received.Operator)
	}
}

func TestHub_MultipleConnections(t *testing.T) {
	hub, server, _ := startHub(t)

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		conn := dial(t, server, "alice")
		defer conn.Close()
		conns = append(conns, conn)
	}
	waitForCount(t, hub, "alice", 3)

	hub.Broadcast("alice", &Message{Type: "broadcast", Data: map[string]any{"test": "data"}})

	var wg sync.WaitGroup
	for i, conn := range conns {
		wg.Add(1)
		go func(idx int, c *websocket.Conn) {
			defer wg.Done()
			c.SetReadDeadline(time.Now().Add(time.Second))
			var received Message
			if err := c.ReadJSON(&received); err != nil {
				t.Errorf("connection %d failed to read message: %v", idx, err)
				return
			}
			if received.Type != "broadcast" {
				t.Errorf("connection %d: expected type 'broadcast', got '%s'", idx, received.Type)
			}
		}(i, conn)
	}
	wg.Wait()
}

func TestHub_DifferentOperators(t *testing.T) {
	hub, server, _ := startHub(t)

	alice := dial(t, server, "alice")
	defer alice.Close()
	bob := dial(t, server, "bob")
	defer bob.Close()

	waitForCount(t, hub, "alice", 1)
	waitForCount(t, hub, "bob", 1)

	hub.Broadcast("alice", &Message{Type: "private", Data: map[string]any{"test": "data"}})

	alice.SetReadDeadline(time.Now().Add(time.Second))
	var received Message
	if err := alice.ReadJSON(&received); err != nil {
		t.Fatalf("alice failed to read message: %v", err)
	}
	if received.Type != "private" {
		t.Errorf("expected type 'private', got '%s'", received.Type)
	}

	bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	var other Message
	if err := bob.ReadJSON(&other); err == nil {
		t.Error("bob should not receive a message meant for alice")
	}
}

func TestHub_BroadcastChannelFull(t *testing.T) {
	hub := NewHub(nil)
	hub.broadcast = make(chan *Message, 1)

	hub.broadcast <- &Message{Type: "fill"}

	// Run is not started, so the buffer stays full
	hub.Broadcast("alice", &Message{Type: "dropped"})

	msg := <-hub.broadcast
	if msg.Type != "fill" {
		t.Fatalf("expected the original message, got %s", msg.Type)
	}
	select {
	case msg := <-hub.broadcast:
		t.Fatalf("expected dropped message, got %s", msg.Type)
	default:
	}
}

func TestHub_ShutdownClosesConnections(t *testing.T) {
	hub, server, cancel := startHub(t)

	conn := dial(t, server, "alice")
	defer conn.Close()
	waitForCount(t, hub, "alice", 1)

	cancel()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to be closed after hub shutdown")
	}
}
