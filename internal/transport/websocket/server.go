package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	// the dashboard and the API are served from different origins in development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans export notifications out to every socket an operator has open.
type Hub struct {
	connections map[string]map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection

	broadcast chan *Message

	log *zap.Logger
	mu  sync.RWMutex
}

type Connection struct {
	ws       *websocket.Conn
	operator string
	send     chan *Message
	hub      *Hub
}

type Message struct {
	Operator string `json:"operator,omitempty"`
	Type     string `json:"type"`
	Channel  string `json:"channel,omitempty"`
	Data     any    `json:"data"`
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		connections: make(map[string]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *Message, 256),
		log:         log.Named("ws"),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// close sockets outside the lock so the pumps can unregister
			h.mu.RLock()
			var conns []*Connection
			for _, m := range h.connections {
				for c := range m {
					conns = append(conns, c)
				}
			}
			h.mu.RUnlock()

			for _, c := range conns {
				_ = c.ws.Close()
			}
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.operator] == nil {
				h.connections[conn.operator] = make(map[*Connection]bool)
			}
			h.connections[conn.operator][conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			h.remove(conn)
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.connections[message.Operator] {
				select {
				case conn.send <- message:
				default:
					h.log.Warn("slow consumer, dropping connection", zap.String("operator", conn.operator))
					h.remove(conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(conn *Connection) {
	connections, ok := h.connections[conn.operator]
	if !ok {
		return
	}
	if _, exists := connections[conn]; !exists {
		return
	}
	delete(connections, conn)
	close(conn.send)
	if len(connections) == 0 {
		delete(h.connections, conn.operator)
	}
}

// ConnectionCount reports how many sockets the operator currently has open.
func (h *Hub) ConnectionCount(operator string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[operator])
}

func (h *Hub) Broadcast(operator string, message *Message) {
	message.Operator = operator
	select {
	case h.broadcast <- message:
	default:
		h.log.Warn("broadcast channel is full, dropping message",
			zap.String("operator", operator),
			zap.String("type", message.Type),
		)
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request, operator string) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	conn := &Connection{
		ws:       ws,
		operator: operator,
		send:     make(chan *Message, 256),
		hub:      h,
	}

	h.register <- conn

	go conn.writePump()
	go conn.readPump()
}

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10
)

func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.ws.Close()
	}()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("read failed", zap.String("operator", c.operator), zap.Error(err))
			}
			return
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(message); err != nil {
				c.hub.log.Debug("write failed", zap.String("operator", c.operator), zap.Error(err))
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
