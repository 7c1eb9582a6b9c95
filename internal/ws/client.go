package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 64
)

// Client is one established socket. The read loop runs on the serving
// goroutine and the write pump owns every write to conn.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	logger *slog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	now       func() time.Time
}

func newClient(hub *Hub, conn *websocket.Conn, userID string, logger *slog.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		logger: logger.With("user_id", userID),
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		now:    time.Now,
	}
}

// Deliver implements Handle. It never blocks; a full buffer counts as a
// failed delivery.
func (c *Client) Deliver(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Close implements Handle. The send channel is never closed so concurrent
// Deliver calls stay safe.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Client) emit(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		c.logger.Error("failed to encode event", "type", ev.Type, "error", err)
		return
	}
	c.Deliver(payload)
}

func (c *Client) serve() {
	c.hub.Register(c.userID, c)
	go c.writePump()

	c.emit(Event{Type: "connection_established", Data: map[string]any{
		"user_id":   c.userID,
		"timestamp": c.now().UTC(),
	}})
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c.userID, c)
		c.Close()
		_ = c.conn.Close()
		c.logger.Info("websocket disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			return
		}
		c.handle(raw)
	}
}

type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (c *Client) handle(raw []byte) {
	var env inbound
	if err := json.Unmarshal(raw, &env); err != nil {
		c.emit(Event{Type: "error", Data: map[string]any{"message": "Invalid JSON format"}})
		return
	}

	switch env.Type {
	case "ping":
		var data struct {
			Timestamp any `json:"timestamp"`
		}
		_ = json.Unmarshal(env.Data, &data)
		c.emit(Event{Type: "pong", Data: map[string]any{
			"timestamp":   data.Timestamp,
			"server_time": c.now().UTC(),
		}})

	case "typing":
		var data struct {
			RecipientID string `json:"recipient_id"`
			IsTyping    bool   `json:"is_typing"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil || data.RecipientID == "" {
			c.emit(Event{Type: "error", Data: map[string]any{"message": "typing requires recipient_id"}})
			return
		}
		if c.hub.IsOnline(data.RecipientID) {
			c.hub.SendToUser(data.RecipientID, Event{Type: "typing", Data: map[string]any{
				"user_id":   c.userID,
				"is_typing": data.IsTyping,
			}})
		}

	case "message_delivered":
		var data struct {
			MessageID string `json:"message_id"`
			SenderID  string `json:"sender_id"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil || data.MessageID == "" || data.SenderID == "" {
			c.emit(Event{Type: "error", Data: map[string]any{"message": "message_delivered requires message_id and sender_id"}})
			return
		}
		c.hub.SendToUser(data.SenderID, Event{Type: "message_delivered", Data: map[string]any{
			"message_id":   data.MessageID,
			"delivered_to": c.userID,
			"delivered_at": c.now().UTC(),
		}})

	default:
		var original any
		_ = json.Unmarshal(raw, &original)
		c.emit(Event{Type: "echo", Data: original})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
