package infrastructure

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is one connected back-office tab.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	tabID      string
	subscribed map[string]struct{}
	closeOnce  sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, tabID string, buf int) *Client {
	if buf <= 0 {
		buf = 32
	}
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, buf),
		tabID:      strings.TrimSpace(tabID),
		subscribed: make(map[string]struct{}),
	}
}

func (c *Client) key() string { return c.tabID }

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.conn.Close()
	})
}

func (c *Client) WritePump() {
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("websocket write error", slog.Any("error", err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				slog.Warn("websocket ping error", slog.Any("error", err))
				return
			}
		}
	}
}

// ReadPump consumes subscribe/unsubscribe commands from the tab until the
// connection drops, then detaches it.
func (c *Client) ReadPump() {
	c.conn.SetReadLimit(1 << 16)
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	defer c.hub.detachClient(c)
	for {
		var cmd command
		_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("websocket read error", slog.String("tabId", c.tabID), slog.Any("error", err))
			}
			return
		}
		c.processCommand(cmd)
	}
}

// command is the only inbound message shape tabs may send.
type command struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

func (c *Client) processCommand(cmd command) {
	switch strings.ToLower(strings.TrimSpace(cmd.Action)) {
	case "subscribe":
		topic := strings.TrimSpace(cmd.Topic)
		if topic == "" {
			return
		}
		c.hub.AttachClient(c, []string{topic})
	case "unsubscribe":
		if topic := strings.TrimSpace(cmd.Topic); topic != "" {
			c.hub.unsubscribe(c, topic)
		}
	default:
		slog.Debug("ignoring ws command", slog.String("action", cmd.Action))
	}
}
