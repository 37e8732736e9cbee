package infrastructure

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"bistroDesk/internal/modules/realtime/domain"
)

// Hub fans server-side events out to the back-office tabs currently
// connected. Tabs subscribe per topic; a slow tab whose send buffer fills is
// detached rather than allowed to stall the rest.
type Hub struct {
	topics  map[string]map[*Client]struct{}
	clients map[string]*Client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		topics:  make(map[string]map[*Client]struct{}),
		clients: make(map[string]*Client),
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.key()]; ok && existing != c {
		h.detachLocked(existing)
	}
	h.clients[c.key()] = c
	slog.Info("ws tab registered", slog.String("tabId", c.tabID))
}

func (h *Hub) subscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][c] = struct{}{}
	c.subscribed[topic] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	delete(c.subscribed, topic)
	slog.Debug("ws tab unsubscribed", slog.String("tabId", c.tabID), slog.String("topic", topic))
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	for topic := range c.subscribed {
		if subs, ok := h.topics[topic]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.topics, topic)
			}
		}
	}
	delete(h.clients, c.key())
	c.close()
	slog.Info("ws tab detached", slog.String("tabId", c.tabID))
}

// Publish delivers the event to every tab subscribed to its topic.
func (h *Hub) Publish(event domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("event marshal error", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	subs := h.topics[event.Topic]
	clients := make([]*Client, 0, len(subs))
	for c := range subs {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			go h.detachClient(c)
		}
	}
}

// Notify publishes an operator toast on the notifications topic.
func (h *Hub) Notify(level, message string) {
	h.Publish(domain.Event{
		Topic:   domain.TopicNotifications,
		Kind:    "toast",
		Payload: domain.Notice{Level: level, Message: message},
	})
}

// AttachClient registers the tab and subscribes it to the requested topics;
// blank and unknown topics are dropped.
func (h *Hub) AttachClient(c *Client, topics []string) {
	h.registerClient(c)
	for _, topic := range topics {
		trimmed := strings.TrimSpace(topic)
		if trimmed == "" || !domain.ValidTopic(trimmed) {
			continue
		}
		h.subscribe(c, trimmed)
	}
	slog.Info("ws tab attached", slog.String("tabId", c.tabID), slog.Any("topics", topics))
}
