package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/segmentio/kafka-go"
)

// AuthEvent is one auth-state transition pushed by the identity backend's
// change feed: sign-ins, sign-outs and token refreshes originating outside
// this process.
type AuthEvent struct {
	Event string `json:"event"`
	Token string `json:"token"`
}

// KafkaConsumer tails the backend's auth-event topic.
type KafkaConsumer struct {
	reader *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume reads auth events until the context is cancelled, handing each to
// the handler. Malformed payloads are logged and skipped.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(AuthEvent)) error {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			continue
		}
		event, ok := decodeAuthEvent(m)
		if !ok {
			continue
		}
		slog.Info("auth event consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("event", event.Event),
		)
		handler(event)
	}
}

// Close releases the underlying reader.
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

func decodeAuthEvent(m kafka.Message) (AuthEvent, bool) {
	var event AuthEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		slog.Warn("malformed auth event",
			slog.String("topic", m.Topic),
			slog.Int64("offset", m.Offset),
			slog.Any("error", err))
		return AuthEvent{}, false
	}
	event.Event = strings.ToUpper(strings.TrimSpace(event.Event))
	if event.Event == "" {
		return AuthEvent{}, false
	}
	return event, true
}

// StartAuthConsumer tails the auth topic in the background. With no brokers
// configured the feed is simply not started; a reader cannot be built from
// an empty broker list.
func StartAuthConsumer(ctx context.Context, brokers []string, groupID, topic string, handler func(AuthEvent)) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		slog.Info("auth event feed disabled")
		return
	}
	go func() {
		consumer := NewKafkaConsumer(brokers, groupID, topic)
		defer consumer.Close()
		if err := consumer.Consume(ctx, handler); err != nil && ctx.Err() == nil {
			slog.Error("auth event feed stopped", slog.Any("error", err))
		}
	}()
}
