package domain

// Topics the back-office UI can subscribe to. Every mutation the server
// applies is mirrored onto one of these so open tabs stay in sync without
// polling.
const (
	TopicNotifications = "notifications"
	TopicCatalog       = "catalog"
	TopicOrders        = "orders"
	TopicSession       = "session"
)

// Topics lists every valid subscription topic.
func Topics() []string {
	return []string{TopicNotifications, TopicCatalog, TopicOrders, TopicSession}
}

// ValidTopic reports whether the UI may subscribe to the given topic.
func ValidTopic(topic string) bool {
	for _, t := range Topics() {
		if t == topic {
			return true
		}
	}
	return false
}

// Event is one message pushed to subscribed tabs. Kind narrows the event
// within its topic ("item-saved", "order-recorded", "signed-out", ...).
type Event struct {
	Topic   string `json:"topic"`
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

// Notice is the payload for operator toast notifications.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}
