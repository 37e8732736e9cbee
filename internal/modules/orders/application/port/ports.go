package port

import (
	"context"

	"bistroDesk/internal/modules/orders/domain"
)

// RowStore is the slice of the managed backend's row API the recorder writes
// orders through.
type RowStore interface {
	Insert(ctx context.Context, table string, rows []map[string]any, returning bool) ([]map[string]any, error)
}

// History receives finalized orders for the locally cached history.
type History interface {
	AppendRecord(record domain.OrderRecord)
}

// Notification levels for operator-facing toasts.
const (
	LevelInfo = "info"
	LevelWarn = "warn"
)

// Notifier delivers transient notifications to the operator UI.
type Notifier interface {
	Notify(level, message string)
}
