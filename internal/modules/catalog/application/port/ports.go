package port

import (
	"context"

	"bistroDesk/internal/modules/catalog/domain"
)

// RowStore is the slice of the managed backend's row API the synchronizer
// consumes. Row-level access control on the backend scopes every call to the
// current identity's token.
type RowStore interface {
	Select(ctx context.Context, table string, filters map[string]string, order string) ([]map[string]any, error)
	Insert(ctx context.Context, table string, rows []map[string]any, returning bool) ([]map[string]any, error)
	Update(ctx context.Context, table string, filters map[string]string, values map[string]any) error
	Upsert(ctx context.Context, table string, row map[string]any) (map[string]any, error)
	Delete(ctx context.Context, table string, filters map[string]string) error
}

// Enhancer is the external text-rewrite collaborator: given the serialized
// catalog it returns a same-shaped rewritten catalog or an error. Best
// effort only; unavailability never blocks anything.
type Enhancer interface {
	Rewrite(ctx context.Context, items []domain.MenuItem) ([]domain.MenuItem, error)
}

// Notification levels for operator-facing toasts.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Notifier delivers transient, dismissible notifications to the operator UI.
type Notifier interface {
	Notify(level, message string)
}
