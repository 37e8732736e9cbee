package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	cart "bistroDesk/internal/modules/cart/domain"
	"bistroDesk/internal/shared/normalization"
)

// ErrValidationFailed blocks a checkout that is missing required customer
// fields. No record is produced; the form communicates the failure itself.
var ErrValidationFailed = errors.New("validation failed")

// Payment methods offered at checkout.
const (
	PaymentCash = "Cash"
	PaymentCard = "Card"
	PaymentUPI  = "UPI"
)

// OrderRecord is an immutable invoice. A correction requires a new record;
// nothing mutates one after Finalize. Lines carry the full cart snapshot so
// the receipt can be reconstructed exactly even after the menu changes.
type OrderRecord struct {
	ID              string      `json:"id"`
	CustomerName    string      `json:"name"`
	CustomerContact string      `json:"contact"`
	Total           float64     `json:"total"`
	Timestamp       string      `json:"timestamp"`
	ItemsSummary    string      `json:"items"`
	PaymentMethod   string      `json:"paymentMethod"`
	Lines           []cart.Line `json:"cartItems,omitempty"`
}

// Summary renders the human-readable item list stored alongside the order,
// e.g. "Dal (Half x2), Risotto (Full x1)".
func Summary(lines []cart.Line) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s (%s x%d)", line.Name, line.SelectedSize, line.Quantity))
	}
	return strings.Join(parts, ", ")
}

// NormalizeRecord builds an OrderRecord from a store row.
func NormalizeRecord(row map[string]any) (OrderRecord, bool) {
	id := normalization.AsString(row["id"])
	if id == "" {
		return OrderRecord{}, false
	}
	record := OrderRecord{
		ID:              id,
		CustomerName:    normalization.AsString(row["customer_name"]),
		CustomerContact: normalization.AsString(row["customer_contact"]),
		Total:           normalization.AsFloat64(row["total"]),
		Timestamp:       normalization.AsString(row["timestamp"]),
		ItemsSummary:    normalization.AsString(row["items_summary"]),
		PaymentMethod:   normalization.AsString(row["payment_method"]),
	}
	if raw, ok := row["cart_items_json"]; ok && raw != nil {
		if encoded, err := json.Marshal(raw); err == nil {
			var lines []cart.Line
			if err := json.Unmarshal(encoded, &lines); err == nil {
				record.Lines = lines
			}
		}
	}
	return record, true
}

// Row builds the write payload for the store, keyed by the account id.
func (r OrderRecord) Row(identity string) map[string]any {
	return map[string]any{
		"id":               r.ID,
		"user_id":          identity,
		"customer_name":    r.CustomerName,
		"customer_contact": r.CustomerContact,
		"total":            r.Total,
		"timestamp":        r.Timestamp,
		"items_summary":    r.ItemsSummary,
		"payment_method":   r.PaymentMethod,
		"cart_items_json":  r.Lines,
	}
}
