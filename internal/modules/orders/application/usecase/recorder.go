package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	cart "bistroDesk/internal/modules/cart/domain"
	"bistroDesk/internal/modules/orders/application/port"
	"bistroDesk/internal/modules/orders/domain"
)

const tableOrders = "orders"

// invoiceTimeLayout renders e.g. "2 Sep 2026, 04:05 PM". The formatted text
// is the stored value; records never carry a machine timestamp.
const invoiceTimeLayout = "2 Jan 2006, 03:04 PM"

// Recorder finalizes checkouts into immutable order records. The record is
// appended to local history synchronously; for authenticated identities the
// store insert resolves in the background and a failure only notifies.
type Recorder struct {
	store   port.RowStore
	history port.History
	notify  port.Notifier

	now     func() time.Time
	newCode func() string
	spawn   func(func())
}

func NewRecorder(store port.RowStore, history port.History, notify port.Notifier) *Recorder {
	return &Recorder{
		store:   store,
		history: history,
		notify:  notify,
		now:     time.Now,
		newCode: NewInvoiceCode,
		spawn:   func(fn func()) { go fn() },
	}
}

// Finalize validates the checkout, mints the invoice and records it. The
// returned record is complete and immutable; rendering a receipt from it or
// from the live cart must produce identical output.
func (r *Recorder) Finalize(ctx context.Context, c *cart.Cart, identity, customerName, customerContact, paymentMethod string) (domain.OrderRecord, error) {
	if c == nil || c.Empty() {
		return domain.OrderRecord{}, fmt.Errorf("%w: cart is empty", domain.ErrValidationFailed)
	}
	customerName = strings.TrimSpace(customerName)
	customerContact = strings.TrimSpace(customerContact)
	if customerName == "" {
		return domain.OrderRecord{}, fmt.Errorf("%w: customer name is required", domain.ErrValidationFailed)
	}
	if customerContact == "" {
		return domain.OrderRecord{}, fmt.Errorf("%w: customer contact is required", domain.ErrValidationFailed)
	}
	switch paymentMethod {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentUPI:
	default:
		return domain.OrderRecord{}, fmt.Errorf("%w: unknown payment method %q", domain.ErrValidationFailed, paymentMethod)
	}

	lines := c.Lines()
	record := domain.OrderRecord{
		ID:              r.newCode(),
		CustomerName:    customerName,
		CustomerContact: customerContact,
		Total:           c.Total(),
		Timestamp:       r.now().Format(invoiceTimeLayout),
		ItemsSummary:    domain.Summary(lines),
		PaymentMethod:   paymentMethod,
		Lines:           lines,
	}

	r.history.AppendRecord(record)
	c.Clear()

	if identity != "" {
		row := record.Row(identity)
		r.spawn(func() {
			if _, err := r.store.Insert(context.WithoutCancel(ctx), tableOrders, []map[string]any{row}, false); err != nil {
				slog.Error("order insert failed", slog.String("id", record.ID), slog.Any("error", err))
				r.notify.Notify(port.LevelWarn, "Order saved locally but not synced")
			}
		})
	}
	return record, nil
}

// NewInvoiceCode mints an invoice id like "INV-1A2B3C4": a fixed prefix and
// seven uppercase base36 characters drawn from random bytes.
func NewInvoiceCode() string {
	id := uuid.New()
	n := new(big.Int).SetBytes(id[:])
	encoded := strings.ToUpper(n.Text(36))
	if len(encoded) < 7 {
		encoded = strings.Repeat("0", 7-len(encoded)) + encoded
	}
	return "INV-" + encoded[:7]
}
