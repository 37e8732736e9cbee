package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	cart "bistroDesk/internal/modules/cart/domain"
	catalog "bistroDesk/internal/modules/catalog/domain"
	"bistroDesk/internal/modules/orders/domain"
)

type fakeOrderStore struct {
	inserted [][]map[string]any
	err      error
}

func (f *fakeOrderStore) Insert(_ context.Context, _ string, rows []map[string]any, _ bool) ([]map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inserted = append(f.inserted, rows)
	return nil, nil
}

type fakeHistory struct {
	records []domain.OrderRecord
}

func (f *fakeHistory) AppendRecord(record domain.OrderRecord) {
	f.records = append(f.records, record)
}

type fakeToasts struct {
	messages []string
}

func (f *fakeToasts) Notify(_, message string) {
	f.messages = append(f.messages, message)
}

func newTestRecorder(store *fakeOrderStore) (*Recorder, *fakeHistory, *fakeToasts) {
	history := &fakeHistory{}
	toasts := &fakeToasts{}
	r := NewRecorder(store, history, toasts)
	r.spawn = func(fn func()) { fn() }
	r.now = func() time.Time { return time.Date(2024, time.March, 5, 19, 42, 0, 0, time.UTC) }
	r.newCode = func() string { return "INV-TEST123" }
	return r, history, toasts
}

func loadedCart() *cart.Cart {
	c := cart.NewCart()
	dal := catalog.MenuItem{ID: catalog.PersistedID("m1"), Name: "Dal Makhani", Price: 180, HalfPrice: 100, Category: catalog.CategoryMainCourse}
	roll := catalog.MenuItem{ID: catalog.PersistedID("m2"), Name: "Paneer Roll", Price: 40, Category: catalog.CategoryStarters}
	c.Increment(dal, cart.SizeHalf, 2)
	c.Increment(roll, cart.SizeFull, 1)
	return c
}

func TestFinalizeProducesImmutableRecord(t *testing.T) {
	store := &fakeOrderStore{}
	r, history, toasts := newTestRecorder(store)
	c := loadedCart()

	record, err := r.Finalize(context.Background(), c, "acct-1", "Ravi", "9876543210", domain.PaymentUPI)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if record.ID != "INV-TEST123" {
		t.Fatalf("ID = %q", record.ID)
	}
	if record.Total != 240 {
		t.Fatalf("Total = %v, want 240", record.Total)
	}
	if record.Timestamp != "5 Mar 2024, 07:42 PM" {
		t.Fatalf("Timestamp = %q", record.Timestamp)
	}
	if record.ItemsSummary != "Dal Makhani (Half x2), Paneer Roll (Full x1)" {
		t.Fatalf("ItemsSummary = %q", record.ItemsSummary)
	}
	if len(record.Lines) != 2 {
		t.Fatalf("Lines = %d", len(record.Lines))
	}

	if len(history.records) != 1 || history.records[0].ID != record.ID {
		t.Fatalf("history = %+v", history.records)
	}
	if !c.Empty() {
		t.Fatal("cart not cleared after finalize")
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserts = %d, want 1", len(store.inserted))
	}
	row := store.inserted[0][0]
	if row["user_id"] != "acct-1" || row["id"] != "INV-TEST123" {
		t.Fatalf("row = %v", row)
	}
	if len(toasts.messages) != 0 {
		t.Fatalf("notifications = %v", toasts.messages)
	}
}

func TestFinalizeGuestSkipsStore(t *testing.T) {
	store := &fakeOrderStore{}
	r, history, _ := newTestRecorder(store)

	record, err := r.Finalize(context.Background(), loadedCart(), "", "Ravi", "9876543210", domain.PaymentCash)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatal("guest order reached the store")
	}
	if len(history.records) != 1 || history.records[0].ID != record.ID {
		t.Fatalf("history = %+v", history.records)
	}
}

func TestFinalizeInsertFailureKeepsLocalRecord(t *testing.T) {
	store := &fakeOrderStore{err: errors.New("store down")}
	r, history, toasts := newTestRecorder(store)

	if _, err := r.Finalize(context.Background(), loadedCart(), "acct-1", "Ravi", "9876543210", domain.PaymentCard); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(history.records) != 1 {
		t.Fatalf("history = %+v", history.records)
	}
	if len(toasts.messages) != 1 {
		t.Fatalf("notifications = %v", toasts.messages)
	}
}

func TestFinalizeValidation(t *testing.T) {
	store := &fakeOrderStore{}
	r, history, _ := newTestRecorder(store)

	tests := []struct {
		name    string
		cart    *cart.Cart
		cust    string
		contact string
		payment string
	}{
		{name: "empty cart", cart: cart.NewCart(), cust: "Ravi", contact: "98765", payment: domain.PaymentCash},
		{name: "nil cart", cart: nil, cust: "Ravi", contact: "98765", payment: domain.PaymentCash},
		{name: "blank name", cart: loadedCart(), cust: "  ", contact: "98765", payment: domain.PaymentCash},
		{name: "blank contact", cart: loadedCart(), cust: "Ravi", contact: "", payment: domain.PaymentCash},
		{name: "unknown payment", cart: loadedCart(), cust: "Ravi", contact: "98765", payment: "Cheque"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Finalize(context.Background(), tc.cart, "acct-1", tc.cust, tc.contact, tc.payment)
			if !errors.Is(err, domain.ErrValidationFailed) {
				t.Fatalf("error = %v, want ErrValidationFailed", err)
			}
		})
	}
	if len(history.records) != 0 {
		t.Fatalf("rejected checkouts produced records: %+v", history.records)
	}
}

func TestNewInvoiceCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code := NewInvoiceCode()
		if !strings.HasPrefix(code, "INV-") || len(code) != len("INV-")+7 {
			t.Fatalf("code = %q", code)
		}
		for _, r := range code[len("INV-"):] {
			if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'Z') {
				t.Fatalf("code %q has invalid character %q", code, r)
			}
		}
		if seen[code] {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = true
	}
}
