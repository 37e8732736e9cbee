package app

import (
	"context"
	"sync"

	cart "bistroDesk/internal/modules/cart/domain"
	catalogusecase "bistroDesk/internal/modules/catalog/application/usecase"
	catalog "bistroDesk/internal/modules/catalog/domain"
	ordersusecase "bistroDesk/internal/modules/orders/application/usecase"
	orders "bistroDesk/internal/modules/orders/domain"
	realtime "bistroDesk/internal/modules/realtime/domain"
	session "bistroDesk/internal/modules/session/application/usecase"
	sessiondomain "bistroDesk/internal/modules/session/domain"
)

// TokenSink rotates the access token the row client attaches to requests.
type TokenSink interface {
	UseToken(token string)
}

// Publisher mirrors state changes onto the realtime feed.
type Publisher interface {
	Publish(event realtime.Event)
}

// App is the single-operator application state: the current session, the
// synced catalog, the live cart and the order recorder. HTTP handlers go
// through it rather than the use cases directly so the cart mutex and the
// session-to-catalog wiring stay in one place.
type App struct {
	Sessions *session.Manager
	Catalog  *catalogusecase.Synchronizer
	Recorder *ordersusecase.Recorder

	cartMu sync.Mutex
	cart   *cart.Cart

	publish Publisher
}

func New(sessions *session.Manager, catalogSync *catalogusecase.Synchronizer, recorder *ordersusecase.Recorder, tokens TokenSink, publish Publisher) *App {
	a := &App{
		Sessions: sessions,
		Catalog:  catalogSync,
		Recorder: recorder,
		cart:     cart.NewCart(),
		publish:  publish,
	}
	sessions.OnChange(func(s *sessiondomain.Session, token string) {
		tokens.UseToken(token)
		if s == nil {
			catalogSync.ResetToGuest()
			a.publish.Publish(realtime.Event{Topic: realtime.TopicSession, Kind: "signed-out"})
			return
		}
		a.publish.Publish(realtime.Event{Topic: realtime.TopicSession, Kind: "signed-in", Payload: s})
		// The load runs on the caller's goroutine so sign-in responses carry
		// the synced catalog.
		_ = catalogSync.LoadForIdentity(context.Background(), s.ID, s.Name)
		a.publish.Publish(realtime.Event{Topic: realtime.TopicCatalog, Kind: "reloaded"})
	})
	return a
}

// CartView is the serializable snapshot handed to the UI.
type CartView struct {
	Lines []cart.Line `json:"lines"`
	Count int         `json:"count"`
	Total float64     `json:"total"`
}

// AdjustCart changes the quantity of an (item, size) line by delta, looking
// the item up in the current catalog. Unknown items report false.
func (a *App) AdjustCart(itemID string, size cart.Size, delta int) (CartView, bool) {
	item, ok := a.Catalog.ItemByID(itemID)
	if !ok {
		return a.Cart(), false
	}
	a.cartMu.Lock()
	a.cart.Increment(item, size, delta)
	a.cartMu.Unlock()
	return a.Cart(), true
}

// Cart returns the current cart snapshot.
func (a *App) Cart() CartView {
	a.cartMu.Lock()
	defer a.cartMu.Unlock()
	return CartView{Lines: a.cart.Lines(), Count: a.cart.Count(), Total: a.cart.Total()}
}

// ClearCart drops every line.
func (a *App) ClearCart() {
	a.cartMu.Lock()
	a.cart.Clear()
	a.cartMu.Unlock()
}

// Checkout finalizes the live cart into an order record.
func (a *App) Checkout(ctx context.Context, customerName, customerContact, paymentMethod string) (orders.OrderRecord, error) {
	identity := a.Catalog.Identity()
	a.cartMu.Lock()
	record, err := a.Recorder.Finalize(ctx, a.cart, identity, customerName, customerContact, paymentMethod)
	a.cartMu.Unlock()
	if err != nil {
		return orders.OrderRecord{}, err
	}
	a.publish.Publish(realtime.Event{Topic: realtime.TopicOrders, Kind: "order-recorded", Payload: record})
	return record, nil
}

// OrderByID finds a record in the local history.
func (a *App) OrderByID(id string) (orders.OrderRecord, bool) {
	for _, record := range a.Catalog.History() {
		if record.ID == id {
			return record, true
		}
	}
	return orders.OrderRecord{}, false
}

// Receipt renders the stored order's receipt with the current profile.
func (a *App) Receipt(id string) (string, bool) {
	record, ok := a.OrderByID(id)
	if !ok {
		return "", false
	}
	return orders.RenderReceipt(record, a.Catalog.Profile()), true
}

// SaveItem persists a menu item and mirrors the change to open tabs.
func (a *App) SaveItem(ctx context.Context, item catalog.MenuItem) error {
	if err := a.Catalog.SaveItem(ctx, item); err != nil {
		return err
	}
	a.publish.Publish(realtime.Event{Topic: realtime.TopicCatalog, Kind: "item-saved", Payload: item})
	return nil
}

// DeleteItem removes a menu item and mirrors the change to open tabs.
func (a *App) DeleteItem(ctx context.Context, id string, confirmed bool) error {
	if err := a.Catalog.DeleteItem(ctx, id, confirmed); err != nil {
		return err
	}
	a.publish.Publish(realtime.Event{Topic: realtime.TopicCatalog, Kind: "item-deleted", Payload: map[string]string{"id": id}})
	return nil
}

// UpdateProfile replaces the restaurant profile and mirrors the change.
func (a *App) UpdateProfile(ctx context.Context, profile catalog.Profile) {
	a.Catalog.UpdateProfile(ctx, profile)
	a.publish.Publish(realtime.Event{Topic: realtime.TopicCatalog, Kind: "profile-updated", Payload: profile})
}
