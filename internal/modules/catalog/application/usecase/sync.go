package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"bistroDesk/internal/modules/catalog/application/port"
	"bistroDesk/internal/modules/catalog/domain"
	orders "bistroDesk/internal/modules/orders/domain"
)

// Logical tables on the managed backend.
const (
	tableProfiles  = "profiles"
	tableMenuItems = "menu_items"
	tableOrders    = "orders"
)

// ErrConfirmationRequired guards item deletion behind an explicit
// confirmation step.
var ErrConfirmationRequired = errors.New("confirmation required")

// Synchronizer keeps the local catalog, profile and order history consistent
// with the managed backend for the current identity, and bootstraps new
// identities with the sample menu.
//
// Mutations are optimistic: local state changes synchronously, the remote
// write resolves in the background, and a failed write only raises a
// notification — local and remote state are allowed to diverge.
type Synchronizer struct {
	store    port.RowStore
	enhancer port.Enhancer
	notify   port.Notifier

	mu        sync.RWMutex
	identity  string
	epoch     uint64
	items     []domain.MenuItem
	profile   domain.Profile
	history   []orders.OrderRecord
	loading   bool
	enhancing bool

	// spawn runs background remote writes; replaced with a synchronous
	// runner in tests.
	spawn func(func())
}

func NewSynchronizer(store port.RowStore, enhancer port.Enhancer, notify port.Notifier) *Synchronizer {
	return &Synchronizer{
		store:    store,
		enhancer: enhancer,
		notify:   notify,
		items:    domain.SampleMenu(),
		profile:  domain.DefaultProfile(),
		spawn:    func(fn func()) { go fn() },
	}
}

// ResetToGuest clears every cached catalog value back to the guest defaults:
// sample menu, default profile, empty history.
func (s *Synchronizer) ResetToGuest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.identity = ""
	s.items = domain.SampleMenu()
	s.profile = domain.DefaultProfile()
	s.history = nil
	s.loading = false
}

// LoadForIdentity runs the strictly sequential profile → menu → orders load
// for a freshly authenticated identity. Menu seeding depends on the profile
// row existing, and history is only fetched once both have settled so the
// first render is consistent. Any fetch failure surfaces one "sync failed"
// notification; the loading flag is always released.
func (s *Synchronizer) LoadForIdentity(ctx context.Context, identity, ownerName string) error {
	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	s.identity = identity
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.epoch == epoch {
			s.loading = false
		}
		s.mu.Unlock()
	}()

	if err := s.loadProfile(ctx, identity, ownerName, epoch); err != nil {
		return s.fetchFailed(err)
	}
	if err := s.loadMenu(ctx, identity, epoch); err != nil {
		return s.fetchFailed(err)
	}
	if err := s.loadHistory(ctx, identity, epoch); err != nil {
		return s.fetchFailed(err)
	}
	return nil
}

func (s *Synchronizer) fetchFailed(err error) error {
	slog.Error("catalog sync failed", slog.Any("error", err))
	s.notify.Notify(port.LevelError, "Error syncing data")
	return fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
}

func (s *Synchronizer) loadProfile(ctx context.Context, identity, ownerName string, epoch uint64) error {
	rows, err := s.store.Select(ctx, tableProfiles, map[string]string{"id": identity}, "")
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		profile := domain.NormalizeProfile(rows[0])
		s.mu.Lock()
		if s.epoch == epoch {
			s.profile = profile
		}
		s.mu.Unlock()
		return nil
	}

	// First login: give the identity its profile row before anything else
	// loads, so every authenticated account has exactly one.
	def := domain.DefaultProfile()
	row := map[string]any{
		"id":          identity,
		"name":        def.Name,
		"owner_name":  ownerName,
		"theme_color": def.ThemeColor,
		"font_pair":   def.FontPair,
	}
	if _, err := s.store.Insert(ctx, tableProfiles, []map[string]any{row}, false); err != nil {
		slog.Warn("default profile insert failed", slog.String("identity", identity), slog.Any("error", err))
	}
	return nil
}

func (s *Synchronizer) loadMenu(ctx context.Context, identity string, epoch uint64) error {
	rows, err := s.store.Select(ctx, tableMenuItems, map[string]string{"user_id": identity}, "")
	if err != nil {
		return err
	}

	if len(rows) > 0 {
		items := normalizeItems(rows)
		s.mu.Lock()
		if s.epoch == epoch {
			s.items = items
		}
		s.mu.Unlock()
		return nil
	}

	// Brand-new identity: one-time seed with the sample menu. Local ids are
	// stripped so the store assigns permanent ones, and the store's rows are
	// adopted as the catalog. A failed seed leaves the catalog empty rather
	// than silently showing unsaved samples.
	seed := make([]map[string]any, 0, len(domain.SampleMenu()))
	for _, item := range domain.SampleMenu() {
		seed = append(seed, item.Row(identity))
	}
	inserted, err := s.store.Insert(ctx, tableMenuItems, seed, true)
	if err != nil {
		slog.Error("menu seed failed", slog.String("identity", identity), slog.Any("error", fmt.Errorf("%w: %v", domain.ErrSeedFailed, err)))
		s.notify.Notify(port.LevelError, "Failed to set up the starter menu")
		s.mu.Lock()
		if s.epoch == epoch {
			s.items = nil
		}
		s.mu.Unlock()
		return nil
	}
	items := normalizeItems(inserted)
	s.mu.Lock()
	if s.epoch == epoch {
		s.items = items
	}
	s.mu.Unlock()
	return nil
}

func (s *Synchronizer) loadHistory(ctx context.Context, identity string, epoch uint64) error {
	rows, err := s.store.Select(ctx, tableOrders, map[string]string{"user_id": identity}, "timestamp.desc")
	if err != nil {
		return err
	}
	history := make([]orders.OrderRecord, 0, len(rows))
	for _, row := range rows {
		if record, ok := orders.NormalizeRecord(row); ok {
			history = append(history, record)
		}
	}
	s.mu.Lock()
	if s.epoch == epoch {
		s.history = history
	}
	s.mu.Unlock()
	return nil
}

func normalizeItems(rows []map[string]any) []domain.MenuItem {
	items := make([]domain.MenuItem, 0, len(rows))
	for _, row := range rows {
		if item, ok := domain.NormalizeItem(row); ok {
			items = append(items, item)
		}
	}
	return items
}

// SaveItem applies a create-or-update optimistically and fires the remote
// upsert in the background. Temporary ids are omitted from the payload; on
// success the local copy is rekeyed to the store-assigned id. A failed write
// is notified and never rolled back.
func (s *Synchronizer) SaveItem(ctx context.Context, item domain.MenuItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.ID.IsZero() {
		item.ID = domain.NewTemporaryID()
	}

	s.mu.Lock()
	identity := s.identity
	if identity == "" {
		s.mu.Unlock()
		s.notify.Notify(port.LevelWarn, "Please login to save changes")
		return nil
	}
	epoch := s.epoch
	replaced := false
	for i := range s.items {
		if s.items[i].ID.String() == item.ID.String() {
			s.items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		s.items = append([]domain.MenuItem{item}, s.items...)
	}
	s.mu.Unlock()

	row := item.Row(identity)
	tempID := item.ID
	s.spawn(func() {
		saved, err := s.store.Upsert(context.WithoutCancel(ctx), tableMenuItems, row)
		if err != nil {
			slog.Error("item save failed", slog.String("id", tempID.String()), slog.Any("error", fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)))
			s.notify.Notify(port.LevelWarn, "Failed to save to cloud")
			return
		}
		if tempID.Persisted() {
			return
		}
		stored, ok := domain.NormalizeItem(saved)
		if !ok {
			return
		}
		s.mu.Lock()
		if s.epoch == epoch {
			for i := range s.items {
				if s.items[i].ID.String() == tempID.String() {
					s.items[i].ID = stored.ID
					break
				}
			}
		}
		s.mu.Unlock()
	})
	return nil
}

// DeleteItem removes the item locally and fires the remote delete. The
// caller must have taken the operator through a confirmation step first.
func (s *Synchronizer) DeleteItem(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	s.mu.Lock()
	identity := s.identity
	if identity == "" {
		s.mu.Unlock()
		return nil
	}
	for i := range s.items {
		if s.items[i].ID.String() == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.spawn(func() {
		if err := s.store.Delete(context.WithoutCancel(ctx), tableMenuItems, map[string]string{"id": id}); err != nil {
			slog.Error("item delete failed", slog.String("id", id), slog.Any("error", fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)))
			s.notify.Notify(port.LevelWarn, "Failed to delete item")
		}
	})
	return nil
}

// UpdateProfile replaces the local profile immediately; when authenticated
// the full field set is pushed keyed by identity. Local state stays the
// source of truth whatever the remote outcome.
func (s *Synchronizer) UpdateProfile(ctx context.Context, profile domain.Profile) {
	s.mu.Lock()
	s.profile = profile
	identity := s.identity
	s.mu.Unlock()

	if identity == "" {
		return
	}
	values := profile.Row(identity)
	delete(values, "id")
	s.spawn(func() {
		if err := s.store.Update(context.WithoutCancel(ctx), tableProfiles, map[string]string{"id": identity}, values); err != nil {
			slog.Error("profile update failed", slog.String("identity", identity), slog.Any("error", fmt.Errorf("%w: %v", domain.ErrWriteFailed, err)))
			s.notify.Notify(port.LevelWarn, "Failed to update profile")
		}
	})
}

// Enhance sends the catalog through the rewrite collaborator and adopts the
// result locally only. Nothing is written through to the store: the operator
// reviews and saves items individually to persist a bulk rewrite.
func (s *Synchronizer) Enhance(ctx context.Context) error {
	if s.enhancer == nil {
		return errors.New("no rewrite collaborator configured")
	}
	s.mu.Lock()
	if s.enhancing {
		s.mu.Unlock()
		return nil
	}
	s.enhancing = true
	epoch := s.epoch
	snapshot := make([]domain.MenuItem, len(s.items))
	copy(snapshot, s.items)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.enhancing = false
		s.mu.Unlock()
	}()

	rewritten, err := s.enhancer.Rewrite(ctx, snapshot)
	if err != nil {
		slog.Warn("menu enhancement failed", slog.Any("error", err))
		s.notify.Notify(port.LevelWarn, "Menu enhancement is unavailable right now")
		return err
	}

	s.mu.Lock()
	if s.epoch == epoch {
		s.items = rewritten
	}
	s.mu.Unlock()
	s.notify.Notify(port.LevelInfo, "Menu enhanced — save items to keep the new copy")
	return nil
}

// AppendRecord prepends a freshly finalized order to the local history.
func (s *Synchronizer) AppendRecord(record orders.OrderRecord) {
	s.mu.Lock()
	s.history = append([]orders.OrderRecord{record}, s.history...)
	s.mu.Unlock()
}

// Items returns a copy of the current catalog.
func (s *Synchronizer) Items() []domain.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]domain.MenuItem, len(s.items))
	copy(items, s.items)
	return items
}

// ItemByID looks up a catalog item.
func (s *Synchronizer) ItemByID(id string) (domain.MenuItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID.String() == id {
			return item, true
		}
	}
	return domain.MenuItem{}, false
}

// FilterItems narrows the catalog by category ("All" passes everything) and
// a case-insensitive search over name and description.
func (s *Synchronizer) FilterItems(category, query string) []domain.MenuItem {
	query = strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MenuItem, 0, len(s.items))
	for _, item := range s.items {
		if category != "" && category != domain.CategoryAll && item.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(strings.ToLower(item.Description), query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Profile returns the current profile.
func (s *Synchronizer) Profile() domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// History returns a copy of the order history, newest first.
func (s *Synchronizer) History() []orders.OrderRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]orders.OrderRecord, len(s.history))
	copy(history, s.history)
	return history
}

// Identity returns the identity the catalog is currently scoped to, empty
// for guests.
func (s *Synchronizer) Identity() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Loading reports whether an identity load is in flight.
func (s *Synchronizer) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
