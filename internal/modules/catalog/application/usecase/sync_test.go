package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bistroDesk/internal/modules/catalog/application/port"
	"bistroDesk/internal/modules/catalog/domain"
)

type fakeStore struct {
	selects map[string][]map[string]any
	fail    map[string]error

	inserted map[string][][]map[string]any
	updated  map[string][]map[string]any
	upserted map[string][]map[string]any
	deleted  map[string][]map[string]string

	upsertResult map[string]any
	upsertErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		selects:  map[string][]map[string]any{},
		fail:     map[string]error{},
		inserted: map[string][][]map[string]any{},
		updated:  map[string][]map[string]any{},
		upserted: map[string][]map[string]any{},
		deleted:  map[string][]map[string]string{},
	}
}

func (f *fakeStore) Select(_ context.Context, table string, _ map[string]string, _ string) ([]map[string]any, error) {
	if err := f.fail["select:"+table]; err != nil {
		return nil, err
	}
	return f.selects[table], nil
}

func (f *fakeStore) Insert(_ context.Context, table string, rows []map[string]any, returning bool) ([]map[string]any, error) {
	if err := f.fail["insert:"+table]; err != nil {
		return nil, err
	}
	f.inserted[table] = append(f.inserted[table], rows)
	if !returning {
		return nil, nil
	}
	out := make([]map[string]any, 0, len(rows))
	for i, row := range rows {
		stored := map[string]any{"id": fmt.Sprintf("row-%d", i+1)}
		for k, v := range row {
			stored[k] = v
		}
		out = append(out, stored)
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, table string, _ map[string]string, values map[string]any) error {
	if err := f.fail["update:"+table]; err != nil {
		return err
	}
	f.updated[table] = append(f.updated[table], values)
	return nil
}

func (f *fakeStore) Upsert(_ context.Context, table string, row map[string]any) (map[string]any, error) {
	f.upserted[table] = append(f.upserted[table], row)
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	if f.upsertResult != nil {
		merged := map[string]any{}
		for k, v := range row {
			merged[k] = v
		}
		for k, v := range f.upsertResult {
			merged[k] = v
		}
		return merged, nil
	}
	return row, nil
}

func (f *fakeStore) Delete(_ context.Context, table string, filters map[string]string) error {
	if err := f.fail["delete:"+table]; err != nil {
		return err
	}
	f.deleted[table] = append(f.deleted[table], filters)
	return nil
}

type fakeNotifier struct {
	levels   []string
	messages []string
}

func (f *fakeNotifier) Notify(level, message string) {
	f.levels = append(f.levels, level)
	f.messages = append(f.messages, message)
}

func newTestSynchronizer(store port.RowStore) (*Synchronizer, *fakeNotifier) {
	notify := &fakeNotifier{}
	s := NewSynchronizer(store, nil, notify)
	s.spawn = func(fn func()) { fn() }
	return s, notify
}

func signedIn(t *testing.T, s *Synchronizer, identity string) {
	t.Helper()
	if err := s.LoadForIdentity(context.Background(), identity, "Owner"); err != nil {
		t.Fatalf("LoadForIdentity: %v", err)
	}
}

func TestLoadSeedsEmptyMenuOnce(t *testing.T) {
	store := newFakeStore()
	store.selects["profiles"] = []map[string]any{{"id": "acct-1", "name": "Spice Villa"}}
	s, notify := newTestSynchronizer(store)

	signedIn(t, s, "acct-1")

	batches := store.inserted["menu_items"]
	if len(batches) != 1 {
		t.Fatalf("expected one seed insert, got %d", len(batches))
	}
	sample := domain.SampleMenu()
	if len(batches[0]) != len(sample) {
		t.Fatalf("seed size = %d, want %d", len(batches[0]), len(sample))
	}
	for _, row := range batches[0] {
		if _, ok := row["id"]; ok {
			t.Fatalf("seed row carries a local id: %v", row)
		}
		if row["user_id"] != "acct-1" {
			t.Fatalf("seed row user_id = %v", row["user_id"])
		}
	}
	items := s.Items()
	if len(items) != len(sample) {
		t.Fatalf("catalog size after seed = %d, want %d", len(items), len(sample))
	}
	for _, item := range items {
		if !item.ID.Persisted() {
			t.Fatalf("seeded item %q kept a temporary id", item.Name)
		}
	}
	if len(notify.messages) != 0 {
		t.Fatalf("unexpected notifications: %v", notify.messages)
	}

	// Second load sees stored rows; no further seeding.
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, map[string]any{"id": item.ID.String(), "name": item.Name, "price": item.Price, "category": item.Category})
	}
	store.selects["menu_items"] = rows
	signedIn(t, s, "acct-1")
	if len(store.inserted["menu_items"]) != 1 {
		t.Fatalf("seed repeated on second load: %d batches", len(store.inserted["menu_items"]))
	}
}

func TestLoadSeedFailureLeavesMenuEmpty(t *testing.T) {
	store := newFakeStore()
	store.selects["profiles"] = []map[string]any{{"id": "acct-1"}}
	store.fail["insert:menu_items"] = errors.New("boom")
	s, notify := newTestSynchronizer(store)

	if err := s.LoadForIdentity(context.Background(), "acct-1", "Owner"); err != nil {
		t.Fatalf("LoadForIdentity: %v", err)
	}
	if got := s.Items(); len(got) != 0 {
		t.Fatalf("catalog after failed seed = %d items, want 0", len(got))
	}
	if len(notify.messages) == 0 {
		t.Fatal("expected a seed failure notification")
	}
	if s.Loading() {
		t.Fatal("loading flag left set")
	}
}

func TestLoadFetchFailureNotifiesOnce(t *testing.T) {
	store := newFakeStore()
	store.fail["select:profiles"] = errors.New("network down")
	s, notify := newTestSynchronizer(store)

	err := s.LoadForIdentity(context.Background(), "acct-1", "Owner")
	if !errors.Is(err, domain.ErrFetchFailed) {
		t.Fatalf("error = %v, want ErrFetchFailed", err)
	}
	if len(notify.messages) != 1 {
		t.Fatalf("notifications = %v, want exactly one", notify.messages)
	}
	if s.Loading() {
		t.Fatal("loading flag left set")
	}
}

func TestLoadInsertsDefaultProfileWhenMissing(t *testing.T) {
	store := newFakeStore()
	s, _ := newTestSynchronizer(store)

	signedIn(t, s, "acct-9")

	batches := store.inserted["profiles"]
	if len(batches) != 1 || len(batches[0]) != 1 {
		t.Fatalf("profile inserts = %v, want one row", batches)
	}
	row := batches[0][0]
	if row["id"] != "acct-9" || row["owner_name"] != "Owner" {
		t.Fatalf("profile row = %v", row)
	}
	if row["theme_color"] != "indigo" || row["font_pair"] != "modern" {
		t.Fatalf("profile defaults = %v", row)
	}
}

func TestSaveItemRekeysTemporaryID(t *testing.T) {
	store := newFakeStore()
	store.selects["profiles"] = []map[string]any{{"id": "acct-1"}}
	store.selects["menu_items"] = []map[string]any{{"id": "m1", "name": "Existing", "price": 100, "category": "Starters"}}
	store.upsertResult = map[string]any{"id": "abc123"}
	s, notify := newTestSynchronizer(store)
	signedIn(t, s, "acct-1")

	item := domain.MenuItem{
		Name:     "Paneer Roll",
		Price:    120,
		Category: domain.CategoryStarters,
	}
	if err := s.SaveItem(context.Background(), item); err != nil {
		t.Fatalf("SaveItem: %v", err)
	}

	upserts := store.upserted["menu_items"]
	if len(upserts) != 1 {
		t.Fatalf("upserts = %d, want 1", len(upserts))
	}
	if _, ok := upserts[0]["id"]; ok {
		t.Fatalf("temporary id leaked into payload: %v", upserts[0])
	}

	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("catalog size = %d, want 2", len(items))
	}
	count := 0
	for _, it := range items {
		if it.Name == "Paneer Roll" {
			count++
			if it.ID.String() != "abc123" || !it.ID.Persisted() {
				t.Fatalf("item id after rekey = %q persisted=%v", it.ID.String(), it.ID.Persisted())
			}
		}
	}
	if count != 1 {
		t.Fatalf("found %d copies of the saved item, want 1", count)
	}
	if len(notify.messages) != 0 {
		t.Fatalf("unexpected notifications: %v", notify.messages)
	}
}

func TestSaveItemFailureKeepsOptimisticValue(t *testing.T) {
	store := newFakeStore()
	store.selects["profiles"] = []map[string]any{{"id": "acct-1"}}
	store.selects["menu_items"] = []map[string]any{{"id": "m1", "name": "Old Name", "price": 100, "category": "Starters"}}
	store.upsertErr = errors.New("store down")
	s, notify := newTestSynchronizer(store)
	signedIn(t, s, "acct-1")

	edited := domain.MenuItem{
		ID:       domain.PersistedID("m1"),
		Name:     "New Name",
		Price:    110,
		Category: domain.CategoryStarters,
	}
	if err := s.SaveItem(context.Background(), edited); err != nil {
		t.Fatalf("SaveItem: %v", err)
	}

	got, ok := s.ItemByID("m1")
	if !ok || got.Name != "New Name" {
		t.Fatalf("local item = %+v, want optimistic edit retained", got)
	}
	if len(store.upserted["menu_items"]) != 1 {
		t.Fatalf("upserts = %d, want exactly 1 (no retry)", len(store.upserted["menu_items"]))
	}
	if len(notify.messages) != 1 || notify.levels[0] != port.LevelWarn {
		t.Fatalf("notifications = %v levels=%v", notify.messages, notify.levels)
	}
}

func TestSaveItemAsGuestIsRefused(t *testing.T) {
	store := newFakeStore()
	s, notify := newTestSynchronizer(store)

	item := domain.MenuItem{Name: "Soup", Price: 50, Category: domain.CategoryStarters}
	if err := s.SaveItem(context.Background(), item); err != nil {
		t.Fatalf("SaveItem: %v", err)
	}
	if len(store.upserted["menu_items"]) != 0 {
		t.Fatal("guest save reached the store")
	}
	if len(notify.messages) != 1 || notify.levels[0] != port.LevelWarn {
		t.Fatalf("notifications = %v", notify.messages)
	}
	if len(s.Items()) != len(domain.SampleMenu()) {
		t.Fatal("guest catalog changed")
	}
}

func TestSaveItemValidation(t *testing.T) {
	store := newFakeStore()
	s, _ := newTestSynchronizer(store)

	bad := domain.MenuItem{Name: "", Price: 10, Category: domain.CategoryStarters}
	if err := s.SaveItem(context.Background(), bad); err == nil {
		t.Fatal("expected validation error for empty name")
	}
}

func TestDeleteItemRequiresConfirmation(t *testing.T) {
	store := newFakeStore()
	store.selects["profiles"] = []map[string]any{{"id": "acct-1"}}
	store.selects["menu_items"] = []map[string]any{{"id": "m1", "name": "Dish", "price": 100, "category": "Starters"}}
	s, _ := newTestSynchronizer(store)
	signedIn(t, s, "acct-1")

	if err := s.DeleteItem(context.Background(), "m1", false); !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("error = %v, want ErrConfirmationRequired", err)
	}
	if _, ok := s.ItemByID("m1"); !ok {
		t.Fatal("unconfirmed delete removed the item")
	}

	if err := s.DeleteItem(context.Background(), "m1", true); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, ok := s.ItemByID("m1"); ok {
		t.Fatal("confirmed delete left the item in place")
	}
	if len(store.deleted["menu_items"]) != 1 {
		t.Fatalf("remote deletes = %d, want 1", len(store.deleted["menu_items"]))
	}
}

func TestUpdateProfilePushesWhenAuthenticated(t *testing.T) {
	store := newFakeStore()
	store.selects["profiles"] = []map[string]any{{"id": "acct-1"}}
	s, _ := newTestSynchronizer(store)
	signedIn(t, s, "acct-1")

	profile := domain.DefaultProfile()
	profile.Name = "Spice Villa"
	s.UpdateProfile(context.Background(), profile)

	if got := s.Profile().Name; got != "Spice Villa" {
		t.Fatalf("local profile name = %q", got)
	}
	updates := store.updated["profiles"]
	if len(updates) != 1 {
		t.Fatalf("profile updates = %d, want 1", len(updates))
	}
	if _, ok := updates[0]["id"]; ok {
		t.Fatalf("update payload carries id: %v", updates[0])
	}
	if updates[0]["name"] != "Spice Villa" {
		t.Fatalf("update payload = %v", updates[0])
	}
}

func TestUpdateProfileAsGuestStaysLocal(t *testing.T) {
	store := newFakeStore()
	s, _ := newTestSynchronizer(store)

	profile := domain.DefaultProfile()
	profile.Name = "Popup Kitchen"
	s.UpdateProfile(context.Background(), profile)

	if got := s.Profile().Name; got != "Popup Kitchen" {
		t.Fatalf("local profile name = %q", got)
	}
	if len(store.updated["profiles"]) != 0 {
		t.Fatal("guest profile update reached the store")
	}
}

func TestResetToGuestRestoresDefaults(t *testing.T) {
	store := newFakeStore()
	store.selects["profiles"] = []map[string]any{{"id": "acct-1", "name": "Spice Villa"}}
	store.selects["menu_items"] = []map[string]any{{"id": "m1", "name": "Dish", "price": 100, "category": "Starters"}}
	s, _ := newTestSynchronizer(store)
	signedIn(t, s, "acct-1")

	s.ResetToGuest()

	if s.Identity() != "" {
		t.Fatal("identity not cleared")
	}
	if got := s.Profile().Name; got != domain.DefaultProfile().Name {
		t.Fatalf("profile after reset = %q", got)
	}
	if len(s.Items()) != len(domain.SampleMenu()) {
		t.Fatal("sample menu not restored")
	}
	if len(s.History()) != 0 {
		t.Fatal("history not cleared")
	}
}

func TestFilterItems(t *testing.T) {
	store := newFakeStore()
	s, _ := newTestSynchronizer(store)

	all := s.FilterItems(domain.CategoryAll, "")
	if len(all) != len(domain.SampleMenu()) {
		t.Fatalf("All filter = %d items", len(all))
	}
	starters := s.FilterItems(domain.CategoryStarters, "")
	for _, item := range starters {
		if item.Category != domain.CategoryStarters {
			t.Fatalf("category filter leaked %q", item.Category)
		}
	}
	matched := s.FilterItems(domain.CategoryAll, "TRUFFLE")
	if len(matched) == 0 {
		t.Fatal("case-insensitive search found nothing")
	}
	for _, item := range matched {
		haystack := strings.ToLower(item.Name + " " + item.Description)
		if !strings.Contains(haystack, "truffle") {
			t.Fatalf("search returned non-matching item %q", item.Name)
		}
	}
}
