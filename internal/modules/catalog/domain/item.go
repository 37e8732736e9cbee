package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bistroDesk/internal/shared/normalization"
)

// Menu categories form a fixed set; the storefront filter adds a synthetic
// "All" on top of these.
const (
	CategoryStarters   = "Starters"
	CategoryMainCourse = "Main Course"
	CategoryDesserts   = "Desserts"
	CategoryBeverages  = "Beverages"
	CategoryDrinks     = "Drinks"
	CategorySpecials   = "Specials"

	CategoryAll = "All"
)

// Categories lists the categories a menu item may belong to.
func Categories() []string {
	return []string{CategoryStarters, CategoryMainCourse, CategoryDesserts, CategoryBeverages, CategoryDrinks, CategorySpecials}
}

func validCategory(category string) bool {
	for _, c := range Categories() {
		if c == category {
			return true
		}
	}
	return false
}

const temporaryIDPrefix = "tmp-"

// ItemID distinguishes store-assigned identifiers from locally minted
// placeholders, so create-vs-update dispatch is a tag check rather than a
// guess on the id's shape.
type ItemID struct {
	value     string
	persisted bool
}

// NewTemporaryID mints a fresh placeholder id for an item that has never
// been written to the store.
func NewTemporaryID() ItemID {
	return ItemID{value: temporaryIDPrefix + uuid.NewString()}
}

// TemporaryID wraps an existing local token as a placeholder id.
func TemporaryID(token string) ItemID {
	token = strings.TrimSpace(token)
	if token == "" {
		return NewTemporaryID()
	}
	return ItemID{value: token}
}

// PersistedID wraps a store-assigned identifier.
func PersistedID(value string) ItemID {
	return ItemID{value: strings.TrimSpace(value), persisted: true}
}

func (id ItemID) String() string  { return id.value }
func (id ItemID) Persisted() bool { return id.persisted }
func (id ItemID) IsZero() bool    { return id.value == "" }

func (id ItemID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON tags incoming ids: blank values and values carrying the local
// placeholder prefix are temporary, everything else is store-assigned.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		*id = NewTemporaryID()
	case strings.HasPrefix(raw, temporaryIDPrefix):
		*id = ItemID{value: raw}
	default:
		*id = ItemID{value: raw, persisted: true}
	}
	return nil
}

// MenuItem is a dish on the menu. Price is the full-size price; HalfPrice
// above zero offers a cheaper half-size alternative of the same dish.
type MenuItem struct {
	ID          ItemID  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	HalfPrice   float64 `json:"halfPrice,omitempty"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// HasHalf reports whether the item offers a half-size variant.
func (m MenuItem) HasHalf() bool { return m.HalfPrice > 0 }

// Validate checks the admin-form constraints before a save is attempted.
func (m MenuItem) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name is required")
	}
	if m.Price < 0 {
		return errors.New("price must be >= 0")
	}
	if m.HalfPrice < 0 {
		return errors.New("half price must be >= 0")
	}
	if !validCategory(m.Category) {
		return fmt.Errorf("invalid category: %s", m.Category)
	}
	return nil
}

// NormalizeItem attempts to construct a MenuItem from a store row. Numeric
// columns may arrive as text and are coerced.
func NormalizeItem(row map[string]any) (MenuItem, bool) {
	id := normalization.AsString(row["id"])
	if id == "" {
		return MenuItem{}, false
	}
	return MenuItem{
		ID:          PersistedID(id),
		Name:        normalization.AsString(row["name"]),
		Description: normalization.AsString(row["description"]),
		Price:       normalization.AsFloat64(row["price"]),
		HalfPrice:   normalization.AsFloat64(row["half_price"]),
		Category:    normalization.AsString(row["category"]),
		Image:       normalization.AsString(row["image"]),
	}, true
}

// Row builds the write payload for the store. Temporary ids are omitted so
// the store assigns a permanent one.
func (m MenuItem) Row(identity string) map[string]any {
	row := map[string]any{
		"name":        m.Name,
		"description": m.Description,
		"price":       m.Price,
		"category":    m.Category,
		"image":       m.Image,
		"user_id":     identity,
	}
	if m.HasHalf() {
		row["half_price"] = m.HalfPrice
	}
	if m.ID.Persisted() {
		row["id"] = m.ID.String()
	}
	return row
}
