package domain

import (
	"fmt"
	"strings"

	catalog "bistroDesk/internal/modules/catalog/domain"
)

// Size selects the plate variant for a cart line.
type Size string

const (
	SizeHalf Size = "Half"
	SizeFull Size = "Full"
)

// ParseSize validates a raw size value from the transport layer.
func ParseSize(raw string) (Size, error) {
	switch Size(strings.TrimSpace(raw)) {
	case SizeHalf:
		return SizeHalf, nil
	case SizeFull, "":
		return SizeFull, nil
	default:
		return "", fmt.Errorf("invalid size: %s", raw)
	}
}

// Line is one (item, size) entry in the cart. Everything except the quantity
// is a snapshot of the menu item at add time; later menu edits never touch
// an existing line.
type Line struct {
	ItemID       string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	HalfPrice    float64 `json:"halfPrice,omitempty"`
	Category     string  `json:"category,omitempty"`
	Image        string  `json:"image,omitempty"`
	Quantity     int     `json:"quantity"`
	SelectedSize Size    `json:"selectedSize"`
}

// UnitPrice selects the half price only when the half size is chosen and the
// item actually offers one.
func (l Line) UnitPrice() float64 {
	if l.SelectedSize == SizeHalf && l.HalfPrice > 0 {
		return l.HalfPrice
	}
	return l.Price
}

// Subtotal is the line's contribution to the order total.
func (l Line) Subtotal() float64 {
	return l.UnitPrice() * float64(l.Quantity)
}

// Cart is the in-memory quantity ledger for the order being built. It is
// purely transient UI state: reset at checkout, never persisted on its own.
type Cart struct {
	lines []Line
}

func NewCart() *Cart {
	return &Cart{}
}

// Increment adjusts the quantity of the (item, size) line by delta. A line
// that does not exist is created when delta is positive, snapshotting the
// item's current fields. Quantities clamp at zero and a zeroed line is
// removed, never kept.
func (c *Cart) Increment(item catalog.MenuItem, size Size, delta int) {
	for i, line := range c.lines {
		if line.ItemID == item.ID.String() && line.SelectedSize == size {
			qty := line.Quantity + delta
			if qty <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
				return
			}
			c.lines[i].Quantity = qty
			return
		}
	}
	if delta <= 0 {
		return
	}
	c.lines = append(c.lines, Line{
		ItemID:       item.ID.String(),
		Name:         item.Name,
		Description:  item.Description,
		Price:        item.Price,
		HalfPrice:    item.HalfPrice,
		Category:     item.Category,
		Image:        item.Image,
		Quantity:     delta,
		SelectedSize: size,
	})
}

// Quantity returns the current quantity for (item, size), zero when absent.
func (c *Cart) Quantity(itemID string, size Size) int {
	for _, line := range c.lines {
		if line.ItemID == itemID && line.SelectedSize == size {
			return line.Quantity
		}
	}
	return 0
}

// Lines returns a copy of the cart lines in add order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count is the total number of plates across all lines.
func (c *Cart) Count() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// Total sums the line subtotals.
func (c *Cart) Total() float64 {
	total := 0.0
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

// Empty reports whether the cart holds no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Clear drops every line, used when a checkout completes.
func (c *Cart) Clear() {
	c.lines = nil
}
