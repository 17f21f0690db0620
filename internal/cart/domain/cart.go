package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single source of truth for one shopper's intent, keyed by an
// opaque owner ID (the browsing session). Lines keep insertion order for
// stable display.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	OwnerID   string     `bson:"owner_id" json:"owner_id"`
	Lines     []CartLine `bson:"lines" json:"lines"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// CartLine caches display attributes at add-time; they are not re-fetched
// from the catalog and may go stale relative to it.
type CartLine struct {
	ItemID    string          `bson:"item_id" json:"item_id"`
	Name      string          `bson:"name" json:"name"`
	UnitPrice decimal.Decimal `bson:"unit_price" json:"unit_price"`
	ImageRef  string          `bson:"image_ref" json:"image_ref,omitempty"`
	Quantity  int             `bson:"quantity" json:"quantity"`
	AddedAt   time.Time       `bson:"added_at" json:"added_at"`
}

// AddLine merges by item ID: adding an already-present item increments its
// quantity, never duplicates the line. Quantity is clamped to at least 1 on
// insert.
func (c *Cart) AddLine(line CartLine) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	for i := range c.Lines {
		if c.Lines[i].ItemID == line.ItemID {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}

	c.Lines = append(c.Lines, line)
}

// SetQuantity overwrites a line's quantity. Zero or negative removes the
// line; a quantity-zero line is never kept. Unknown IDs are a no-op.
func (c *Cart) SetQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		c.RemoveLine(itemID)
		return
	}

	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveLine deletes the line if present; removing an absent ID is not an
// error.
func (c *Cart) RemoveLine(itemID string) {
	for i, line := range c.Lines {
		if line.ItemID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Used after a confirmed order submission.
func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalItemCount is recomputed from current state on every call so it can
// never drift from the lines.
func (c *Cart) TotalItemCount() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Subtotal is sum(unit price * quantity) over all lines, recomputed per call.
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range c.Lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// Snapshot returns an independent copy of the lines. Checkout freezes one of
// these so later cart mutations cannot affect an in-flight submission.
func (c *Cart) Snapshot() []CartLine {
	if len(c.Lines) == 0 {
		return nil
	}
	snapshot := make([]CartLine, len(c.Lines))
	copy(snapshot, c.Lines)
	return snapshot
}
