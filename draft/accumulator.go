package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/uniformsource/backend/models"
)

const keyPrefix = "uniformsource:quote_draft:"

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Accumulator holds one buyer session's in-progress quote selection. It keeps
// at most one entry per product id and writes the whole collection back
// through the KV port after every mutation, so the draft survives restarts.
type Accumulator struct {
	kv    KV
	key   string
	items []models.QuoteDraftItem
}

func Key(sessionID string) string {
	return keyPrefix + sessionID
}

// New loads the persisted draft for the session, or starts empty.
func New(ctx context.Context, kv KV, sessionID string) (*Accumulator, error) {
	a := &Accumulator{kv: kv, key: Key(sessionID)}
	raw, ok, err := kv.Get(ctx, a.key)
	if err != nil {
		return nil, fmt.Errorf("loading draft: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &a.items); err != nil {
			return nil, fmt.Errorf("decoding draft: %w", err)
		}
	}
	return a, nil
}

// AddItem appends a new entry, or, when an entry with the same product id
// already exists, adds the quantities together. The existing entry's sizes
// and customization notes win on a merge.
func (a *Accumulator) AddItem(ctx context.Context, item models.QuoteDraftItem) error {
	if item.ProductID == "" {
		return errors.New("productId is required")
	}
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}

	merged := false
	for i := range a.items {
		if a.items[i].ProductID == item.ProductID {
			a.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		a.items = append(a.items, item)
	}
	return a.persist(ctx)
}

// RemoveItem deletes the entry for the product id. Removing an absent product
// is a silent no-op.
func (a *Accumulator) RemoveItem(ctx context.Context, productID string) error {
	for i := range a.items {
		if a.items[i].ProductID == productID {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return a.persist(ctx)
		}
	}
	return nil
}

// UpdateQuantity overwrites the quantity of the matching entry; absent
// products are a no-op.
func (a *Accumulator) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range a.items {
		if a.items[i].ProductID == productID {
			a.items[i].Quantity = quantity
			return a.persist(ctx)
		}
	}
	return nil
}

// Clear empties the draft and removes the persisted copy.
func (a *Accumulator) Clear(ctx context.Context) error {
	a.items = nil
	return a.kv.Remove(ctx, a.key)
}

// Items returns a copy of the draft in insertion order.
func (a *Accumulator) Items() []models.QuoteDraftItem {
	out := make([]models.QuoteDraftItem, len(a.items))
	copy(out, a.items)
	for i := range out {
		out[i].Sizes = append([]string(nil), out[i].Sizes...)
	}
	return out
}

func (a *Accumulator) Count() int {
	return len(a.items)
}

func (a *Accumulator) persist(ctx context.Context) error {
	raw, err := json.Marshal(a.items)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	return a.kv.Set(ctx, a.key, string(raw))
}
