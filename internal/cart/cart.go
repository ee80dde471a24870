package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pamlee/go-storefront/internal/store"
)

// Item is one cart line. Quantity is at least 1 for as long as the
// item is in the cart; a mutation that would take it to zero or below
// removes the item instead.
type Item struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int    `json:"priceCents"`
	Image      string `json:"image"`
	Quantity   int    `json:"quantity"`
}

// Cart is a store-backed line-item collection keyed by product id.
// Nothing is cached between calls: every operation re-reads the
// persisted sequence and writes the whole thing back.
type Cart struct {
	st       store.Store
	onChange func([]Item)
}

type Option func(*Cart)

// WithChangeHook fires after every persisted mutation with the new
// contents; the UI layer hangs its refresh off it.
func WithChangeHook(h func([]Item)) Option {
	return func(c *Cart) { c.onChange = h }
}

func New(st store.Store, opts ...Option) *Cart {
	c := &Cart{st: st}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Items returns the cart contents in insertion order. Absent or
// corrupt persisted data reads as an empty cart.
func (c *Cart) Items(ctx context.Context) ([]Item, error) {
	raw, ok, err := c.st.Get(ctx, store.KeyCart)
	if err != nil {
		return nil, fmt.Errorf("cart: read: %w", err)
	}
	if !ok {
		return []Item{}, nil
	}
	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Warn().Err(err).Msg("cart corrupt, resetting to empty")
		return []Item{}, nil
	}
	return items, nil
}

// Add puts one unit of the product in the cart, incrementing the
// quantity if it is already there.
func (c *Cart) Add(ctx context.Context, id, name string, priceCents int, image string) error {
	items, err := c.Items(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity++
			return c.save(ctx, items)
		}
	}
	items = append(items, Item{ID: id, Name: name, PriceCents: priceCents, Image: image, Quantity: 1})
	return c.save(ctx, items)
}

// Remove drops the item with the given id; a missing id is a no-op.
func (c *Cart) Remove(ctx context.Context, id string) error {
	items, err := c.Items(ctx)
	if err != nil {
		return err
	}
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return c.save(ctx, out)
}

// SetQuantity adds delta to the item's quantity, removing the item
// when the result is zero or below. A missing id is a no-op.
func (c *Cart) SetQuantity(ctx context.Context, id string, delta int) error {
	items, err := c.Items(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Quantity += delta
		if items[i].Quantity <= 0 {
			items = append(items[:i], items[i+1:]...)
		}
		return c.save(ctx, items)
	}
	return nil
}

// TotalCents sums price times quantity over the cart.
func (c *Cart) TotalCents(ctx context.Context) (int, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, it := range items {
		total += it.PriceCents * it.Quantity
	}
	return total, nil
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) error {
	return c.save(ctx, []Item{})
}

func (c *Cart) save(ctx context.Context, items []Item) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := c.st.Set(ctx, store.KeyCart, string(b)); err != nil {
		return fmt.Errorf("cart: persist: %w", err)
	}
	if c.onChange != nil {
		c.onChange(items)
	}
	return nil
}
