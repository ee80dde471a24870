package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pamlee/go-storefront/internal/cart"
	"github.com/pamlee/go-storefront/internal/orders"
	"github.com/pamlee/go-storefront/internal/store"
)

var (
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrUnknownChoice marks a payment or fulfilment value outside the
	// offered options; the caller's input, not a server fault.
	ErrUnknownChoice = errors.New("checkout: unknown choice")
)

// Receipt is what the customer keeps after a successful checkout.
type Receipt struct {
	TrackerID  string `json:"trackerId"`
	TotalCents int    `json:"total"`
}

// Orchestrator turns a cart snapshot plus the customer's payment and
// fulfilment choices into a finalized order on the log.
type Orchestrator struct {
	Cart             *cart.Cart
	Log              *orders.Log
	Store            store.Store // session record, read-only
	DeliveryFeeCents int
	GuestEmail       string
}

// Begin validates that there is something to check out. The caller
// then collects payment and fulfilment choices and calls Finalize.
func (o *Orchestrator) Begin(ctx context.Context) ([]cart.Item, error) {
	items, err := o.Cart.Items(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return items, nil
}

// Finalize computes totals, builds the order, hands it to the log and
// clears the cart. A persistence failure while creating the order is
// terminal for this attempt and comes back as an error; there is no
// retry.
func (o *Orchestrator) Finalize(ctx context.Context, pay orders.PaymentMethod, ful orders.Fulfilment) (*Receipt, error) {
	if !pay.Valid() {
		return nil, fmt.Errorf("%w: payment method %q", ErrUnknownChoice, pay)
	}
	if !ful.Valid() {
		return nil, fmt.Errorf("%w: fulfilment %q", ErrUnknownChoice, ful)
	}

	items, err := o.Begin(ctx)
	if err != nil {
		return nil, err
	}

	subtotal := 0
	lines := make([]orders.LineItem, 0, len(items))
	for _, it := range items {
		subtotal += it.PriceCents * it.Quantity
		lines = append(lines, orders.LineItem{
			ID:         it.ID,
			Name:       it.Name,
			PriceCents: it.PriceCents,
			Image:      it.Image,
			Quantity:   it.Quantity,
		})
	}

	fee := 0
	if ful == orders.FulfilmentDelivery {
		fee = o.DeliveryFeeCents
	}

	order := &orders.Order{
		TrackerID:        orders.GenerateTrackerID(),
		UserEmail:        o.sessionEmail(ctx),
		Items:            lines,
		SubtotalCents:    subtotal,
		DeliveryFeeCents: fee,
		TotalCents:       subtotal + fee,
		PaymentMethod:    pay,
		Fulfilment:       ful,
		Status:           orders.StatusPlaced,
		PlacedAt:         time.Now().UnixMilli(),
	}

	if err := o.Log.Create(ctx, order); err != nil {
		return nil, err
	}

	// The order is already placed at this point; a cart that failed to
	// clear is recoverable by the customer, so it does not fail the
	// checkout.
	if err := o.Cart.Clear(ctx); err != nil {
		log.Warn().Err(err).Str("tracker_id", order.TrackerID).Msg("cart clear failed after checkout")
	}

	return &Receipt{TrackerID: order.TrackerID, TotalCents: order.TotalCents}, nil
}

// sessionEmail reads the session record; no session means the guest
// sentinel address.
func (o *Orchestrator) sessionEmail(ctx context.Context) string {
	raw, ok, err := o.Store.Get(ctx, store.KeySession)
	if err != nil || !ok {
		return o.GuestEmail
	}
	var session struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal([]byte(raw), &session); err != nil || session.Email == "" {
		return o.GuestEmail
	}
	return session.Email
}
