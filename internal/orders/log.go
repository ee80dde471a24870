package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pamlee/go-storefront/internal/channel"
	"github.com/pamlee/go-storefront/internal/store"
)

const timelineDateFormat = "2006-01-02 15:04:05"

var ErrStatusNotAllowed = errors.New("orders: status not allowed")

// Log is the append-only order collection, persisted newest-first
// under a single store key. Every read re-fetches and every mutation
// writes the whole collection back; across contexts the last full
// write wins (there is no compare-and-swap to do better with).
type Log struct {
	st      store.Store
	ch      channel.Channel
	allowed map[string]bool // nil: any status value accepted
}

type LogOption func(*Log)

// WithAllowedStatuses restricts Update to the given status values.
// Without it the status set is open, as a single-operator storefront
// wants it.
func WithAllowedStatuses(statuses ...string) LogOption {
	return func(l *Log) {
		l.allowed = make(map[string]bool, len(statuses))
		for _, s := range statuses {
			l.allowed[s] = true
		}
	}
}

func NewLog(st store.Store, ch channel.Channel, opts ...LogOption) *Log {
	l := &Log{st: st, ch: ch}
	for _, o := range opts {
		o(l)
	}
	return l
}

// All returns the persisted collection, newest first. An absent key or
// corrupt payload reads as empty. The store has no schema enforcement,
// so garbage is tolerated, not propagated.
func (l *Log) All(ctx context.Context) ([]Order, error) {
	raw, ok, err := l.st.Get(ctx, store.KeyOrders)
	if err != nil {
		return nil, fmt.Errorf("orders: read collection: %w", err)
	}
	if !ok {
		return []Order{}, nil
	}
	var all []Order
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		log.Warn().Err(err).Msg("order collection corrupt, resetting to empty")
		return []Order{}, nil
	}
	return all, nil
}

// Get looks an order up by tracker id. A missing id is (nil, nil),
// never an error.
func (l *Log) Get(ctx context.Context, trackerID string) (*Order, error) {
	all, err := l.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].TrackerID == trackerID {
			return &all[i], nil
		}
	}
	return nil, nil
}

// Create assigns the placement timeline entry, prepends o to the
// collection, persists, and broadcasts new_order. A persistence
// failure is surfaced to the caller; the broadcast is best-effort.
func (l *Log) Create(ctx context.Context, o *Order) error {
	all, err := l.All(ctx)
	if err != nil {
		return err
	}

	o.Timeline = []TimelineEntry{{
		Date:    time.Now().Format(timelineDateFormat),
		Message: "Order placed successfully.",
	}}

	all = append([]Order{*o}, all...)
	if err := l.persist(ctx, all); err != nil {
		return err
	}

	l.publish(ctx, Event{Type: EventNewOrder, Order: o})
	log.Info().Str("tracker_id", o.TrackerID).Int("total_cents", o.TotalCents).Msg("order placed")
	return nil
}

// Update sets a new status on the order with the given tracker id,
// stamps UpdatedAt, appends a timeline entry (note, or a generated
// message when note is empty), persists, and broadcasts update_order.
// An unknown tracker id is a silent no-op: the caller owns id validity.
func (l *Log) Update(ctx context.Context, trackerID, newStatus, note string) error {
	if l.allowed != nil && !l.allowed[newStatus] {
		return fmt.Errorf("%w: %q", ErrStatusNotAllowed, newStatus)
	}

	all, err := l.All(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range all {
		if all[i].TrackerID == trackerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	all[idx].Status = newStatus
	all[idx].UpdatedAt = time.Now().UnixMilli()
	msg := note
	if msg == "" {
		msg = fmt.Sprintf("Order status updated to %q", newStatus)
	}
	all[idx].Timeline = append(all[idx].Timeline, TimelineEntry{
		Date:    time.Now().Format(timelineDateFormat),
		Message: msg,
	})

	if err := l.persist(ctx, all); err != nil {
		return err
	}

	l.publish(ctx, Event{Type: EventUpdateOrder, TrackerID: trackerID, Status: newStatus})
	log.Info().Str("tracker_id", trackerID).Str("status", newStatus).Msg("order updated")
	return nil
}

func (l *Log) persist(ctx context.Context, all []Order) error {
	b, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("orders: encode collection: %w", err)
	}
	if err := l.st.Set(ctx, store.KeyOrders, string(b)); err != nil {
		return fmt.Errorf("orders: persist collection: %w", err)
	}
	return nil
}

func (l *Log) publish(ctx context.Context, ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := l.ch.Publish(ctx, b); err != nil {
		log.Warn().Err(err).Str("type", ev.Type).Msg("event publish failed, other contexts will refresh late")
	}
}
