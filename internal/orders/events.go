package orders

import (
	"encoding/json"

	"github.com/pamlee/go-storefront/internal/channel"
)

const (
	EventNewOrder    = "new_order"
	EventUpdateOrder = "update_order"
)

// Event is the wire shape published on the notification channel.
// new_order carries the full order; update_order carries only the
// tracker id and the new status (the timeline is persisted, never
// broadcast).
type Event struct {
	Type      string `json:"type"`
	Order     *Order `json:"order,omitempty"`
	TrackerID string `json:"trackerId,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Listen decodes channel payloads into typed events. Payloads that are
// not order events are dropped, as is a new_order missing its order:
// the fallback key is shared and schema-less, so malformed events are
// tolerated, never handed to subscribers. The returned cancel func
// stops delivery.
func Listen(ch channel.Channel, cb func(Event)) (func(), error) {
	return ch.Subscribe(func(payload []byte) {
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			return
		}
		if ev.Type != EventNewOrder && ev.Type != EventUpdateOrder {
			return
		}
		if ev.Type == EventNewOrder && ev.Order == nil {
			return
		}
		cb(ev)
	})
}
