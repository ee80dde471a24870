package channel

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/pamlee/go-storefront/internal/store"
)

// Handler receives the raw published payload. Delivery is best-effort:
// no acknowledgement, no ordering guarantee across strategies, and no
// delivery at all to handlers registered after the publish.
type Handler func(payload []byte)

// Channel is same-origin fire-and-forget publish/subscribe between
// contexts. The durable store stays the source of truth; callers may
// only lean on the channel for responsiveness, never for correctness.
type Channel interface {
	Publish(ctx context.Context, payload []byte) error
	// Subscribe registers h and returns a cancel func that stops
	// further deliveries to it.
	Subscribe(h Handler) (func(), error)
	Close() error
}

// New probes capabilities once at startup: the direct broadcast
// primitive when Redis answers, the storage-event fallback when only a
// store is at hand, and a no-op channel otherwise.
func New(ctx context.Context, rdb *redis.Client, st store.Store, name string) Channel {
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err == nil {
			return NewBroadcast(rdb, name)
		}
		log.Warn().Str("channel", name).Msg("broadcast primitive unavailable, trying storage fallback")
	}
	if st != nil {
		return NewFallback(st, store.KeyOrdersEvent)
	}
	log.Warn().Str("channel", name).Msg("no channel primitive available, events disabled")
	return Noop{}
}
