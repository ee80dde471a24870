package channel

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Broadcast is the direct strategy: Redis pub/sub on a shared named
// channel. Nothing is persisted; a context subscribed at publish time
// gets the payload, everyone else misses it.
type Broadcast struct {
	rdb  *redis.Client
	name string

	mu   sync.Mutex
	subs map[*redis.PubSub]struct{}
}

func NewBroadcast(rdb *redis.Client, name string) *Broadcast {
	return &Broadcast{rdb: rdb, name: name, subs: make(map[*redis.PubSub]struct{})}
}

func (b *Broadcast) Publish(ctx context.Context, payload []byte) error {
	return b.rdb.Publish(ctx, b.name, payload).Err()
}

func (b *Broadcast) Subscribe(h Handler) (func(), error) {
	ps := b.rdb.Subscribe(context.Background(), b.name)
	// force the SUBSCRIBE round-trip so the caller is really listening
	// once Subscribe returns
	if _, err := ps.Receive(context.Background()); err != nil {
		_ = ps.Close()
		return nil, err
	}

	b.mu.Lock()
	b.subs[ps] = struct{}{}
	b.mu.Unlock()

	go func() {
		for m := range ps.Channel() {
			h([]byte(m.Payload))
		}
	}()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, ps)
		b.mu.Unlock()
		_ = ps.Close()
	}
	return cancel, nil
}

func (b *Broadcast) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ps := range b.subs {
		_ = ps.Close()
	}
	b.subs = make(map[*redis.PubSub]struct{})
	return nil
}
