package channel

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pamlee/go-storefront/internal/store"
)

// envelope is the transient record the fallback strategy writes to its
// well-known store key. T is bumped monotonically so repeated identical
// payloads still read as a change; Origin identifies the writing
// context so it can skip its own writes.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	T      int64           `json:"t"`
	Origin string          `json:"origin"`
}

// Fallback is the storage-event strategy: publish overwrites one
// well-known key, subscribers in other contexts observe the change by
// polling. The context that wrote an envelope is never re-notified of
// it. That mirrors the platform primitive this strategy stands in for,
// so same-context subscribers must not rely on seeing their own
// publishes.
type Fallback struct {
	st       store.Store
	key      string
	origin   string
	interval time.Duration

	mu       sync.Mutex
	handlers map[int]Handler
	nextID   int
	lastPub  int64
	seen     int64 // poller progress, only the poll goroutine advances it
	started  bool
	stop     chan struct{}
}

type FallbackOption func(*Fallback)

// WithPollInterval shortens or stretches the change-detection poll.
func WithPollInterval(d time.Duration) FallbackOption {
	return func(f *Fallback) { f.interval = d }
}

func NewFallback(st store.Store, key string, opts ...FallbackOption) *Fallback {
	f := &Fallback{
		st:       st,
		key:      key,
		origin:   uuid.NewString(),
		interval: 200 * time.Millisecond,
		handlers: make(map[int]Handler),
		stop:     make(chan struct{}),
	}
	for _, o := range opts {
		o(f)
	}
	// An envelope already persisted when this context starts is stale;
	// baseline past it so it is never replayed.
	if env, ok := f.read(context.Background()); ok {
		f.seen = env.T
	}
	return f
}

func (f *Fallback) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	t := time.Now().UnixNano()
	if t <= f.lastPub {
		t = f.lastPub + 1
	}
	f.lastPub = t
	f.mu.Unlock()

	b, err := json.Marshal(envelope{Data: payload, T: t, Origin: f.origin})
	if err != nil {
		return err
	}
	return f.st.Set(ctx, f.key, string(b))
}

func (f *Fallback) Subscribe(h Handler) (func(), error) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = h
	if !f.started {
		f.started = true
		go f.poll()
	}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}
	return cancel, nil
}

func (f *Fallback) poll() {
	ctx := context.Background()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-f.stop:
			return
		case <-ticker.C:
		}

		env, ok := f.read(ctx)
		if !ok || env.T == f.seen {
			continue
		}
		f.seen = env.T
		if env.Origin == f.origin {
			continue
		}

		f.mu.Lock()
		hs := make([]Handler, 0, len(f.handlers))
		for _, h := range f.handlers {
			hs = append(hs, h)
		}
		f.mu.Unlock()
		for _, h := range hs {
			h(env.Data)
		}
	}
}

func (f *Fallback) read(ctx context.Context) (envelope, bool) {
	raw, ok, err := f.st.Get(ctx, f.key)
	if err != nil || !ok {
		return envelope{}, false
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return envelope{}, false
	}
	return env, true
}

func (f *Fallback) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		select {
		case <-f.stop:
		default:
			close(f.stop)
		}
	}
	f.handlers = make(map[int]Handler)
	return nil
}
