package channel

import "context"

// Noop is the degraded channel: neither primitive is available, so
// publish and subscribe silently do nothing. Persistence still works,
// only cross-context refresh is lost.
type Noop struct{}

func (Noop) Publish(context.Context, []byte) error { return nil }

func (Noop) Subscribe(Handler) (func(), error) { return func() {}, nil }

func (Noop) Close() error { return nil }
