package store

import "context"

// Store is the origin-scoped key/value layer the order log and cart
// live on. Values are raw serialized strings; callers own encoding.
// There are no transactions and no compare-and-swap: concurrent
// writers race and the last full write wins.
type Store interface {
	// Get returns the raw value for key. An absent key is (_, false, nil),
	// not an error; callers treat it as an empty collection.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites key with raw. The write is visible to subsequent
	// reads in this context immediately and to other contexts eventually.
	Set(ctx context.Context, key, raw string) error
}
