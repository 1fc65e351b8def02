package history

import (
	"context"
	"errors"
)

type resolved[V any] struct {
	value V
	found bool
}

// Cache memoizes id lookups for a single aggregation pass. Found and
// not-found results are both kept; any other lookup error is returned to
// the caller and the key stays unresolved. A Cache is not safe for
// concurrent use and must not be shared between passes.
type Cache[K comparable, V any] struct {
	lookup   func(ctx context.Context, key K) (V, error)
	notFound error
	entries  map[K]resolved[V]
}

func NewCache[K comparable, V any](
	lookup func(ctx context.Context, key K) (V, error),
	notFound error,
) *Cache[K, V] {
	return &Cache[K, V]{
		lookup:   lookup,
		notFound: notFound,
		entries:  make(map[K]resolved[V]),
	}
}

func (c *Cache[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	if r, ok := c.entries[key]; ok {
		return r.value, r.found, nil
	}

	var zero V
	v, err := c.lookup(ctx, key)
	switch {
	case err == nil:
		c.entries[key] = resolved[V]{value: v, found: true}
		return v, true, nil
	case errors.Is(err, c.notFound):
		c.entries[key] = resolved[V]{}
		return zero, false, nil
	default:
		return zero, false, err
	}
}

func (c *Cache[K, V]) Len() int {
	return len(c.entries)
}
