package asset

import (
	"context"
	"errors"
	"sync"

	"github.com/san-kum/arduck/internal/scene"
)

// Cache loads each source once and hands out independent clones, so many
// scenes can share one fetch.
type Cache struct {
	loader  *Loader
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	mu   sync.Mutex
	done bool
	tpl  *scene.Template
	err  error
}

func NewCache(l *Loader) *Cache {
	return &Cache{loader: l, entries: make(map[string]*cacheEntry)}
}

// Load returns a fresh instance of the cached model. A failed load is
// cached too and there is no retry, except when the caller's context ended:
// that failure belongs to the caller, and the next caller loads again.
func (c *Cache) Load(ctx context.Context, source string) (*scene.Mesh, error) {
	c.mu.Lock()
	e, ok := c.entries[source]
	if !ok {
		e = &cacheEntry{}
		c.entries[source] = e
	}
	c.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.done {
		m, err := c.loader.Load(ctx, source)
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, err
		}
		e.done = true
		if err != nil {
			e.err = err
		} else {
			e.tpl = scene.NewTemplate(m)
		}
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.tpl.Instance(), nil
}
