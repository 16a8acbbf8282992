// Package cache provides the per-run lookup caches used while building reports.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// FetchFunc loads a single entity from upstream.
type FetchFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Hook observes the cache contents after an insert. Hook errors are logged, never returned.
type Hook[K comparable, V any] func(items map[K]V) error

// Lazy is a write-once cache populated on first access. It is not safe for concurrent use.
type Lazy[K comparable, V any] struct {
	name  string
	fetch FetchFunc[K, V]
	items map[K]V
	hook  Hook[K, V]
}

// New creates an empty cache. name is used in errors and log records.
func New[K comparable, V any](name string, fetch func(ctx context.Context, key K) (V, error)) *Lazy[K, V] {
	return &Lazy[K, V]{
		name:  name,
		fetch: fetch,
		items: make(map[K]V),
	}
}

// OnInsert registers a hook invoked after every insert.
func (c *Lazy[K, V]) OnInsert(hook Hook[K, V]) {
	c.hook = hook
}

// Resolve returns the cached entity or fetches it once.
func (c *Lazy[K, V]) Resolve(ctx context.Context, key K) (V, error) {
	if v, ok := c.items[key]; ok {
		return v, nil
	}

	v, err := c.fetch(ctx, key)
	if err != nil {
		var zero V
		return zero, fmt.Errorf("resolve %s %v: %w", c.name, key, err)
	}
	c.items[key] = v
	c.notify()
	return v, nil
}

// Lookup returns a cached entity without fetching.
func (c *Lazy[K, V]) Lookup(key K) (V, bool) {
	v, ok := c.items[key]
	return v, ok
}

// Seed stores entities fetched in bulk. Keys already cached keep their first value.
func (c *Lazy[K, V]) Seed(items map[K]V) {
	added := 0
	for k, v := range items {
		if _, ok := c.items[k]; ok {
			continue
		}
		c.items[k] = v
		added++
	}
	if added > 0 {
		c.notify()
	}
}

// Len returns the number of cached entities.
func (c *Lazy[K, V]) Len() int {
	return len(c.items)
}

func (c *Lazy[K, V]) notify() {
	if c.hook == nil {
		return
	}
	if err := c.hook(c.items); err != nil {
		slog.Warn("cache hook failed", "cache", c.name, "error", err)
	}
}

// JSONSnapshot returns a hook that overwrites path with the full cache contents.
func JSONSnapshot[K comparable, V any](path string) Hook[K, V] {
	return func(items map[K]V) error {
		data, err := json.MarshalIndent(items, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write snapshot '%s': %w", path, err)
		}
		return nil
	}
}
