// Package session persists the client's current session handle.
package session

import (
	"fmt"
	"sync"

	"github.com/jandrly/kancl/internal/client/storage"
)

// StorageKey is where the session id lives in the client store.
const StorageKey = "kancl_session_id"

// Cache holds at most one session id. It knows nothing about expiry; the
// server decides whether an id is still good.
type Cache struct {
	mu        sync.RWMutex
	store     storage.Store
	id        string
	listeners []func(id string)
}

// NewCache loads the stored id, if any.
func NewCache(store storage.Store) (*Cache, error) {
	id, _, err := store.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load session id: %w", err)
	}
	return &Cache{store: store, id: id}, nil
}

// Get returns the cached id or "".
func (c *Cache) Get() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Set stores id. An empty id removes the stored value.
func (c *Cache) Set(id string) error {
	c.mu.Lock()
	var err error
	if id == "" {
		err = c.store.Remove(StorageKey)
	} else {
		err = c.store.Set(StorageKey, id)
	}
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("persist session id: %w", err)
	}

	changed := c.id != id
	c.id = id
	listeners := append([]func(string){}, c.listeners...)
	c.mu.Unlock()

	if changed {
		for _, fn := range listeners {
			fn(id)
		}
	}
	return nil
}

// Clear removes the id.
func (c *Cache) Clear() error {
	return c.Set("")
}

// OnChange registers fn to run after every change of the cached id. fn runs
// on the goroutine that made the change.
func (c *Cache) OnChange(fn func(id string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}
