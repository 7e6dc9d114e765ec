// Package memory implements an in-process store driver.
// Values do not survive the process; it backs mock runs and tests.
package memory

import (
	"context"
	"sync"

	"github.com/MahdiBaghbani/feedclient-go/internal/store"
)

func init() {
	store.Register("memory", NewDriver)
}

// Driver implements store.KVDriver with a map.
type Driver struct {
	mu     sync.RWMutex
	closed bool
	values map[string]string
}

// NewDriver creates a new memory driver instance.
func NewDriver(_ *store.DriverConfig) (store.KVDriver, error) {
	return New(), nil
}

// New returns an empty, ready to use driver.
func New() *Driver {
	return &Driver{values: make(map[string]string)}
}

// Name returns the driver name.
func (d *Driver) Name() string { return "memory" }

// Init is a no-op.
func (d *Driver) Init(ctx context.Context) error { return nil }

// Close marks the driver closed.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Get returns the value for key.
func (d *Driver) Get(ctx context.Context, key string) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return "", store.ErrClosed
	}
	v, ok := d.values[key]
	if !ok {
		return "", store.ErrNotFound
	}
	return v, nil
}

// Set stores value under key.
func (d *Driver) Set(ctx context.Context, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return store.ErrClosed
	}
	d.values[key] = value
	return nil
}

// Delete removes key.
func (d *Driver) Delete(ctx context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return store.ErrClosed
	}
	delete(d.values, key)
	return nil
}
