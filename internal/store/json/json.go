// Package json implements a JSON file-based persistence driver.
// It uses atomic writes (temp file + fsync + rename) and in-process locking.
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/MahdiBaghbani/feedclient-go/internal/store"
)

// FileName is the data file inside DataDir.
const FileName = "store.json"

func init() {
	store.Register("json", NewDriver)
}

// Driver implements store.KVDriver using a single JSON file.
type Driver struct {
	dataDir string
	mu      sync.RWMutex
	closed  bool
	values  map[string]string
}

// NewDriver creates a new JSON driver instance.
func NewDriver(cfg *store.DriverConfig) (store.KVDriver, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data_dir is required for json driver")
	}

	return &Driver{
		dataDir: cfg.DataDir,
		values:  make(map[string]string),
	}, nil
}

// Name returns the driver name.
func (d *Driver) Name() string {
	return "json"
}

// Init creates the data directory and loads the data file if present.
func (d *Driver) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(d.dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	data, err := os.ReadFile(d.path())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	if err := json.Unmarshal(data, &d.values); err != nil {
		return fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if d.values == nil {
		d.values = make(map[string]string)
	}
	return nil
}

// Close releases resources.
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

// Set stores value and rewrites the file before returning.
// On write failure the in-memory state is rolled back.
func (d *Driver) Set(ctx context.Context, key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return store.ErrClosed
	}

	prev, had := d.values[key]
	d.values[key] = value
	if err := d.save(); err != nil {
		if had {
			d.values[key] = prev
		} else {
			delete(d.values, key)
		}
		return err
	}
	return nil
}

// Delete removes key and rewrites the file.
func (d *Driver) Delete(ctx context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return store.ErrClosed
	}

	prev, had := d.values[key]
	if !had {
		return nil
	}
	delete(d.values, key)
	if err := d.save(); err != nil {
		d.values[key] = prev
		return err
	}
	return nil
}

func (d *Driver) path() string {
	return filepath.Join(d.dataDir, FileName)
}

// save atomically writes the map to disk.
// Pattern: write to temp file, fsync, rename. Caller holds d.mu.
func (d *Driver) save() error {
	path := d.path()
	tempPath := path + ".tmp"

	jsonData, err := json.MarshalIndent(d.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(jsonData); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
