package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DriverConfig holds configuration for driver selection and initialization.
type DriverConfig struct {
	// Driver is the driver name: json, sqlite, redis, memory
	Driver string

	// DataDir is the directory for data files (json file, sqlite db)
	DataDir string

	// Options holds driver-specific settings from [store.drivers.<name>].
	Options map[string]any
}

// DriverFactory is a function that creates a driver instance.
type DriverFactory func(cfg *DriverConfig) (KVDriver, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]DriverFactory)
)

// Register registers a driver factory by name.
// This is typically called from init() in driver packages.
func Register(name string, factory DriverFactory) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = factory
}

// New creates a driver instance based on the configuration.
func New(cfg *DriverConfig) (KVDriver, error) {
	driversMu.RLock()
	factory, ok := drivers[cfg.Driver]
	driversMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}

	return factory(cfg)
}

// Open creates and initializes a driver. The caller owns Close.
func Open(ctx context.Context, cfg *DriverConfig) (KVDriver, error) {
	d, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := d.Init(ctx); err != nil {
		d.Close()
		return nil, fmt.Errorf("init %s driver: %w", cfg.Driver, err)
	}
	return d, nil
}

// AvailableDrivers returns the sorted list of registered driver names.
func AvailableDrivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
