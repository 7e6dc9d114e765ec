// Package redis implements a Redis/Valkey persistence driver.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MahdiBaghbani/feedclient-go/internal/platform/cfg"
	"github.com/MahdiBaghbani/feedclient-go/internal/store"
)

func init() {
	store.Register("redis", NewDriver)
}

// Config holds Redis connection settings from [store.drivers.redis].
type Config struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "feedclient:"
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Driver implements store.KVDriver over a go-redis client.
// Values are stored without expiry.
type Driver struct {
	cfg    Config
	client *goredis.Client
}

// NewDriver creates a new Redis driver instance.
func NewDriver(dc *store.DriverConfig) (store.KVDriver, error) {
	var c Config
	if err := cfg.DecodeStrict(dc.Options, &c); err != nil {
		return nil, fmt.Errorf("redis driver config: %w", err)
	}
	return &Driver{cfg: c}, nil
}

// Name returns the driver name.
func (d *Driver) Name() string {
	return "redis"
}

// Init connects and pings the server.
func (d *Driver) Init(ctx context.Context) error {
	d.client = goredis.NewClient(&goredis.Options{
		Addr:         d.cfg.Addr,
		Password:     d.cfg.Password,
		DB:           d.cfg.DB,
		DialTimeout:  d.cfg.DialTimeout,
		ReadTimeout:  d.cfg.ReadTimeout,
		WriteTimeout: d.cfg.WriteTimeout,
	})
	if err := d.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", d.cfg.Addr, err)
	}
	return nil
}

// Close closes the client.
func (d *Driver) Close() error {
	if d.client == nil {
		return nil
	}
	c := d.client
	d.client = nil
	return c.Close()
}

// Get returns the value for key.
func (d *Driver) Get(ctx context.Context, key string) (string, error) {
	if d.client == nil {
		return "", store.ErrClosed
	}
	v, err := d.client.Get(ctx, d.cfg.KeyPrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Set stores value under key.
func (d *Driver) Set(ctx context.Context, key, value string) error {
	if d.client == nil {
		return store.ErrClosed
	}
	return d.client.Set(ctx, d.cfg.KeyPrefix+key, value, 0).Err()
}

// Delete removes key.
func (d *Driver) Delete(ctx context.Context, key string) error {
	if d.client == nil {
		return store.ErrClosed
	}
	return d.client.Del(ctx, d.cfg.KeyPrefix+key).Err()
}
