package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/MahdiBaghbani/feedclient-go/internal/store"
	storeredis "github.com/MahdiBaghbani/feedclient-go/internal/store/redis"
	"github.com/MahdiBaghbani/feedclient-go/internal/store/testutil"
)

func TestRedisDriver(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &store.DriverConfig{
		Driver:  "redis",
		Options: map[string]any{"addr": mr.Addr()},
	}

	testutil.RunDriverTests(t, "redis", cfg)
}

func TestRedisDriverKeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	d, err := store.Open(ctx, &store.DriverConfig{
		Driver:  "redis",
		Options: map[string]any{"addr": mr.Addr(), "key_prefix": "app1:"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if err := d.Set(ctx, store.TokenKey, "tok"); err != nil {
		t.Fatal(err)
	}
	got, err := mr.Get("app1:" + store.TokenKey)
	if err != nil {
		t.Fatalf("prefixed key missing: %v", err)
	}
	if got != "tok" {
		t.Errorf("expected tok, got %q", got)
	}
	if mr.TTL("app1:"+store.TokenKey) != 0 {
		t.Error("token should not expire")
	}
}

func TestConfigDefaults(t *testing.T) {
	var c storeredis.Config
	c.ApplyDefaults()
	if c.Addr != "localhost:6379" {
		t.Errorf("unexpected addr %q", c.Addr)
	}
	if c.KeyPrefix != "feedclient:" {
		t.Errorf("unexpected prefix %q", c.KeyPrefix)
	}
	if c.DialTimeout != 5*time.Second {
		t.Errorf("unexpected dial timeout %v", c.DialTimeout)
	}
}

func TestNewDriverRejectsUnknownOptions(t *testing.T) {
	_, err := storeredis.NewDriver(&store.DriverConfig{
		Driver:  "redis",
		Options: map[string]any{"adress": "typo:6379"},
	})
	if err == nil {
		t.Fatal("expected error for unknown option")
	}
}

func TestNewDriverDurationStrings(t *testing.T) {
	mr := miniredis.RunT(t)
	d, err := store.Open(context.Background(), &store.DriverConfig{
		Driver:  "redis",
		Options: map[string]any{"addr": mr.Addr(), "read_timeout": "250ms", "db": 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	d.Close()
}
