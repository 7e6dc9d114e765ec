// Package testutil provides shared test helpers for store driver tests.
package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/MahdiBaghbani/feedclient-go/internal/store"
)

// RunDriverTests runs the standard test suite against a driver.
func RunDriverTests(t *testing.T, driverName string, cfg *store.DriverConfig) {
	ctx := context.Background()

	driver, err := store.New(cfg)
	if err != nil {
		t.Fatalf("failed to create %s driver: %v", driverName, err)
	}
	defer driver.Close()

	if err := driver.Init(ctx); err != nil {
		t.Fatalf("failed to init %s driver: %v", driverName, err)
	}

	if driver.Name() != driverName {
		t.Errorf("expected driver name %q, got %q", driverName, driver.Name())
	}

	t.Run("KV", func(t *testing.T) {
		testKV(t, ctx, driver)
	})

	t.Run("TokenStore", func(t *testing.T) {
		testTokenStore(t, ctx, driver)
	})
}

func testKV(t *testing.T, ctx context.Context, kv store.KV) {
	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := kv.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "v1" {
		t.Errorf("expected v1, got %q", got)
	}

	// Overwrite
	if err := kv.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}
	if got, _ := kv.Get(ctx, "k"); got != "v2" {
		t.Errorf("expected v2 after overwrite, got %q", got)
	}

	// Empty values are values, not absence.
	if err := kv.Set(ctx, "empty", ""); err != nil {
		t.Fatalf("Set empty failed: %v", err)
	}
	if got, err := kv.Get(ctx, "empty"); err != nil || got != "" {
		t.Errorf("expected empty value, got %q err=%v", got, err)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete should succeed, got %v", err)
	}
}

func testTokenStore(t *testing.T, ctx context.Context, kv store.KV) {
	ts := store.NewTokenStore(kv)

	tok, err := ts.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tok != nil {
		t.Fatalf("expected no token, got %q", *tok)
	}

	value := "tok-123"
	if err := ts.Save(ctx, &value); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	tok, err = ts.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tok == nil || *tok != value {
		t.Fatalf("expected %q, got %v", value, tok)
	}

	if err := ts.Save(ctx, nil); err != nil {
		t.Fatalf("Save(nil) failed: %v", err)
	}
	if tok, _ := ts.Load(ctx); tok != nil {
		t.Errorf("expected token cleared, got %q", *tok)
	}
}
