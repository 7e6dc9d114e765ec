package json_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MahdiBaghbani/feedclient-go/internal/store"
	storejson "github.com/MahdiBaghbani/feedclient-go/internal/store/json"
	"github.com/MahdiBaghbani/feedclient-go/internal/store/testutil"
)

func TestJSONDriver(t *testing.T) {
	tempDir := t.TempDir()
	cfg := &store.DriverConfig{
		Driver:  "json",
		DataDir: tempDir,
	}

	testutil.RunDriverTests(t, "json", cfg)

	if _, err := os.Stat(filepath.Join(tempDir, storejson.FileName)); os.IsNotExist(err) {
		t.Error("store.json not created")
	}
}

func TestJSONDriverSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := &store.DriverConfig{Driver: "json", DataDir: t.TempDir()}

	d1, err := store.Open(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	v := "abc"
	if err := store.NewTokenStore(d1).Save(ctx, &v); err != nil {
		t.Fatal(err)
	}
	d1.Close()

	d2, err := store.Open(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer d2.Close()

	got, err := store.NewTokenStore(d2).Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || *got != v {
		t.Errorf("expected %q after restart, got %v", v, got)
	}
}

func TestJSONDriverCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, storejson.FileName), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err := store.Open(context.Background(), &store.DriverConfig{Driver: "json", DataDir: dir})
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestJSONDriverNoTempFileLeft(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	d, err := store.Open(ctx, &store.DriverConfig{Driver: "json", DataDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if err := d.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, storejson.FileName+".tmp")); !os.IsNotExist(err) {
		t.Error("temp file should have been renamed")
	}
}
