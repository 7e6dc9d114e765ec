// Package sqlite implements a SQLite-based persistence driver using GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/MahdiBaghbani/feedclient-go/internal/store"
)

// FileName is the database file inside DataDir.
const FileName = "feedclient.db"

func init() {
	store.Register("sqlite", NewDriver)
}

// Entry is one stored key.
type Entry struct {
	Key       string `gorm:"primaryKey;column:entry_key"`
	Value     string
	UpdatedAt int64
}

// TableName pins the table name.
func (Entry) TableName() string { return "kv_entries" }

// Driver implements store.KVDriver using SQLite via GORM.
type Driver struct {
	dataDir string
	db      *gorm.DB
}

// NewDriver creates a new SQLite driver instance.
func NewDriver(cfg *store.DriverConfig) (store.KVDriver, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data_dir is required for sqlite driver")
	}

	return &Driver{
		dataDir: cfg.DataDir,
	}, nil
}

// Name returns the driver name.
func (d *Driver) Name() string {
	return "sqlite"
}

// Init opens the database and runs AutoMigrate.
func (d *Driver) Init(ctx context.Context) error {
	if err := os.MkdirAll(d.dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	dbPath := filepath.Join(d.dataDir, FileName)

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	d.db = db

	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (d *Driver) Close() error {
	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	d.db = nil
	return sqlDB.Close()
}

// Get returns the value for key.
func (d *Driver) Get(ctx context.Context, key string) (string, error) {
	if d.db == nil {
		return "", store.ErrClosed
	}
	var e Entry
	result := d.db.WithContext(ctx).First(&e, "entry_key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", store.ErrNotFound
		}
		return "", result.Error
	}
	return e.Value, nil
}

// Set upserts key.
func (d *Driver) Set(ctx context.Context, key, value string) error {
	if d.db == nil {
		return store.ErrClosed
	}
	e := Entry{Key: key, Value: value, UpdatedAt: time.Now().Unix()}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

// Delete removes key.
func (d *Driver) Delete(ctx context.Context, key string) error {
	if d.db == nil {
		return store.ErrClosed
	}
	return d.db.WithContext(ctx).Delete(&Entry{}, "entry_key = ?", key).Error
}
