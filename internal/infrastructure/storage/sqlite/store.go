// internal/infrastructure/storage/sqlite/store.go
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/your-org/pos-companion/internal/config"
	"github.com/your-org/pos-companion/internal/infrastructure/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Blob is one named value in the embedded database. The receipt collection
// lives in a single row, mirroring the single-key storage contract.
type Blob struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Blob) TableName() string {
	return "blobs"
}

// Store implements the storage.KV contract on an embedded SQLite database
type Store struct {
	db *gorm.DB
}

// NewConnection opens (and if necessary creates) the embedded database
func NewConnection(cfg *config.Config) (*Store, error) {
	if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.IsDevelopment() {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(sqlite.Open(cfg.SQLite.Path), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate blobs table: %w", err)
	}

	log.Printf("✅ SQLite storage ready at %s", cfg.SQLite.Path)

	return &Store{db: db}, nil
}

// Get retrieves a value by key
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var blob Blob
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", storage.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return blob.Value, nil
}

// Set stores a key-value pair, replacing the whole value atomically
func (s *Store) Set(ctx context.Context, key, value string) error {
	blob := Blob{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			UpdateAll: true,
		}).
		Create(&blob).Error
}

// Delete deletes a key; deleting an absent key is not an error
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&Blob{}).Error
}

// Ping checks the database connection health
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
