package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindfeed/internal/observability"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqlBackend = "sql"

// slotRecord is one row of the storage_slots table.
type slotRecord struct {
	Slot      string `gorm:"primaryKey;size:128"`
	Data      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (slotRecord) TableName() string {
	return "storage_slots"
}

// SQLStorage keeps slots in a relational table through gorm.
type SQLStorage struct {
	db *gorm.DB
}

// OpenSQLStorage opens driver ("sqlite" or "postgres") at dsn and migrates
// the slot table.
func OpenSQLStorage(driver, dsn string) (*SQLStorage, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.AutoMigrate(&slotRecord{}); err != nil {
		return nil, fmt.Errorf("migrate storage_slots: %w", err)
	}
	return NewSQLStorage(db), nil
}

// NewSQLStorage wraps an already migrated gorm handle.
func NewSQLStorage(db *gorm.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

func (s *SQLStorage) Load(ctx context.Context, slot string) ([]byte, error) {
	span, ctx := observability.StartSlotSpan(ctx, sqlBackend, "load", slot)
	defer span.End()

	var rec slotRecord
	err := s.db.WithContext(ctx).Where("slot = ?", slot).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("sql load %s: %w", slot, err)
	}
	return []byte(rec.Data), nil
}

func (s *SQLStorage) Save(ctx context.Context, slot string, data []byte) error {
	span, ctx := observability.StartSlotSpan(ctx, sqlBackend, "save", slot)
	defer span.End()

	rec := slotRecord{Slot: slot, Data: string(data), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("sql save %s: %w", slot, err)
	}
	return nil
}

func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
