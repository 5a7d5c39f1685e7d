// Package gormstore implements the session store over a gorm database.
// The sqlite and postgres backends wrap it via composition; the only
// driver-specific concern is opening the connection.
package gormstore

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meshsite/planner/pkg/core"
)

// SessionRow is the database row holding one session record.
type SessionRow struct {
	Slot    string         `gorm:"primaryKey;size:64"`
	Payload datatypes.JSON `gorm:"not null"`
	SavedAt time.Time      `gorm:"not null"`
}

// TableName overrides the gorm default.
func (SessionRow) TableName() string {
	return "planner_sessions"
}

// Backend stores the session record in a gorm-managed table.
type Backend struct {
	db   *gorm.DB
	slot string
}

// New creates a new gorm backend for the given slot.
func New(db *gorm.DB, slot string) *Backend {
	return &Backend{db: db, slot: slot}
}

// Init migrates the session table.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(&SessionRow{}); err != nil {
		return fmt.Errorf("migrating session table: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Write upserts the session row for the slot.
func (b *Backend) Write(payload []byte) error {
	row := SessionRow{
		Slot:    b.slot,
		Payload: datatypes.JSON(payload),
		SavedAt: time.Now(),
	}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "saved_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing session row: %w", err)
	}
	return nil
}

// Read returns the stored record.
func (b *Backend) Read() ([]byte, error) {
	var row SessionRow
	err := b.db.First(&row, "slot = ?", b.slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading session row: %w", err)
	}
	return []byte(row.Payload), nil
}

// Delete removes the stored record. Deleting an absent record is not
// an error.
func (b *Backend) Delete() error {
	err := b.db.Delete(&SessionRow{}, "slot = ?", b.slot).Error
	if err != nil {
		return fmt.Errorf("deleting session row: %w", err)
	}
	return nil
}

// Exists reports whether a record is stored.
func (b *Backend) Exists() (bool, error) {
	var count int64
	err := b.db.Model(&SessionRow{}).Where("slot = ?", b.slot).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("counting session rows: %w", err)
	}
	return count > 0, nil
}
