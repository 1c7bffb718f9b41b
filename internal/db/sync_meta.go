package db

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// GetSyncMeta retrieves a sync metadata value.
func (db *DB) GetSyncMeta(key string) (string, error) {
	var meta models.SyncMeta
	err := db.First(&meta, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetSyncMeta sets a sync metadata value.
func (db *DB) SetSyncMeta(key, value string) error {
	meta := models.SyncMeta{Key: key, Value: value}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&meta).Error
}

// GetSyncTime reads an RFC 3339 timestamp stored under key.
// Returns nil when the key is unset.
func (db *DB) GetSyncTime(key string) (*time.Time, error) {
	value, err := db.GetSyncMeta(key)
	if err != nil || value == "" {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SetSyncTime stores t under key as an RFC 3339 timestamp.
func (db *DB) SetSyncTime(key string, t time.Time) error {
	return db.SetSyncMeta(key, t.UTC().Format(time.RFC3339Nano))
}

// ProgressDirty reports whether committed solutions are missing from the
// published progress documents.
func (db *DB) ProgressDirty() (bool, error) {
	value, err := db.GetSyncMeta(models.SyncMetaProgressDirty)
	if err != nil {
		return false, err
	}
	return value == "1", nil
}

// SetProgressDirty records whether progress needs to be republished.
func (db *DB) SetProgressDirty(dirty bool) error {
	value := ""
	if dirty {
		value = "1"
	}
	return db.SetSyncMeta(models.SyncMetaProgressDirty, value)
}

// GetOrCreateTrackingID returns the persistent anonymous telemetry id,
// creating one if it doesn't exist. On any error, it falls back to a
// per-session id.
func (db *DB) GetOrCreateTrackingID() string {
	id, err := db.GetSyncMeta(models.SyncMetaTrackingID)
	if err == nil && id != "" {
		return id
	}

	id = uuid.New().String()
	if err == nil {
		// Even if save fails, the generated id serves this session.
		_ = db.SetSyncMeta(models.SyncMetaTrackingID, id)
	}
	return id
}
