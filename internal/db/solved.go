package db

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// GetSolved retrieves the solved entry for slug. Returns nil if not found.
func (db *DB) GetSolved(slug string) (*models.SolvedEntry, error) {
	var entry models.SolvedEntry
	err := db.First(&entry, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// UpsertSolved inserts or overwrites the solved entry for entry.Slug.
func (db *DB) UpsertSolved(entry *models.SolvedEntry) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		UpdateAll: true,
	}).Create(entry).Error
}

// ListSolved returns the whole solved-set ordered by slug.
func (db *DB) ListSolved() ([]models.SolvedEntry, error) {
	var entries []models.SolvedEntry
	err := db.Order("slug ASC").Find(&entries).Error
	return entries, err
}

// CompleteQueueItem records a confirmed remote write: the solved entry is
// upserted and the queue item removed in one transaction.
func (db *DB) CompleteQueueItem(itemID string, entry *models.SolvedEntry) error {
	return db.Transaction(func(tx *DB) error {
		if err := tx.UpsertSolved(entry); err != nil {
			return err
		}
		return tx.DeleteQueueItem(itemID)
	})
}
