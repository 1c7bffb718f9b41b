package db

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// ListQueue returns every pending item in insertion order.
func (db *DB) ListQueue() ([]models.QueueItem, error) {
	var items []models.QueueItem
	err := db.Order("seq ASC").Find(&items).Error
	return items, err
}

// GetQueueItem retrieves a queue item by id. Returns nil if not found.
func (db *DB) GetQueueItem(id string) (*models.QueueItem, error) {
	var item models.QueueItem
	err := db.First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// FindQueueItem returns the pending item for (slug, language), or nil.
func (db *DB) FindQueueItem(slug, language string) (*models.QueueItem, error) {
	var item models.QueueItem
	err := db.Where("slug = ? AND language = ?", slug, language).Order("seq ASC").First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// InsertQueueItem appends an item to the queue.
func (db *DB) InsertQueueItem(item *models.QueueItem) error {
	return db.Create(item).Error
}

// DeleteQueueItem removes an item by id. Deleting a missing item is not an error.
func (db *DB) DeleteQueueItem(id string) error {
	return db.Where("id = ?", id).Delete(&models.QueueItem{}).Error
}

// RecordQueueFailure stores retry bookkeeping for an item.
func (db *DB) RecordQueueFailure(id string, retries int, attemptedAt time.Time, lastErr string) error {
	return db.Model(&models.QueueItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"retries":      retries,
		"last_attempt": attemptedAt,
		"last_error":   truncate(lastErr, 1000),
	}).Error
}

// CountQueue returns the number of pending items.
func (db *DB) CountQueue() (int64, error) {
	var count int64
	err := db.Model(&models.QueueItem{}).Count(&count).Error
	return count, err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
