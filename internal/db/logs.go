package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// AppendLog adds an entry to the activity log and evicts the oldest
// entries beyond models.MaxLogEntries.
func (db *DB) AppendLog(level models.LogLevel, message string, at time.Time) error {
	return db.Transaction(func(tx *DB) error {
		entry := models.LogEntry{Level: level, Message: message, At: at}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		return tx.Exec(
			"DELETE FROM activity_logs WHERE id NOT IN (SELECT id FROM activity_logs ORDER BY id DESC LIMIT ?)",
			models.MaxLogEntries,
		).Error
	})
}

// ListLogs returns up to limit entries, newest first. A non-positive
// limit returns the whole buffer.
func (db *DB) ListLogs(limit int) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	q := db.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&entries).Error
	return entries, err
}

// ClearLogs empties the activity log.
func (db *DB) ClearLogs() error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.LogEntry{}).Error
}
