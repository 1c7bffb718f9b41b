// Package models defines the core data structures for solvesync.
package models

import (
	"time"
)

// QueueItem is one pending submission awaiting a remote commit.
type QueueItem struct {
	Seq uint   `gorm:"primaryKey;autoIncrement" json:"seq"` // insertion order
	ID  string `gorm:"uniqueIndex;size:64" json:"id"`

	// Problem identity
	Slug       string `gorm:"size:200;index:idx_queue_slug_lang" json:"slug"`
	Title      string `gorm:"size:255" json:"title"`
	Category   string `gorm:"size:100" json:"category,omitempty"`
	ListName   string `gorm:"size:200" json:"list_name,omitempty"`
	Difficulty string `gorm:"size:20" json:"difficulty,omitempty"`

	// Solution
	Language    string `gorm:"size:50;index:idx_queue_slug_lang" json:"language"`
	Code        string `gorm:"type:text" json:"code"`
	Runtime     string `gorm:"size:50" json:"runtime,omitempty"`
	Memory      string `gorm:"size:50" json:"memory,omitempty"`
	Source      string `gorm:"size:20" json:"source"`
	Fingerprint string `gorm:"size:64" json:"fingerprint"`

	At         time.Time  `json:"at"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`

	// Retry bookkeeping
	Retries     int        `gorm:"default:0" json:"retries"`
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
	LastError   string     `gorm:"size:1000" json:"last_error,omitempty"`
}

// TableName specifies the table name for GORM.
func (QueueItem) TableName() string {
	return "queue_items"
}

// SolvedTime returns the timestamp used for the "solved" header line:
// the capture time when the scraper supplied one, otherwise the enqueue time.
func (q *QueueItem) SolvedTime() time.Time {
	if q.CapturedAt != nil && !q.CapturedAt.IsZero() {
		return *q.CapturedAt
	}
	return q.At
}
