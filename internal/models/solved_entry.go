package models

import "time"

// SolvedEntry records that a slug has been synced at least once.
// It always reflects the most recent successful commit for the slug.
type SolvedEntry struct {
	Slug        string    `gorm:"primaryKey;size:200" json:"-"`
	Title       string    `gorm:"size:255" json:"title"`
	Category    string    `gorm:"size:100" json:"category,omitempty"`
	ListName    string    `gorm:"size:200" json:"listName,omitempty"`
	Difficulty  string    `gorm:"size:20" json:"difficulty,omitempty"`
	Language    string    `gorm:"size:50" json:"language"`
	SolvedAt    time.Time `gorm:"index" json:"solvedAt"`
	Fingerprint string    `gorm:"size:64" json:"fingerprint,omitempty"`
	Path        string    `gorm:"size:500" json:"path,omitempty"`
}

// TableName specifies the table name for GORM.
func (SolvedEntry) TableName() string {
	return "solved_entries"
}

// Difficulty buckets used by the progress statistics.
const (
	DifficultyEasy    = "Easy"
	DifficultyMedium  = "Medium"
	DifficultyHard    = "Hard"
	DifficultyUnknown = "Unknown"
)

// DifficultyBucket normalizes a free-form difficulty label into one of the
// four statistics buckets.
func DifficultyBucket(difficulty string) string {
	switch normalizeLabel(difficulty) {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return DifficultyUnknown
	}
}
