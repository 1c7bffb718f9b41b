package models

import "time"

// LogLevel is the severity of an activity log entry.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// LogEntry is one record of the persisted activity log ring buffer.
type LogEntry struct {
	ID      uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Level   LogLevel  `gorm:"size:10" json:"level"`
	Message string    `gorm:"type:text" json:"message"`
	At      time.Time `gorm:"index" json:"at"`
}

// TableName specifies the table name for GORM.
func (LogEntry) TableName() string {
	return "activity_logs"
}

// MaxLogEntries bounds the activity log ring buffer.
const MaxLogEntries = 100
