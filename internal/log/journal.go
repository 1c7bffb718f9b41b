package log

import (
	"fmt"
	stdlog "log"
	"sync/atomic"
	"time"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// Sink persists activity entries. *db.DB satisfies it.
type Sink interface {
	AppendLog(level models.LogLevel, message string, at time.Time) error
}

// Journal is the levelled activity log shown to users. Entries go to the
// sink and are mirrored to the process log file. Debug entries are kept
// only while debug is enabled.
type Journal struct {
	sink  Sink
	now   func() time.Time
	debug atomic.Bool
}

// NewJournal creates a journal writing to sink. A nil sink only mirrors.
func NewJournal(sink Sink) *Journal {
	return &Journal{sink: sink, now: time.Now}
}

// SetClock replaces the time source.
func (j *Journal) SetClock(now func() time.Time) {
	j.now = now
}

// SetDebug toggles persistence of debug entries.
func (j *Journal) SetDebug(enabled bool) {
	j.debug.Store(enabled)
}

func (j *Journal) Debug(format string, args ...interface{}) {
	if !j.debug.Load() {
		return
	}
	j.write(models.LogDebug, format, args...)
}

func (j *Journal) Info(format string, args ...interface{}) {
	j.write(models.LogInfo, format, args...)
}

func (j *Journal) Warn(format string, args ...interface{}) {
	j.write(models.LogWarn, format, args...)
}

func (j *Journal) Error(format string, args ...interface{}) {
	j.write(models.LogError, format, args...)
}

func (j *Journal) write(level models.LogLevel, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	stdlog.Printf("[%s] %s", level, msg)

	if j.sink == nil {
		return
	}
	// A failing journal must never fail the operation being journaled.
	if err := j.sink.AppendLog(level, msg, j.now().UTC()); err != nil {
		stdlog.Printf("journal: append failed: %v", err)
	}
}
