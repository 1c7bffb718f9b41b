package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/solvesync/internal/models"
)

type memorySink struct {
	entries []models.LogEntry
	err     error
}

func (m *memorySink) AppendLog(level models.LogLevel, message string, at time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, models.LogEntry{Level: level, Message: message, At: at})
	return nil
}

func TestJournal_Levels(t *testing.T) {
	sink := &memorySink{}
	j := NewJournal(sink)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	j.SetClock(func() time.Time { return fixed })

	j.Info("synced %d item(s)", 2)
	j.Warn("retry scheduled")
	j.Error("permanently failed")

	require.Len(t, sink.entries, 3)
	assert.Equal(t, models.LogInfo, sink.entries[0].Level)
	assert.Equal(t, "synced 2 item(s)", sink.entries[0].Message)
	assert.Equal(t, fixed, sink.entries[0].At)
	assert.Equal(t, models.LogWarn, sink.entries[1].Level)
	assert.Equal(t, models.LogError, sink.entries[2].Level)
}

func TestJournal_DebugGated(t *testing.T) {
	sink := &memorySink{}
	j := NewJournal(sink)

	j.Debug("hidden")
	assert.Empty(t, sink.entries)

	j.SetDebug(true)
	j.Debug("shown")
	require.Len(t, sink.entries, 1)
	assert.Equal(t, models.LogDebug, sink.entries[0].Level)
}

func TestJournal_SinkFailureIsSwallowed(t *testing.T) {
	j := NewJournal(&memorySink{err: errors.New("disk full")})
	assert.NotPanics(t, func() { j.Error("boom") })

	assert.NotPanics(t, func() { NewJournal(nil).Info("no sink") })
}

func TestLogger_FileOnly(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir, nil)
	require.NoError(t, err)
	l.Printf("hello %s\n", "file")
	l.Errorf("bad %d", 1)
	require.NoError(t, l.Close())

	data, err := readFile(dir)
	require.NoError(t, err)
	assert.Contains(t, data, "hello file")
	assert.Contains(t, data, "bad 1")
}

func readFile(dir string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, FileName))
	return string(b), err
}
