package db

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *DB {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(Config{
		Path:        dbPath,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	})
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})

	return db
}

func TestNew_CreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "dirs", "solvesync.db")

	db, err := New(DefaultConfig(dbPath))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
	assert.Equal(t, dbPath, db.Path())

	version, err := db.GetSyncMeta(models.SyncMetaSchemaVersion)
	require.NoError(t, err)
	assert.Equal(t, "1", version)
}

func TestGetStats_EmptyDB(t *testing.T) {
	db := testDB(t)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Queued)
	assert.Zero(t, stats.Solved)
	assert.Zero(t, stats.Mapped)
}

// --- Queue ---

func TestQueue_InsertionOrderAndLookup(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	for i, slug := range []string{"b-problem", "a-problem", "c-problem"} {
		require.NoError(t, db.InsertQueueItem(&models.QueueItem{
			ID:       fmt.Sprintf("id-%d", i),
			Slug:     slug,
			Language: "go",
			At:       now,
		}))
	}

	items, err := db.ListQueue()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "b-problem", items[0].Slug)
	assert.Equal(t, "a-problem", items[1].Slug)
	assert.Equal(t, "c-problem", items[2].Slug)

	found, err := db.FindQueueItem("a-problem", "go")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "id-1", found.ID)

	missing, err := db.FindQueueItem("a-problem", "rust")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQueue_RecordFailureAndDelete(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.InsertQueueItem(&models.QueueItem{ID: "q1", Slug: "two-sum", Language: "python", At: time.Now()}))

	attempted := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.RecordQueueFailure("q1", 2, attempted, "boom"))

	item, err := db.GetQueueItem("q1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, 2, item.Retries)
	require.NotNil(t, item.LastAttempt)
	assert.True(t, attempted.Equal(*item.LastAttempt))
	assert.Equal(t, "boom", item.LastError)

	require.NoError(t, db.DeleteQueueItem("q1"))
	require.NoError(t, db.DeleteQueueItem("q1"))

	count, err := db.CountQueue()
	require.NoError(t, err)
	assert.Zero(t, count)
}

// --- Solved ---

func TestCompleteQueueItem_UpsertsAndRemoves(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.InsertQueueItem(&models.QueueItem{ID: "q1", Slug: "two-sum", Language: "python", At: time.Now()}))

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.CompleteQueueItem("q1", &models.SolvedEntry{
		Slug: "two-sum", Title: "Two Sum", Language: "python", SolvedAt: first, Fingerprint: "fp1",
	}))

	count, err := db.CountQueue()
	require.NoError(t, err)
	assert.Zero(t, count)

	second := first.Add(time.Hour)
	require.NoError(t, db.UpsertSolved(&models.SolvedEntry{
		Slug: "two-sum", Title: "Two Sum", Language: "go", SolvedAt: second, Fingerprint: "fp2",
	}))

	entry, err := db.GetSolved("two-sum")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "go", entry.Language)
	assert.Equal(t, "fp2", entry.Fingerprint)
	assert.True(t, second.Equal(entry.SolvedAt))

	all, err := db.ListSolved()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// --- Mapping ---

func TestMergeCatalog_FillIfAbsent(t *testing.T) {
	db := testDB(t)

	changed, err := db.MergeCatalog(map[string]models.CatalogEntry{
		"two-sum": {Title: "Two Sum", Category: "Array", SourceURL: "https://example.com/a"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	changed, err = db.MergeCatalog(map[string]models.CatalogEntry{
		"two-sum": {Title: "", Category: "Hash Table", Difficulty: "Easy", SourceURL: "https://example.com/b"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	entry, err := db.GetMapping("two-sum")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Two Sum", entry.Title)
	assert.Equal(t, "Array", entry.Category)
	assert.Equal(t, "Easy", entry.Difficulty)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, entry.Sources)

	changed, err = db.MergeCatalog(map[string]models.CatalogEntry{
		"two-sum": {Title: "Two Sum", SourceURL: "https://example.com/a"},
	})
	require.NoError(t, err)
	assert.Zero(t, changed)

	require.NoError(t, db.ResetMapping())
	count, err := db.CountMapping()
	require.NoError(t, err)
	assert.Zero(t, count)
}

// --- Settings & credential ---

func TestSettings_DefaultsAndRoundTrip(t *testing.T) {
	db := testDB(t)

	settings, err := db.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)

	settings.Repository = "octo/solutions"
	settings.OrganizationMode = models.OrganizationFlat
	settings.OverwriteExisting = false
	require.NoError(t, db.SaveSettings(settings))

	loaded, err := db.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "octo/solutions", loaded.Repository)
	assert.Equal(t, models.OrganizationFlat, loaded.OrganizationMode)
	assert.False(t, loaded.OverwriteExisting)
	assert.True(t, loaded.IncludeHeader)
}

func TestSettings_PartialDocumentKeepsDefaults(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.SetSyncMeta(models.SyncMetaSettings, `{"repository":"octo/solutions"}`))

	loaded, err := db.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "octo/solutions", loaded.Repository)
	assert.Equal(t, "main", loaded.Branch)
	assert.Equal(t, models.OrganizationAuto, loaded.OrganizationMode)
	assert.True(t, loaded.OverwriteExisting)
}

func TestCredential_IsolatedFromSettings(t *testing.T) {
	db := testDB(t)

	token, err := db.GetCredential()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, db.SaveCredential("ghp_first"))
	require.NoError(t, db.SaveCredential("ghp_second"))

	token, err = db.GetCredential()
	require.NoError(t, err)
	assert.Equal(t, "ghp_second", token)

	raw, err := db.GetSyncMeta(models.SyncMetaSettings)
	require.NoError(t, err)
	assert.NotContains(t, raw, "ghp_second")

	require.NoError(t, db.DeleteCredential())
	token, err = db.GetCredential()
	require.NoError(t, err)
	assert.Empty(t, token)
}

// --- Logs ---

func TestLogs_RingBufferNewestFirst(t *testing.T) {
	db := testDB(t)
	base := time.Now()

	for i := 0; i < models.MaxLogEntries+15; i++ {
		require.NoError(t, db.AppendLog(models.LogInfo, fmt.Sprintf("entry %d", i), base.Add(time.Duration(i)*time.Second)))
	}

	entries, err := db.ListLogs(0)
	require.NoError(t, err)
	require.Len(t, entries, models.MaxLogEntries)
	assert.Equal(t, fmt.Sprintf("entry %d", models.MaxLogEntries+14), entries[0].Message)
	assert.Equal(t, "entry 15", entries[len(entries)-1].Message)

	limited, err := db.ListLogs(5)
	require.NoError(t, err)
	assert.Len(t, limited, 5)

	require.NoError(t, db.ClearLogs())
	entries, err = db.ListLogs(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSyncTime_RoundTrip(t *testing.T) {
	db := testDB(t)

	unset, err := db.GetSyncTime(models.SyncMetaLastSync)
	require.NoError(t, err)
	assert.Nil(t, unset)

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.SetSyncTime(models.SyncMetaLastSync, now))

	got, err := db.GetSyncTime(models.SyncMetaLastSync)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, now.Equal(*got))
}

func TestProgressDirty_Toggle(t *testing.T) {
	db := testDB(t)

	dirty, err := db.ProgressDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, db.SetProgressDirty(true))
	dirty, err = db.ProgressDirty()
	require.NoError(t, err)
	assert.True(t, dirty)

	require.NoError(t, db.SetProgressDirty(false))
	dirty, err = db.ProgressDirty()
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestGetOrCreateTrackingID_Persists(t *testing.T) {
	db := testDB(t)

	first := db.GetOrCreateTrackingID()
	assert.Len(t, first, 36)
	assert.Equal(t, first, db.GetOrCreateTrackingID())
}
