package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/solvesync/internal/hash"
	"github.com/asteroid-belt/solvesync/internal/models"
	"github.com/asteroid-belt/solvesync/internal/testutil"
)

func twoSum(code string) models.SubmissionPayload {
	return models.SubmissionPayload{
		Slug:     "two-sum",
		Title:    "Two Sum",
		Language: "Python3",
		Code:     code,
		Meta:     &models.SubmissionMeta{Runtime: "52 ms", Memory: "17.1 MB"},
		Source:   models.SourceDOM,
		At:       1714564800000,
	}
}

func newTestManager(t *testing.T) (*Manager, *testutil.Clock, *atomic.Int32) {
	t.Helper()
	database := testutil.NewDB(t)
	clock := testutil.NewClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	kicks := &atomic.Int32{}
	m := NewManager(database, nil, Options{
		Now:  clock.Now,
		Kick: func() { kicks.Add(1) },
	})
	return m, clock, kicks
}

func TestEnqueue_InsertsItem(t *testing.T) {
	m, clock, kicks := newTestManager(t)

	ok, err := m.Enqueue(context.Background(), twoSum("print(1)"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(1), kicks.Load())

	items, err := m.Pending()
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "two-sum", item.Slug)
	assert.Equal(t, "python3", item.Language)
	assert.Equal(t, hash.Fingerprint("two-sum", "python3", "print(1)"), item.Fingerprint)
	assert.Equal(t, 0, item.Retries)
	assert.Nil(t, item.LastAttempt)
	assert.Equal(t, "52 ms", item.Runtime)
	assert.Equal(t, "17.1 MB", item.Memory)
	assert.True(t, clock.Now().Equal(item.At))
	require.NotNil(t, item.CapturedAt)
	assert.Equal(t, int64(1714564800000), item.CapturedAt.UnixMilli())
}

func TestEnqueue_IdenticalPendingIsIgnored(t *testing.T) {
	m, _, kicks := newTestManager(t)
	ctx := context.Background()

	ok, err := m.Enqueue(ctx, twoSum("print(1)"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.Enqueue(ctx, twoSum("print(1)"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int32(1), kicks.Load())

	items, err := m.Pending()
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestEnqueue_DifferentCodeReplaces(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Enqueue(ctx, twoSum("print(1)"))
	require.NoError(t, err)
	ok, err := m.Enqueue(ctx, twoSum("print(2)"))
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := m.Pending()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "print(2)", items[0].Code)
}

func TestEnqueue_OtherLanguageIsSeparate(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Enqueue(ctx, twoSum("print(1)"))
	require.NoError(t, err)

	java := twoSum("class Solution {}")
	java.Language = "java"
	ok, err := m.Enqueue(ctx, java)
	require.NoError(t, err)
	assert.True(t, ok)

	items, err := m.Pending()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "python3", items[0].Language)
	assert.Equal(t, "java", items[1].Language)
}

func TestEnqueue_RecentlySyncedIsIgnored(t *testing.T) {
	m, clock, _ := newTestManager(t)
	ctx := context.Background()

	fp := hash.Fingerprint("two-sum", "python3", "print(1)")
	require.NoError(t, m.db.UpsertSolved(&models.SolvedEntry{
		Slug:        "two-sum",
		Language:    "python3",
		Fingerprint: fp,
		SolvedAt:    clock.Now().Add(-30 * time.Second),
	}))

	ok, err := m.Enqueue(ctx, twoSum("print(1)"))
	require.NoError(t, err)
	assert.False(t, ok, "same code synced 30s ago")

	clock.Advance(31 * time.Second)
	ok, err = m.Enqueue(ctx, twoSum("print(1)"))
	require.NoError(t, err)
	assert.True(t, ok, "freshness window elapsed")
}

func TestEnqueue_RecentlySyncedDifferentCodeIsAccepted(t *testing.T) {
	m, clock, _ := newTestManager(t)

	require.NoError(t, m.db.UpsertSolved(&models.SolvedEntry{
		Slug:        "two-sum",
		Fingerprint: hash.Fingerprint("two-sum", "python3", "print(1)"),
		SolvedAt:    clock.Now(),
	}))

	ok, err := m.Enqueue(context.Background(), twoSum("print(2)"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnqueue_MissingCodeIsNoop(t *testing.T) {
	m, _, kicks := newTestManager(t)

	ok, err := m.Enqueue(context.Background(), twoSum(""))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, kicks.Load())

	count, err := m.db.CountQueue()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEnqueue_MissingSlug(t *testing.T) {
	m, _, _ := newTestManager(t)

	p := twoSum("print(1)")
	p.Slug = "  "
	_, err := m.Enqueue(context.Background(), p)
	assert.ErrorIs(t, err, ErrMalformedSubmission)
}

func TestEnqueue_DefaultsLanguageAndSource(t *testing.T) {
	m, _, _ := newTestManager(t)

	p := twoSum("SELECT 1")
	p.Language = ""
	p.Source = ""
	ok, err := m.Enqueue(context.Background(), p)
	require.NoError(t, err)
	require.True(t, ok)

	items, err := m.Pending()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "unknown", items[0].Language)
	assert.Equal(t, models.SourceManual, items[0].Source)
}
