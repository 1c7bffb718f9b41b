package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/solvesync/internal/config"
	"github.com/asteroid-belt/solvesync/internal/db"
	"github.com/asteroid-belt/solvesync/internal/models"
	"github.com/asteroid-belt/solvesync/internal/remote"
	"github.com/asteroid-belt/solvesync/internal/syncer"
	"github.com/asteroid-belt/solvesync/internal/testutil"
)

type fixture struct {
	svc   *Service
	db    *db.DB
	store *testutil.FakeStore
	clock *testutil.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseDir = t.TempDir()

	database := testutil.NewDB(t)
	store := testutil.NewFakeStore()
	clock := testutil.NewClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	svc := New(cfg, database, Options{
		Factory: func(s models.Settings, token string) (remote.Store, error) {
			if token == "" {
				return nil, syncer.ErrNotConfigured
			}
			return store, nil
		},
		Now: clock.Now,
	})
	t.Cleanup(svc.Close)
	return &fixture{svc: svc, db: database, store: store, clock: clock}
}

func (f *fixture) configure(t *testing.T) {
	t.Helper()
	settings := models.DefaultSettings()
	settings.Repository = "octo/solutions"
	settings.OrganizationMode = models.OrganizationFlat
	require.True(t, f.svc.SaveSettings(context.Background(), settings).Success)
	require.True(t, f.svc.SaveCredential(context.Background(), "ghp_secret").Success)
}

func submission() models.SubmissionPayload {
	return models.SubmissionPayload{
		Slug:     "two-sum",
		Title:    "Two Sum",
		Language: "python3",
		Code:     "print(1)\n",
		Source:   models.SourceIntercept,
	}
}

func TestSubmit_KicksBackgroundPass(t *testing.T) {
	f := newFixture(t)
	f.configure(t)

	accepted, res := f.svc.Submit(context.Background(), submission())
	require.True(t, res.Success, res.Error)
	assert.True(t, accepted)

	f.svc.Wait()

	_, ok := f.store.File("Problems/Two_Sum.py")
	assert.True(t, ok, f.store.Paths())

	state, err := f.svc.State(context.Background())
	require.NoError(t, err)
	assert.Zero(t, state.Queued)
	assert.Equal(t, int64(1), state.Solved)
	require.NotNil(t, state.LastSync)
	require.NotNil(t, state.LastProgress)
}

func TestSubmit_Malformed(t *testing.T) {
	f := newFixture(t)

	p := submission()
	p.Slug = ""
	accepted, res := f.svc.Submit(context.Background(), p)
	assert.False(t, accepted)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "malformed submission")
}

func TestState_NeverContainsToken(t *testing.T) {
	f := newFixture(t)
	f.configure(t)

	state, err := f.svc.State(context.Background())
	require.NoError(t, err)
	assert.True(t, state.HasToken)

	data, err := json.Marshal(state)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ghp_secret")
}

func TestState_ListsQueueWithRetryInfo(t *testing.T) {
	f := newFixture(t)
	f.configure(t)
	f.store.FailPuts = 1
	f.store.PutErr = &remote.HTTPError{StatusCode: 500}

	_, res := f.svc.Submit(context.Background(), submission())
	require.True(t, res.Success)
	f.svc.Wait()

	state, err := f.svc.State(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Queue, 1)
	assert.Equal(t, "two-sum", state.Queue[0].Slug)
	assert.Equal(t, 1, state.Queue[0].Retries)
	assert.Contains(t, state.Queue[0].LastError, "500")
	require.NotNil(t, state.Queue[0].NextAttempt)
	assert.True(t, f.clock.Now().Add(time.Second).Equal(*state.Queue[0].NextAttempt))
}

func TestSaveSettings_Validates(t *testing.T) {
	f := newFixture(t)

	s := models.DefaultSettings()
	s.Repository = "not-a-repo"
	res := f.svc.SaveSettings(context.Background(), s)
	assert.False(t, res.Success)

	s.Repository = "octo/solutions"
	s.OrganizationMode = "SPIRAL"
	res = f.svc.SaveSettings(context.Background(), s)
	assert.True(t, res.Success, "unknown mode is normalized to the default")

	saved, err := f.db.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, models.OrganizationAuto, saved.OrganizationMode)
}

func TestSaveCredential_CheckedAgainstRemote(t *testing.T) {
	f := newFixture(t)

	// Without a repository the token is stored unchecked.
	require.True(t, f.svc.SaveCredential(context.Background(), "ghp_first").Success)

	s := models.DefaultSettings()
	s.Repository = "octo/solutions"
	require.True(t, f.svc.SaveSettings(context.Background(), s).Success)

	f.store.AccessErr = errors.New("401 Bad credentials")
	res := f.svc.SaveCredential(context.Background(), "ghp_bad")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "credential check failed")

	token, err := f.db.GetCredential()
	require.NoError(t, err)
	assert.Equal(t, "ghp_first", token)

	assert.False(t, f.svc.SaveCredential(context.Background(), "   ").Success)

	require.True(t, f.svc.ClearCredential().Success)
	token, err = f.db.GetCredential()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestForceSync(t *testing.T) {
	f := newFixture(t)

	pass, res := f.svc.ForceSync(context.Background())
	assert.False(t, res.Success)
	assert.True(t, pass.ConfigMissing)

	f.configure(t)
	pass, res = f.svc.ForceSync(context.Background())
	assert.True(t, res.Success, res.Error)
	assert.Zero(t, pass.Processed)
}

func TestForceProgress(t *testing.T) {
	f := newFixture(t)
	f.configure(t)

	out, res := f.svc.ForceProgress(context.Background())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "README.md", out.DigestPath)

	_, ok := f.store.File("progress.json")
	assert.True(t, ok)
}

func TestPreview_DoesNotCommit(t *testing.T) {
	f := newFixture(t)
	f.configure(t)

	_, res := f.svc.Submit(context.Background(), submission())
	require.True(t, res.Success, res.Error)
	f.svc.Wait()
	commits := len(f.store.Commits())

	snap, digest, err := f.svc.Preview()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Total)
	assert.Contains(t, digest, "Two Sum")
	assert.Len(t, f.store.Commits(), commits)
}

func TestCatalogMergeAndReset(t *testing.T) {
	f := newFixture(t)

	changed, res := f.svc.MergeCatalog(context.Background(), models.CatalogEvent{
		Entries: map[string]models.CatalogEntry{
			"two-sum":   {Title: "Two Sum", Difficulty: "Easy", SourceURL: "https://leetcode.com/problemset/"},
			"lru-cache": {Category: "Design", SourceURL: "https://leetcode.com/problemset/"},
		},
	})
	require.True(t, res.Success)
	assert.Equal(t, 2, changed)

	state, err := f.svc.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), state.Mapped)

	require.True(t, f.svc.ResetMapping().Success)
	state, err = f.svc.State(context.Background())
	require.NoError(t, err)
	assert.Zero(t, state.Mapped)
}

func TestClearLogs(t *testing.T) {
	f := newFixture(t)
	f.configure(t)

	state, err := f.svc.State(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, state.Logs)

	require.True(t, f.svc.ClearLogs().Success)
	state, err = f.svc.State(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Logs)
}

func TestKickAfterCloseIsNoop(t *testing.T) {
	f := newFixture(t)
	f.svc.Close()
	assert.NotPanics(t, f.svc.Kick)
}
