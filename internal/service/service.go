// Package service is the request/response façade over the pipeline used by
// every presentation surface: the CLI, the MCP server and the inbox.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asteroid-belt/solvesync/internal/config"
	"github.com/asteroid-belt/solvesync/internal/db"
	"github.com/asteroid-belt/solvesync/internal/log"
	"github.com/asteroid-belt/solvesync/internal/models"
	"github.com/asteroid-belt/solvesync/internal/progress"
	"github.com/asteroid-belt/solvesync/internal/queue"
	"github.com/asteroid-belt/solvesync/internal/remote"
	"github.com/asteroid-belt/solvesync/internal/retry"
	"github.com/asteroid-belt/solvesync/internal/syncer"
	"github.com/asteroid-belt/solvesync/internal/telemetry"
)

// Result is the outcome of a manual operation.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func okResult() Result { return Result{Success: true} }

func failResult(err error) Result { return Result{Error: err.Error()} }

// QueueStatus describes one pending item without its code.
type QueueStatus struct {
	Slug        string     `json:"slug"`
	Language    string     `json:"language"`
	Retries     int        `json:"retries"`
	LastError   string     `json:"lastError,omitempty"`
	QueuedAt    time.Time  `json:"queuedAt"`
	NextAttempt *time.Time `json:"nextAttempt,omitempty"`
}

// State is the aggregate snapshot shown to users. It never carries the
// credential itself.
type State struct {
	Settings     models.Settings   `json:"settings"`
	HasToken     bool              `json:"hasToken"`
	Backend      string            `json:"backend"`
	Queued       int64             `json:"queued"`
	Solved       int64             `json:"solved"`
	Mapped       int64             `json:"mapped"`
	Busy         bool              `json:"busy"`
	LastSync     *time.Time        `json:"lastSync,omitempty"`
	LastProgress *time.Time        `json:"lastProgress,omitempty"`
	Queue        []QueueStatus     `json:"queue"`
	Logs         []models.LogEntry `json:"logs"`
}

// Options overrides collaborators, mainly for tests.
type Options struct {
	Factory   syncer.StoreFactory
	Telemetry telemetry.Client
	Now       func() time.Time
}

// Service wires the queue, processor and publisher together.
type Service struct {
	cfg       *config.Config
	db        *db.DB
	journal   *log.Journal
	queue     *queue.Manager
	proc      *syncer.Processor
	publisher *progress.Publisher
	factory   syncer.StoreFactory
	policy    retry.Policy
	telemetry telemetry.Client
	now       func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex // guards wg.Add against Close
	wg     sync.WaitGroup
}

// New creates the service. Call Close to wait for background passes.
func New(cfg *config.Config, database *db.DB, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Factory == nil {
		opts.Factory = NewStoreFactory(cfg.Remote)
	}
	if opts.Telemetry == nil {
		opts.Telemetry = telemetry.Noop()
	}

	journal := log.NewJournal(database)
	journal.SetClock(opts.Now)
	if settings, err := database.GetSettings(); err == nil {
		journal.SetDebug(settings.Debug)
	}

	policy := retry.Policy{
		BaseDelay:  cfg.Policy.BaseDelay,
		MaxDelay:   cfg.Policy.MaxDelay,
		MaxRetries: cfg.Policy.MaxRetries,
	}

	publisher := progress.NewPublisher(database, progress.PublisherOptions{
		SnapshotFile: cfg.Progress.SnapshotFile,
		DigestFile:   cfg.Progress.DigestFile,
		RecentLimit:  cfg.Progress.RecentLimit,
		ProblemURL:   cfg.Progress.ProblemURL,
		Now:          opts.Now,
	})

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		cfg:       cfg,
		db:        database,
		journal:   journal,
		publisher: publisher,
		factory:   opts.Factory,
		policy:    policy,
		telemetry: opts.Telemetry,
		now:       opts.Now,
		ctx:       ctx,
		cancel:    cancel,
	}

	s.proc = syncer.NewProcessor(database, journal, syncer.Options{
		Policy:        policy,
		Timeout:       cfg.Remote.Timeout,
		Factory:       opts.Factory,
		Publisher:     publisher,
		FallbackToken: cfg.Remote.Token,
		Now:           opts.Now,
	})
	s.queue = queue.NewManager(database, journal, queue.Options{
		FreshnessWindow: cfg.Policy.FreshnessWindow,
		Kick:            s.Kick,
		Now:             opts.Now,
	})
	return s
}

// Journal exposes the activity journal to other surfaces.
func (s *Service) Journal() *log.Journal {
	return s.journal
}

// State gathers settings, counts, the pending queue and recent logs.
func (s *Service) State(ctx context.Context) (State, error) {
	settings, err := s.db.GetSettings()
	if err != nil {
		return State{}, fmt.Errorf("load settings: %w", err)
	}
	token, err := s.db.GetCredential()
	if err != nil {
		return State{}, fmt.Errorf("load credential: %w", err)
	}
	stats, err := s.db.GetStats()
	if err != nil {
		return State{}, err
	}
	items, err := s.queue.Pending()
	if err != nil {
		return State{}, fmt.Errorf("load queue: %w", err)
	}
	logs, err := s.db.ListLogs(models.MaxLogEntries)
	if err != nil {
		return State{}, fmt.Errorf("load logs: %w", err)
	}
	lastSync, err := s.db.GetSyncTime(models.SyncMetaLastSync)
	if err != nil {
		return State{}, err
	}
	lastProgress, err := s.db.GetSyncTime(models.SyncMetaLastProgress)
	if err != nil {
		return State{}, err
	}

	state := State{
		Settings:     settings,
		HasToken:     token != "" || s.cfg.Remote.Token != "",
		Backend:      s.cfg.Remote.Backend,
		Queued:       stats.Queued,
		Solved:       stats.Solved,
		Mapped:       stats.Mapped,
		Busy:         s.proc.Busy(),
		LastSync:     lastSync,
		LastProgress: lastProgress,
		Queue:        make([]QueueStatus, 0, len(items)),
		Logs:         logs,
	}
	for _, item := range items {
		qs := QueueStatus{
			Slug:      item.Slug,
			Language:  item.Language,
			Retries:   item.Retries,
			LastError: item.LastError,
			QueuedAt:  item.At,
		}
		if next := s.policy.NextAttempt(item); !next.IsZero() {
			qs.NextAttempt = &next
		}
		state.Queue = append(state.Queue, qs)
	}
	return state, nil
}

// SaveSettings validates and persists settings. Invalid or empty fields
// fall back to their defaults.
func (s *Service) SaveSettings(ctx context.Context, settings models.Settings) Result {
	settings.Normalize()
	if settings.HasRepository() && s.cfg.Remote.Backend == config.BackendGitHub {
		if _, _, err := settings.SplitRepository(); err != nil {
			return failResult(err)
		}
	}

	if err := s.db.SaveSettings(settings); err != nil {
		return failResult(fmt.Errorf("save settings: %w", err))
	}
	s.journal.SetDebug(settings.Debug)
	s.journal.Info("Settings saved (%s, mode %s)", settings.Repository, settings.OrganizationMode)
	s.telemetry.TrackSettingsChanged(string(settings.OrganizationMode), settings.IncludeHeader)
	return okResult()
}

// SaveCredential stores the token. When a repository is configured the
// token is first checked against the remote, and a rejected token is not
// saved.
func (s *Service) SaveCredential(ctx context.Context, token string) Result {
	token = strings.TrimSpace(token)
	if token == "" {
		return failResult(errors.New("token is empty"))
	}

	settings, err := s.db.GetSettings()
	if err != nil {
		return failResult(fmt.Errorf("load settings: %w", err))
	}
	if settings.HasRepository() {
		store, err := s.factory(settings, token)
		if err != nil {
			return failResult(err)
		}
		if err := remote.NewCommitter(store, s.cfg.Remote.Timeout).CheckAccess(ctx); err != nil {
			s.journal.Warn("Credential rejected: %v", err)
			return failResult(fmt.Errorf("credential check failed: %w", err))
		}
	}

	if err := s.db.SaveCredential(token); err != nil {
		return failResult(fmt.Errorf("save credential: %w", err))
	}
	s.journal.Info("Credential saved")
	return okResult()
}

// ClearCredential removes the saved token.
func (s *Service) ClearCredential() Result {
	if err := s.db.DeleteCredential(); err != nil {
		return failResult(err)
	}
	s.journal.Info("Credential removed")
	return okResult()
}

// ForceSync runs a pass now and waits for it. A pass already running
// makes this a no-op reported as unsuccessful.
func (s *Service) ForceSync(ctx context.Context) (syncer.PassResult, Result) {
	res, err := s.RunPass(ctx, syncer.TriggerManual)
	if err != nil {
		return res, failResult(err)
	}
	if res.Skipped {
		return res, failResult(syncer.ErrSyncInProgress)
	}
	if res.ConfigMissing {
		return res, failResult(syncer.ErrNotConfigured)
	}
	return res, okResult()
}

// ForceProgress regenerates and commits the summary documents now.
func (s *Service) ForceProgress(ctx context.Context) (progress.Published, Result) {
	out, err := s.proc.PublishProgress(ctx)
	if err != nil {
		return out, failResult(err)
	}
	s.telemetry.TrackProgressPublished(out.Total)
	return out, okResult()
}

// Preview builds the summary documents from local state without
// committing them.
func (s *Service) Preview() (progress.Snapshot, string, error) {
	settings, err := s.db.GetSettings()
	if err != nil {
		return progress.Snapshot{}, "", fmt.Errorf("load settings: %w", err)
	}
	return s.publisher.Build(settings)
}

// ClearLogs empties the activity journal.
func (s *Service) ClearLogs() Result {
	if err := s.db.ClearLogs(); err != nil {
		return failResult(err)
	}
	return okResult()
}

// Submit admits a submission event. Accepted items trigger a background pass.
func (s *Service) Submit(ctx context.Context, payload models.SubmissionPayload) (bool, Result) {
	accepted, err := s.queue.Enqueue(ctx, payload)
	if err != nil {
		s.journal.Warn("Rejected submission: %v", err)
		return false, failResult(err)
	}
	s.telemetry.TrackSubmissionQueued(payload.NormalizedLanguage(), payload.Source, accepted)
	return accepted, okResult()
}

// MergeCatalog applies a catalog event to the mapping.
func (s *Service) MergeCatalog(ctx context.Context, event models.CatalogEvent) (int, Result) {
	changed, err := s.db.MergeCatalog(event.Entries)
	if err != nil {
		return 0, failResult(fmt.Errorf("merge catalog: %w", err))
	}
	s.journal.Info("Catalog merged: %d of %d entries changed", changed, len(event.Entries))
	s.telemetry.TrackCatalogMerged(len(event.Entries), changed)
	return changed, okResult()
}

// ResetMapping deletes every mapping entry.
func (s *Service) ResetMapping() Result {
	if err := s.db.ResetMapping(); err != nil {
		return failResult(err)
	}
	s.journal.Info("Catalog mapping reset")
	return okResult()
}

// RunPass runs one pass and reports it.
func (s *Service) RunPass(ctx context.Context, trigger syncer.Trigger) (syncer.PassResult, error) {
	res, err := s.proc.Run(ctx, trigger)
	if err != nil {
		s.journal.Error("Sync pass failed: %v", err)
		return res, err
	}
	if !res.Skipped && !res.ConfigMissing {
		s.telemetry.TrackSyncPass(string(trigger), res.Processed, res.Retried, res.Dropped, res.Deferred)
	}
	return res, nil
}

// Kick starts a background pass without waiting for it. It is the
// post-enqueue hook and is safe to call from any goroutine.
func (s *Service) Kick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = s.RunPass(s.ctx, syncer.TriggerEnqueue)
	}()
}

// Wait blocks until background passes started so far have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Close stops new background passes and waits for running ones.
func (s *Service) Close() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}
