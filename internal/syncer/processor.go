// Package syncer runs processing passes over the durable queue: each
// eligible item is committed to the remote store, then recorded as solved
// or scheduled for retry.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asteroid-belt/solvesync/internal/db"
	"github.com/asteroid-belt/solvesync/internal/hash"
	"github.com/asteroid-belt/solvesync/internal/layout"
	"github.com/asteroid-belt/solvesync/internal/log"
	"github.com/asteroid-belt/solvesync/internal/models"
	"github.com/asteroid-belt/solvesync/internal/progress"
	"github.com/asteroid-belt/solvesync/internal/remote"
	"github.com/asteroid-belt/solvesync/internal/retry"
)

var (
	// ErrNotConfigured is returned by a StoreFactory when settings or
	// credential are insufficient to reach the remote.
	ErrNotConfigured = errors.New("remote not configured")

	// ErrSyncInProgress is returned by operations that need the lease
	// while a pass holds it.
	ErrSyncInProgress = errors.New("sync already in progress")
)

// Trigger names what started a pass, for logs.
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
	TriggerEnqueue  Trigger = "enqueue"
	TriggerStartup  Trigger = "startup"
	TriggerInbox    Trigger = "inbox"
)

// StoreFactory opens the remote store for the current settings and token.
type StoreFactory func(settings models.Settings, token string) (remote.Store, error)

// PassResult summarizes one pass.
type PassResult struct {
	Trigger       Trigger `json:"trigger"`
	Skipped       bool    `json:"skipped,omitempty"` // lease was held by another pass
	ConfigMissing bool    `json:"configMissing,omitempty"`
	Processed     int     `json:"processed"`
	Retried       int     `json:"retried"`
	Dropped       int     `json:"dropped"`
	Deferred      int     `json:"deferred"`
	Published     bool    `json:"published"`
	ProgressError string  `json:"progressError,omitempty"`
}

// Options configures a Processor.
type Options struct {
	Policy    retry.Policy
	Timeout   time.Duration
	Factory   StoreFactory
	Publisher *progress.Publisher
	// FallbackToken is used when no credential has been saved.
	FallbackToken string
	Now           func() time.Time
}

// Processor owns the sync state machine. Run is safe to call from any
// number of goroutines; at most one pass executes at a time.
type Processor struct {
	db      *db.DB
	journal *log.Journal
	lease   Lease
	opts    Options
}

// NewProcessor creates a processor over database.
func NewProcessor(database *db.DB, journal *log.Journal, opts Options) *Processor {
	if opts.Policy.MaxRetries <= 0 {
		opts.Policy = retry.DefaultPolicy()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = remote.DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Publisher == nil {
		opts.Publisher = progress.NewPublisher(database, progress.PublisherOptions{Now: opts.Now})
	}
	if journal == nil {
		journal = log.NewJournal(nil)
	}
	return &Processor{db: database, journal: journal, opts: opts}
}

// Busy reports whether a pass is running.
func (p *Processor) Busy() bool {
	return p.lease.Busy()
}

// Run executes one pass. Remote failures are absorbed into retry
// bookkeeping; only database failures are returned.
func (p *Processor) Run(ctx context.Context, trigger Trigger) (PassResult, error) {
	result := PassResult{Trigger: trigger}

	release, ok := p.lease.TryAcquire()
	if !ok {
		result.Skipped = true
		return result, nil
	}
	defer release()

	settings, committer, err := p.open()
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			p.journal.Warn("Sync skipped: %v", err)
			result.ConfigMissing = true
			return result, nil
		}
		return result, err
	}

	items, err := p.db.ListQueue()
	if err != nil {
		return result, fmt.Errorf("load queue: %w", err)
	}
	if len(items) > 0 {
		p.journal.Debug("Sync pass (%s): %d queued item(s)", trigger, len(items))
	}

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		now := p.opts.Now()
		if !p.opts.Policy.EligibleNow(item, now) {
			result.Deferred++
			continue
		}

		if err := p.process(ctx, committer, settings, item, &result); err != nil {
			return result, err
		}
	}

	dirty, err := p.db.ProgressDirty()
	if err != nil {
		return result, fmt.Errorf("load progress state: %w", err)
	}
	if result.Processed > 0 || dirty {
		if err := p.publish(ctx, committer, settings, &result); err != nil {
			return result, err
		}
	}
	if result.Processed > 0 {
		if err := p.db.SetSyncTime(models.SyncMetaLastSync, p.opts.Now()); err != nil {
			return result, fmt.Errorf("record sync time: %w", err)
		}
	}
	return result, nil
}

// PublishProgress regenerates and commits the summary documents under
// the lease. It returns ErrSyncInProgress when a pass is running.
func (p *Processor) PublishProgress(ctx context.Context) (progress.Published, error) {
	release, ok := p.lease.TryAcquire()
	if !ok {
		return progress.Published{}, ErrSyncInProgress
	}
	defer release()

	settings, committer, err := p.open()
	if err != nil {
		return progress.Published{}, err
	}
	out, err := p.opts.Publisher.Publish(ctx, committer, settings)
	if err != nil {
		p.journal.Error("Progress update failed (%s): %v", remote.Describe(err), err)
		return progress.Published{}, err
	}
	p.journal.Info("Progress updated: %d solved", out.Total)
	if err := p.db.SetProgressDirty(false); err != nil {
		return out, fmt.Errorf("record progress state: %w", err)
	}
	return out, nil
}

func (p *Processor) open() (models.Settings, *remote.Committer, error) {
	settings, err := p.db.GetSettings()
	if err != nil {
		return settings, nil, fmt.Errorf("load settings: %w", err)
	}
	p.journal.SetDebug(settings.Debug)

	if !settings.HasRepository() {
		return settings, nil, fmt.Errorf("%w: no repository set", ErrNotConfigured)
	}

	token, err := p.db.GetCredential()
	if err != nil {
		return settings, nil, fmt.Errorf("load credential: %w", err)
	}
	if token == "" {
		token = p.opts.FallbackToken
	}

	if p.opts.Factory == nil {
		return settings, nil, fmt.Errorf("%w: no store backend", ErrNotConfigured)
	}
	store, err := p.opts.Factory(settings, token)
	if err != nil {
		return settings, nil, err
	}
	return settings, remote.NewCommitter(store, p.opts.Timeout), nil
}

func (p *Processor) process(ctx context.Context, committer *remote.Committer, settings models.Settings, item models.QueueItem, result *PassResult) error {
	mapping, err := p.db.GetMapping(item.Slug)
	if err != nil {
		return fmt.Errorf("load mapping: %w", err)
	}

	target := layout.Classify(layout.Target{
		Slug:       item.Slug,
		Title:      item.Title,
		Language:   item.Language,
		Category:   item.Category,
		ListName:   item.ListName,
		Difficulty: item.Difficulty,
		Runtime:    item.Runtime,
		Memory:     item.Memory,
		SolvedAt:   item.SolvedTime(),
	}, mapping)
	resolved := layout.Resolve(settings, target, mapping)

	content := item.Code
	if settings.IncludeHeader {
		content = resolved.Header + item.Code
	}

	policy := remote.OverwriteReplace
	if !settings.OverwriteExisting {
		policy = remote.OverwriteSkip
	}

	title := target.Title
	if title == "" {
		title = layout.TitleFromSlug(item.Slug)
	}

	res, err := committer.CommitFile(ctx, remote.FileCommit{
		Path:    resolved.Path,
		Branch:  settings.Branch,
		Message: fmt.Sprintf("Sync %s (%s) [%s]", title, item.Language, hash.Short(item.Fingerprint)),
		Content: []byte(content),
		Policy:  policy,
	})
	now := p.opts.Now()
	if err != nil {
		return p.fail(item, now, err, result)
	}

	entry := &models.SolvedEntry{
		Slug:        item.Slug,
		Title:       title,
		Category:    target.Category,
		ListName:    target.ListName,
		Difficulty:  target.Difficulty,
		Language:    item.Language,
		SolvedAt:    now,
		Fingerprint: item.Fingerprint,
		Path:        resolved.Path,
	}
	if err := p.db.CompleteQueueItem(item.ID, entry); err != nil {
		return fmt.Errorf("record solved %s: %w", item.Slug, err)
	}
	result.Processed++

	if res.Skipped {
		p.journal.Info("Kept existing %s for %s", resolved.Path, item.Slug)
	} else {
		p.journal.Info("Synced %s to %s", item.Slug, resolved.Path)
	}
	return nil
}

func (p *Processor) fail(item models.QueueItem, now time.Time, cause error, result *PassResult) error {
	retries := item.Retries + 1

	if p.opts.Policy.Exhausted(retries) {
		if err := p.db.DeleteQueueItem(item.ID); err != nil {
			return fmt.Errorf("drop %s: %w", item.Slug, err)
		}
		result.Dropped++
		p.journal.Error("Permanently failed %s (%s) after %d attempts: %v", item.Slug, item.Language, retries, cause)
		return nil
	}

	if err := p.db.RecordQueueFailure(item.ID, retries, now, cause.Error()); err != nil {
		return fmt.Errorf("record failure for %s: %w", item.Slug, err)
	}
	result.Retried++
	p.journal.Warn("Retry scheduled for %s (%s), attempt %d failed (%s), next in %s",
		item.Slug, item.Language, retries, remote.Describe(cause), p.opts.Policy.Delay(retries))
	return nil
}

// publish commits the progress documents. A failure leaves the progress
// dirty so the next pass publishes again.
func (p *Processor) publish(ctx context.Context, committer *remote.Committer, settings models.Settings, result *PassResult) error {
	out, err := p.opts.Publisher.Publish(ctx, committer, settings)
	if err != nil {
		result.ProgressError = err.Error()
		p.journal.Warn("Progress update failed (%s): %v", remote.Describe(err), err)
		if err := p.db.SetProgressDirty(true); err != nil {
			return fmt.Errorf("record progress state: %w", err)
		}
		return nil
	}
	result.Published = true
	if result.Processed > 0 {
		p.journal.Info("Synced %d item(s); progress updated (%d solved)", result.Processed, out.Total)
	} else {
		p.journal.Info("Progress updated after an earlier failure (%d solved)", out.Total)
	}
	if err := p.db.SetProgressDirty(false); err != nil {
		return fmt.Errorf("record progress state: %w", err)
	}
	return nil
}
