// Package queue admits submission events into the durable work queue,
// deduplicating against pending items and recently synced solutions.
package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asteroid-belt/solvesync/internal/db"
	"github.com/asteroid-belt/solvesync/internal/hash"
	"github.com/asteroid-belt/solvesync/internal/log"
	"github.com/asteroid-belt/solvesync/internal/models"
)

// DefaultFreshnessWindow is how long a synced fingerprint suppresses an
// identical resubmission.
const DefaultFreshnessWindow = 60 * time.Second

// ErrMalformedSubmission is returned for events without a slug.
var ErrMalformedSubmission = errors.New("malformed submission")

// Options configures a Manager.
type Options struct {
	FreshnessWindow time.Duration
	// Kick is called after an item is accepted. It must not block.
	Kick func()
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Manager owns admission into the queue.
type Manager struct {
	db      *db.DB
	journal *log.Journal
	window  time.Duration
	kick    func()
	now     func() time.Time
}

// NewManager creates a queue manager over database.
func NewManager(database *db.DB, journal *log.Journal, opts Options) *Manager {
	if opts.FreshnessWindow <= 0 {
		opts.FreshnessWindow = DefaultFreshnessWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if journal == nil {
		journal = log.NewJournal(nil)
	}
	return &Manager{
		db:      database,
		journal: journal,
		window:  opts.FreshnessWindow,
		kick:    opts.Kick,
		now:     opts.Now,
	}
}

// SetKick replaces the post-enqueue hook.
func (m *Manager) SetKick(kick func()) {
	m.kick = kick
}

// Enqueue admits a submission. It returns false without error when the
// event carries no code, when the same code was synced within the
// freshness window, or when an identical item is already pending. A
// pending item for the same slug and language with different code is
// replaced.
func (m *Manager) Enqueue(ctx context.Context, payload models.SubmissionPayload) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		return false, fmt.Errorf("%w: missing slug", ErrMalformedSubmission)
	}
	if payload.Code == "" {
		m.journal.Warn("Ignored submission for %s: no code captured", slug)
		return false, nil
	}

	language := payload.NormalizedLanguage()
	fp := hash.Fingerprint(slug, language, payload.Code)
	now := m.now().UTC()

	var (
		accepted bool
		reason   string
		replaced bool
	)
	err := m.db.Transaction(func(tx *db.DB) error {
		solved, err := tx.GetSolved(slug)
		if err != nil {
			return fmt.Errorf("read solved entry: %w", err)
		}
		if solved != nil && solved.Fingerprint == fp && now.Sub(solved.SolvedAt) < m.window {
			reason = "already synced"
			return nil
		}

		existing, err := tx.FindQueueItem(slug, language)
		if err != nil {
			return fmt.Errorf("read queue: %w", err)
		}
		if existing != nil {
			if existing.Fingerprint == fp {
				reason = "already queued"
				return nil
			}
			if err := tx.DeleteQueueItem(existing.ID); err != nil {
				return fmt.Errorf("replace queued item: %w", err)
			}
			replaced = true
		}

		item := newItem(payload, slug, language, fp, now)
		if err := tx.InsertQueueItem(item); err != nil {
			return fmt.Errorf("insert queue item: %w", err)
		}
		accepted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if !accepted {
		m.journal.Debug("Skipped %s (%s): %s [%s]", slug, language, reason, hash.Short(fp))
		return false, nil
	}

	if replaced {
		m.journal.Info("Queued %s (%s), replacing older pending code", slug, language)
	} else {
		m.journal.Info("Queued %s (%s)", slug, language)
	}

	if m.kick != nil {
		m.kick()
	}
	return true, nil
}

// Pending returns the queue in processing order.
func (m *Manager) Pending() ([]models.QueueItem, error) {
	return m.db.ListQueue()
}

func newItem(p models.SubmissionPayload, slug, language, fp string, now time.Time) *models.QueueItem {
	item := &models.QueueItem{
		ID:          uuid.New().String(),
		Slug:        slug,
		Title:       strings.TrimSpace(p.Title),
		Category:    strings.TrimSpace(p.Category),
		ListName:    strings.TrimSpace(p.ListName),
		Difficulty:  strings.TrimSpace(p.Difficulty),
		Language:    language,
		Code:        p.Code,
		Source:      p.Source,
		Fingerprint: fp,
		At:          now,
		CapturedAt:  p.CapturedAt(),
	}
	if item.Source == "" {
		item.Source = models.SourceManual
	}
	if p.Meta != nil {
		item.Runtime = p.Meta.Runtime
		item.Memory = p.Meta.Memory
	}
	return item
}
