package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/asteroid-belt/solvesync/internal/db"
	"github.com/asteroid-belt/solvesync/internal/layout"
	"github.com/asteroid-belt/solvesync/internal/models"
	"github.com/asteroid-belt/solvesync/internal/remote"
)

// Default document names under the settings base directory.
const (
	DefaultSnapshotFile = "progress.json"
	DefaultDigestFile   = "README.md"
)

// PublisherOptions names the documents and shapes the digest.
type PublisherOptions struct {
	SnapshotFile string
	DigestFile   string
	RecentLimit  int
	ProblemURL   string
	Now          func() time.Time
}

// Publisher regenerates the summary documents from the database and
// commits both, always overwriting.
type Publisher struct {
	db   *db.DB
	opts PublisherOptions
}

// NewPublisher creates a publisher reading from database.
func NewPublisher(database *db.DB, opts PublisherOptions) *Publisher {
	if opts.SnapshotFile == "" {
		opts.SnapshotFile = DefaultSnapshotFile
	}
	if opts.DigestFile == "" {
		opts.DigestFile = DefaultDigestFile
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Publisher{db: database, opts: opts}
}

// Published reports where the documents went.
type Published struct {
	SnapshotPath string `json:"snapshotPath"`
	DigestPath   string `json:"digestPath"`
	Total        int    `json:"total"`
}

// Build regenerates the documents without committing them.
func (p *Publisher) Build(settings models.Settings) (Snapshot, string, error) {
	solved, err := p.db.ListSolved()
	if err != nil {
		return Snapshot{}, "", fmt.Errorf("list solved: %w", err)
	}
	mapping, err := p.db.ListMapping()
	if err != nil {
		return Snapshot{}, "", fmt.Errorf("list mapping: %w", err)
	}

	snap, digest := Regenerate(solved, mapping, p.opts.Now(), Options{
		RecentLimit: p.opts.RecentLimit,
		ProblemURL:  p.opts.ProblemURL,
		BaseDir:     layout.DocumentPath(settings, ""),
	})
	return snap, digest, nil
}

// Publish commits the snapshot and the digest, then records the time in
// last_progress. A digest missing its required sections is not committed.
func (p *Publisher) Publish(ctx context.Context, committer *remote.Committer, settings models.Settings) (Published, error) {
	snap, digest, err := p.Build(settings)
	if err != nil {
		return Published{}, err
	}

	if err := CheckDigest(digest, snap.Total); err != nil {
		return Published{}, err
	}
	data, err := snap.Marshal()
	if err != nil {
		return Published{}, err
	}

	out := Published{
		SnapshotPath: layout.DocumentPath(settings, p.opts.SnapshotFile),
		DigestPath:   layout.DocumentPath(settings, p.opts.DigestFile),
		Total:        snap.Total,
	}
	message := fmt.Sprintf("Update progress (%d solved)", snap.Total)

	docs := []struct {
		path    string
		content []byte
	}{
		{out.SnapshotPath, data},
		{out.DigestPath, []byte(digest)},
	}
	for _, doc := range docs {
		_, err := committer.CommitFile(ctx, remote.FileCommit{
			Path:    doc.path,
			Branch:  settings.Branch,
			Message: message,
			Content: doc.content,
			Policy:  remote.OverwriteReplace,
		})
		if err != nil {
			return Published{}, err
		}
	}

	if err := p.db.SetSyncTime(models.SyncMetaLastProgress, p.opts.Now()); err != nil {
		return Published{}, fmt.Errorf("record progress time: %w", err)
	}
	return out, nil
}
