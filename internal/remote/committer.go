package remote

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds each call to the remote store.
const DefaultTimeout = 20 * time.Second

// OverwritePolicy decides what happens when the target file already exists.
type OverwritePolicy int

const (
	// OverwriteReplace updates the existing file.
	OverwriteReplace OverwritePolicy = iota
	// OverwriteSkip leaves the existing file untouched and reports success.
	OverwriteSkip
)

// FileCommit describes one file to commit.
type FileCommit struct {
	Path    string
	Branch  string
	Message string
	Content []byte
	Policy  OverwritePolicy
}

// CommitResult is the outcome of a successful CommitFile.
type CommitResult struct {
	Skipped bool   // file existed and the policy was OverwriteSkip
	Created bool   // file did not exist before
	Token   string // new version token, empty when skipped
}

// Committer runs the read-then-write commit protocol against a Store.
type Committer struct {
	store   Store
	timeout time.Duration
}

// NewCommitter creates a committer. A non-positive timeout uses DefaultTimeout.
func NewCommitter(store Store, timeout time.Duration) *Committer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Committer{store: store, timeout: timeout}
}

// CommitFile fetches the current version token for the path, then writes
// the content with that token. Tokens are never reused across calls; a
// conflict is returned to the caller, who retries the whole commit later.
// Each successful write creates exactly one remote commit.
func (c *Committer) CommitFile(ctx context.Context, fc FileCommit) (CommitResult, error) {
	current, err := c.get(ctx, fc.Path, fc.Branch)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return CommitResult{}, fmt.Errorf("read %s: %w", fc.Path, err)
	}

	token := ""
	if current != nil {
		if fc.Policy == OverwriteSkip {
			return CommitResult{Skipped: true}, nil
		}
		token = current.VersionToken
	}

	newToken, err := c.put(ctx, PutRequest{
		Path:         fc.Path,
		Branch:       fc.Branch,
		Message:      fc.Message,
		Content:      fc.Content,
		VersionToken: token,
	})
	if err != nil {
		return CommitResult{}, fmt.Errorf("write %s: %w", fc.Path, err)
	}

	return CommitResult{Created: current == nil, Token: newToken}, nil
}

// CheckAccess verifies the credential against the store.
func (c *Committer) CheckAccess(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.store.CheckAccess(ctx)
}

func (c *Committer) get(ctx context.Context, path, branch string) (*File, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.store.GetFile(ctx, path, branch)
}

func (c *Committer) put(ctx context.Context, req PutRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.store.PutFile(ctx, req)
}
