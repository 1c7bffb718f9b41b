package remote

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	gitHttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// GitOptions configures a GitStore.
type GitOptions struct {
	// Push sends each commit to RemoteName after it is created. Commits
	// left behind by a failed push are retried before the next read.
	Push       bool
	RemoteName string
	// Token authenticates pushes over HTTPS.
	Token       string
	AuthorName  string
	AuthorEmail string
}

// GitStore implements Store on a local git working tree. The blob hash of
// a file at the branch tip is its version token. Writes require the
// branch to be checked out.
type GitStore struct {
	repo *git.Repository
	opts GitOptions
	mu   sync.Mutex
}

// OpenGitStore opens the working tree repository at dir.
func OpenGitStore(dir string, opts GitOptions) (*GitStore, error) {
	r, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", dir, err)
	}
	return NewGitStore(r, opts), nil
}

// NewGitStore wraps an already opened repository.
func NewGitStore(r *git.Repository, opts GitOptions) *GitStore {
	if opts.RemoteName == "" {
		opts.RemoteName = git.DefaultRemoteName
	}
	if opts.AuthorName == "" {
		opts.AuthorName = "solvesync"
	}
	if opts.AuthorEmail == "" {
		opts.AuthorEmail = "solvesync@users.noreply.github.com"
	}
	return &GitStore{repo: r, opts: opts}
}

// GetFile reads path from the tip of branch. When pushing, local commits
// the remote has not received are pushed first, so a file is only reported
// as present once it exists on the remote.
func (s *GitStore) GetFile(ctx context.Context, filePath, branch string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.Push {
		if err := s.pushPending(ctx, branch); err != nil {
			return nil, err
		}
	}
	return s.readFile(filePath, branch)
}

// PutFile writes, stages, and commits the file on branch, then pushes
// when configured.
func (s *GitStore) PutFile(ctx context.Context, req PutRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureCheckedOut(req.Branch); err != nil {
		return "", err
	}

	current, err := s.readFile(req.Path, req.Branch)
	switch {
	case errors.Is(err, ErrNotFound):
		if req.VersionToken != "" {
			return "", &ConflictError{Path: req.Path, Err: errors.New("file no longer exists")}
		}
	case err != nil:
		return "", err
	case current.VersionToken != req.VersionToken:
		return "", &ConflictError{Path: req.Path}
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}
	if dir := path.Dir(req.Path); dir != "." {
		if err := wt.Filesystem.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := util.WriteFile(wt.Filesystem, req.Path, req.Content, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", req.Path, err)
	}
	if _, err := wt.Add(req.Path); err != nil {
		return "", fmt.Errorf("stage %s: %w", req.Path, err)
	}

	_, err = wt.Commit(req.Message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  s.opts.AuthorName,
			Email: s.opts.AuthorEmail,
			When:  time.Now(),
		},
	})
	// Unchanged content leaves nothing to commit; a pending push still runs.
	if err != nil && !errors.Is(err, git.ErrEmptyCommit) {
		return "", fmt.Errorf("commit %s: %w", req.Path, err)
	}

	if s.opts.Push {
		if err := s.push(ctx, req.Branch); err != nil {
			return "", err
		}
	}

	return plumbing.ComputeHash(plumbing.BlobObject, req.Content).String(), nil
}

// CheckAccess verifies the worktree and, when pushing, that the remote
// accepts the credential.
func (s *GitStore) CheckAccess(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Worktree(); err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	if !s.opts.Push {
		return nil
	}

	remote, err := s.repo.Remote(s.opts.RemoteName)
	if err != nil {
		return fmt.Errorf("remote %s: %w", s.opts.RemoteName, err)
	}
	if _, err := remote.ListContext(ctx, &git.ListOptions{Auth: s.auth()}); err != nil {
		return fmt.Errorf("list %s: %w", s.opts.RemoteName, err)
	}
	return nil
}

func (s *GitStore) readFile(filePath, branch string) (*File, error) {
	ref, err := s.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve %s: %w", branch, err)
	}

	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read commit: %w", err)
	}

	f, err := commit.File(filePath)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}

	contents, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}

	return &File{Path: filePath, VersionToken: f.Hash.String(), Content: []byte(contents)}, nil
}

func (s *GitStore) ensureCheckedOut(branch string) error {
	head, err := s.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return fmt.Errorf("read HEAD: %w", err)
	}

	current := head.Name()
	if head.Type() == plumbing.SymbolicReference {
		current = head.Target()
	}
	if current != plumbing.NewBranchReferenceName(branch) {
		return fmt.Errorf("branch %s is not checked out (HEAD is %s)", branch, current.Short())
	}
	return nil
}

// pushPending pushes branch when its tip differs from the remote-tracking
// ref. A branch with no commits has nothing to push.
func (s *GitStore) pushPending(ctx context.Context, branch string) error {
	local, err := s.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil
		}
		return fmt.Errorf("resolve %s: %w", branch, err)
	}

	tracking, err := s.repo.Reference(plumbing.NewRemoteReferenceName(s.opts.RemoteName, branch), true)
	if err == nil && tracking.Hash() == local.Hash() {
		return nil
	}
	return s.push(ctx, branch)
}

func (s *GitStore) push(ctx context.Context, branch string) error {
	err := s.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: s.opts.RemoteName,
		Auth:       s.auth(),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("push: %w", err)
	}

	local, err := s.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return nil
	}
	tracking := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(s.opts.RemoteName, branch), local.Hash())
	if err := s.repo.Storer.SetReference(tracking); err != nil {
		return fmt.Errorf("record push of %s: %w", branch, err)
	}
	return nil
}

func (s *GitStore) auth() *gitHttp.BasicAuth {
	if s.opts.Token == "" {
		return nil
	}
	return &gitHttp.BasicAuth{Username: "oauth2", Password: s.opts.Token}
}
