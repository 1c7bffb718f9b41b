package testutil

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"sync"

	"github.com/asteroid-belt/solvesync/internal/remote"
)

// FakeStore is an in-memory remote.Store with failure injection.
type FakeStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	commits []remote.PutRequest

	// FailPuts makes the next n PutFile calls return PutErr.
	FailPuts int
	PutErr   error
	// ConflictPuts makes the next n PutFile calls report a stale token.
	ConflictPuts int
	// AccessErr is returned by CheckAccess.
	AccessErr error
	// OnPut runs inside PutFile before the write, for concurrency tests.
	OnPut func()
}

// NewFakeStore creates an empty store.
func NewFakeStore() *FakeStore {
	return &FakeStore{files: make(map[string][]byte)}
}

func token(content []byte) string {
	sum := sha1.Sum(content)
	return hex.EncodeToString(sum[:])
}

// GetFile implements remote.Store.
func (s *FakeStore) GetFile(ctx context.Context, path, branch string) (*remote.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.files[path]
	if !ok {
		return nil, remote.ErrNotFound
	}
	return &remote.File{Path: path, VersionToken: token(content), Content: append([]byte(nil), content...)}, nil
}

// PutFile implements remote.Store with version-token checking.
func (s *FakeStore) PutFile(ctx context.Context, req remote.PutRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.OnPut != nil {
		s.OnPut()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailPuts > 0 {
		s.FailPuts--
		return "", s.PutErr
	}
	if s.ConflictPuts > 0 {
		s.ConflictPuts--
		return "", &remote.ConflictError{Path: req.Path}
	}

	current, exists := s.files[req.Path]
	if exists && token(current) != req.VersionToken {
		return "", &remote.ConflictError{Path: req.Path}
	}
	if !exists && req.VersionToken != "" {
		return "", &remote.ConflictError{Path: req.Path}
	}

	s.files[req.Path] = append([]byte(nil), req.Content...)
	s.commits = append(s.commits, req)
	return token(req.Content), nil
}

// CheckAccess implements remote.Store.
func (s *FakeStore) CheckAccess(ctx context.Context) error {
	return s.AccessErr
}

// Put seeds a file without recording a commit.
func (s *FakeStore) Put(path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
}

// File returns the content at path.
func (s *FakeStore) File(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.files[path]
	return c, ok
}

// Paths returns every stored path, sorted.
func (s *FakeStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Commits returns the successful writes in order.
func (s *FakeStore) Commits() []remote.PutRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]remote.PutRequest(nil), s.commits...)
}

// CommitsTo counts successful writes to path.
func (s *FakeStore) CommitsTo(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.commits {
		if c.Path == path {
			n++
		}
	}
	return n
}
