package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	files    map[string]*File
	getErr   error
	putErr   error
	puts     []PutRequest
	deadline bool
}

func (s *stubStore) GetFile(ctx context.Context, path, branch string) (*File, error) {
	if _, ok := ctx.Deadline(); ok {
		s.deadline = true
	}
	if s.getErr != nil {
		return nil, s.getErr
	}
	if f, ok := s.files[path]; ok {
		return f, nil
	}
	return nil, ErrNotFound
}

func (s *stubStore) PutFile(ctx context.Context, req PutRequest) (string, error) {
	s.puts = append(s.puts, req)
	if s.putErr != nil {
		return "", s.putErr
	}
	return "new-token", nil
}

func (s *stubStore) CheckAccess(ctx context.Context) error { return nil }

func TestCommitter_CreatesMissingFile(t *testing.T) {
	store := &stubStore{files: map[string]*File{}}
	c := NewCommitter(store, time.Second)

	res, err := c.CommitFile(context.Background(), FileCommit{Path: "a.py", Branch: "main", Content: []byte("x")})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "new-token", res.Token)
	require.Len(t, store.puts, 1)
	assert.Empty(t, store.puts[0].VersionToken)
	assert.True(t, store.deadline)
}

func TestCommitter_UsesFetchedToken(t *testing.T) {
	store := &stubStore{files: map[string]*File{"a.py": {Path: "a.py", VersionToken: "v1"}}}
	c := NewCommitter(store, 0)

	res, err := c.CommitFile(context.Background(), FileCommit{Path: "a.py", Branch: "main", Content: []byte("x")})
	require.NoError(t, err)
	assert.False(t, res.Created)
	require.Len(t, store.puts, 1)
	assert.Equal(t, "v1", store.puts[0].VersionToken)
}

func TestCommitter_SkipPolicy(t *testing.T) {
	store := &stubStore{files: map[string]*File{"a.py": {Path: "a.py", VersionToken: "v1"}}}
	c := NewCommitter(store, 0)

	res, err := c.CommitFile(context.Background(), FileCommit{Path: "a.py", Policy: OverwriteSkip})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, store.puts)
}

func TestCommitter_PropagatesConflict(t *testing.T) {
	store := &stubStore{files: map[string]*File{}, putErr: &ConflictError{Path: "a.py"}}
	c := NewCommitter(store, 0)

	_, err := c.CommitFile(context.Background(), FileCommit{Path: "a.py"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "conflict", Describe(err))
}

func TestCommitter_ReadFailureStopsBeforeWrite(t *testing.T) {
	store := &stubStore{getErr: errors.New("connection reset")}
	c := NewCommitter(store, 0)

	_, err := c.CommitFile(context.Background(), FileCommit{Path: "a.py"})
	require.Error(t, err)
	assert.Empty(t, store.puts)
	assert.Equal(t, "network", Describe(err))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "timeout", Describe(context.DeadlineExceeded))
	assert.Equal(t, "http 500", Describe(&HTTPError{StatusCode: 500}))
}
