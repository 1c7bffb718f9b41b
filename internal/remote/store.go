// Package remote commits files to a versioned remote file store using
// optimistic concurrency: every write carries the version token read just
// before it, and a stale token is reported as a conflict.
package remote

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Store.GetFile when the path does not exist.
var ErrNotFound = errors.New("file not found")

// ErrConflict matches any *ConflictError.
var ErrConflict = errors.New("version conflict")

// ConflictError reports a write rejected because its version token was stale.
type ConflictError struct {
	Path string
	Err  error
}

func (e *ConflictError) Error() string {
	if e.Path == "" {
		return "version conflict"
	}
	if e.Err != nil {
		return fmt.Sprintf("version conflict for %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("version conflict for %s", e.Path)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-conflict, non-2xx response from the remote.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote returned %d", e.StatusCode)
	}
	return fmt.Sprintf("remote returned %d: %s", e.StatusCode, e.Body)
}

// File is a remote file with its current version token.
type File struct {
	Path         string
	VersionToken string
	Content      []byte
}

// PutRequest creates or updates a file. An empty VersionToken means the
// file is expected not to exist yet.
type PutRequest struct {
	Path         string
	Branch       string
	Message      string
	Content      []byte
	VersionToken string
}

// Store is a versioned remote file API.
type Store interface {
	// GetFile returns the file at path on branch, or ErrNotFound.
	GetFile(ctx context.Context, path, branch string) (*File, error)
	// PutFile writes the file and returns its new version token.
	PutFile(ctx context.Context, req PutRequest) (string, error)
	// CheckAccess verifies the store is reachable with the configured credential.
	CheckAccess(ctx context.Context) error
}

// Describe returns a short classification of a commit error for log lines.
func Describe(err error) string {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("http %d", httpErr.StatusCode)
	default:
		return "network"
	}
}
