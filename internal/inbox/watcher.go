package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/asteroid-belt/solvesync/internal/log"
	"github.com/asteroid-belt/solvesync/internal/models"
	"github.com/asteroid-belt/solvesync/internal/service"
)

// RejectedDir is the subdirectory invalid events are moved into.
const RejectedDir = "rejected"

// Handler receives validated events. *service.Service satisfies it.
type Handler interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) (bool, service.Result)
	MergeCatalog(ctx context.Context, event models.CatalogEvent) (int, service.Result)
}

// Watcher consumes *.json files from a directory. Producers should write
// to a temporary name and rename into place; partially written files are
// left for the next event.
type Watcher struct {
	dir       string
	handler   Handler
	validator *Validator
	journal   *log.Journal
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, handler Handler, journal *log.Journal) (*Watcher, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if journal == nil {
		journal = log.NewJournal(nil)
	}
	if err := os.MkdirAll(filepath.Join(dir, RejectedDir), 0755); err != nil {
		return nil, fmt.Errorf("create inbox: %w", err)
	}
	return &Watcher{dir: dir, handler: handler, validator: v, journal: journal}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run drains files already present, then handles new ones until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	if _, err := w.Drain(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !isEventFile(ev.Name) {
				continue
			}
			w.handleFile(ctx, ev.Name, false)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.journal.Warn("Inbox watcher error: %v", err)
		}
	}
}

// Drain processes every event file currently in the directory, in name
// order, and returns how many were consumed. Unparseable files are
// rejected rather than left behind.
func (w *Watcher) Drain(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("read inbox: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && isEventFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	n := 0
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		if w.handleFile(ctx, filepath.Join(w.dir, name), true) {
			n++
		}
	}
	return n, nil
}

// handleFile consumes one file. With final unset, a file that is not yet
// complete JSON is left in place.
func (w *Watcher) handleFile(ctx context.Context, path string, final bool) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.journal.Warn("Inbox: read %s: %v", filepath.Base(path), err)
		}
		return false
	}
	if !final && !json.Valid(data) {
		return false
	}

	ev, err := w.validator.Decode(data)
	if err != nil {
		w.reject(path, err)
		return true
	}

	var res service.Result
	switch {
	case ev.Catalog != nil:
		_, res = w.handler.MergeCatalog(ctx, *ev.Catalog)
	case ev.Submission != nil:
		_, res = w.handler.Submit(ctx, *ev.Submission)
	}
	if !res.Success {
		w.reject(path, errors.New(res.Error))
		return true
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		w.journal.Warn("Inbox: remove %s: %v", filepath.Base(path), err)
	}
	return true
}

func (w *Watcher) reject(path string, cause error) {
	name := filepath.Base(path)
	w.journal.Warn("Inbox: rejected %s: %v", name, cause)
	if err := os.Rename(path, filepath.Join(w.dir, RejectedDir, name)); err != nil {
		w.journal.Error("Inbox: move %s to %s: %v", name, RejectedDir, err)
	}
}

func isEventFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, ".json") && !strings.HasPrefix(base, ".")
}
