// Package watch reruns work when document files change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/mmuldo/scaler/logger"
)

type Op int

const (
	Create Op = iota
	Modify
	Remove
	Rename
)

func (op Op) String() string {
	switch op {
	case Create:
		return "create"
	case Modify:
		return "modify"
	case Remove:
		return "remove"
	case Rename:
		return "rename"
	default:
		return "unknown"
	}
}

type Event struct {
	Path      string
	Op        Op
	Timestamp time.Time
}

// Watcher reports changes to files matching a set of doublestar patterns.
// Directories holding the patterns are watched rather than the files, so
// editors that save by renaming a temporary file are still seen.
type Watcher struct {
	config   Config
	patterns []string
	log      *slog.Logger
}

// New returns a watcher for files matching any of patterns. Each pattern is
// a path or glob whose directory part is literal.
func New(config Config, patterns ...string) (*Watcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("watch: no patterns")
	}
	abs := make([]string, len(patterns))
	for i, p := range patterns {
		a, e := filepath.Abs(p)
		if e != nil {
			return nil, e
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(a)) {
			return nil, fmt.Errorf("watch: bad pattern %q", p)
		}
		abs[i] = a
	}
	return &Watcher{
		config:   config,
		patterns: abs,
		log:      logger.ForComponent("watch"),
	}, nil
}

// Run calls onChange with each debounced batch of matching events until ctx
// is done. Batches are delivered one at a time.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, []Event)) error {
	fsw, e := fsnotify.NewWatcher()
	if e != nil {
		return e
	}
	defer fsw.Close()

	dirs := make(map[string]bool)
	for _, p := range w.patterns {
		dir, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		dir = filepath.FromSlash(dir)
		if dirs[dir] {
			continue
		}
		if e := fsw.Add(dir); e != nil {
			return fmt.Errorf("watch %s: %w", dir, e)
		}
		dirs[dir] = true
		w.log.Info("watching directory", "path", dir)
	}

	batches := make(chan []Event, 1)
	debouncer := NewDebouncer(w.config.Debounce, func(events []Event) {
		select {
		case batches <- events:
		case <-ctx.Done():
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case batch := <-batches:
			w.log.Info("files changed", "count", len(batch))
			onChange(ctx, batch)

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.log.Debug("file event", "path", event.Name, "op", event.Op.String())
			if ev, ok := w.convert(event); ok {
				debouncer.Add(ev)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) convert(event fsnotify.Event) (Event, bool) {
	if !w.Matches(event.Name) {
		return Event{}, false
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = Create
	case event.Has(fsnotify.Write):
		op = Modify
	case event.Has(fsnotify.Remove):
		op = Remove
	case event.Has(fsnotify.Rename):
		op = Rename
	default:
		return Event{}, false
	}

	return Event{Path: event.Name, Op: op, Timestamp: time.Now()}, true
}

// Matches reports whether path is one of the watched files and not ignored.
func (w *Watcher) Matches(path string) bool {
	p := filepath.ToSlash(path)
	for _, pattern := range w.config.Ignore {
		if match, _ := doublestar.Match(pattern, p); match {
			return false
		}
	}
	for _, pattern := range w.patterns {
		if match, _ := doublestar.Match(filepath.ToSlash(pattern), p); match {
			return true
		}
	}
	return false
}
