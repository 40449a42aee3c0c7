// Package watch polls template and data files for modifications so the
// live server can reload them.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Change is a detected file change.
type Change struct {
	Path    string
	Removed bool
}

// Config configures the watcher.
type Config struct {
	// Paths are files or directories to watch.
	Paths []string

	// Ignore lists base names or globs to skip inside directories.
	// Default: DefaultIgnore.
	Ignore []string

	// Interval is the polling period.
	// Default: 250 milliseconds.
	Interval time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher detects modified, created and removed files by polling
// modification times.
type Watcher struct {
	config Config

	mu         sync.Mutex
	onChange   func([]Change)
	timestamps map[string]time.Time
	scanned    bool
}

// New creates a watcher.
func New(config Config) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 250 * time.Millisecond
	}
	if config.Ignore == nil {
		config.Ignore = DefaultIgnore
	}
	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback. It receives all changes of one poll,
// sorted by path.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Run polls until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.Poll()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			changes := w.Poll()
			w.mu.Lock()
			fn := w.onChange
			w.mu.Unlock()
			if fn != nil && len(changes) > 0 {
				fn(changes)
			}
		}
	}
}

// Poll scans once and returns what changed since the previous scan. The
// first scan only records the baseline.
func (w *Watcher) Poll() []Change {
	seen := make(map[string]time.Time)
	for _, p := range w.config.Paths {
		w.scan(p, seen)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var changes []Change
	if w.scanned {
		for p, mod := range seen {
			if last, ok := w.timestamps[p]; !ok || !mod.Equal(last) {
				changes = append(changes, Change{Path: p})
			}
		}
		for p := range w.timestamps {
			if _, ok := seen[p]; !ok {
				changes = append(changes, Change{Path: p, Removed: true})
			}
		}
	}
	w.timestamps = seen
	w.scanned = true

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

func (w *Watcher) scan(root string, seen map[string]time.Time) {
	info, err := os.Stat(root)
	if err != nil {
		return
	}
	if !info.IsDir() {
		seen[root] = info.ModTime()
		return
	}
	filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if p != root && w.shouldIgnore(p) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() {
			seen[p] = info.ModTime()
		}
		return nil
	})
}

// shouldIgnore matches the base name against the ignore list.
func (w *Watcher) shouldIgnore(p string) bool {
	name := filepath.Base(p)
	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
