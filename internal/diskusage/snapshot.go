package diskusage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// SnapshotOptions configures TakeSnapshot.
type SnapshotOptions struct {
	// Follow descends into symlinked directories and records the targets of
	// all symlinks. fastwalk skips links that lead back into a visited
	// directory.
	Follow bool
	// Counters receives progress. May be nil.
	Counters *Counters
	// Logger receives debug output.
	Logger Logger
}

// Snapshot is a listing of a directory tree captured with fastwalk.
//
// Directories are listed concurrently and regular file sizes are resolved
// during the walk. Listing errors are recorded per directory and returned by
// ReadDir, so a Walker applies its policy to them as it would on a live
// filesystem. Entries are sorted by name.
type Snapshot struct {
	root     string
	rootInfo fs.FileInfo
	rootErr  error

	mu      sync.Mutex
	opts    SnapshotOptions
	dirs    map[string][]fs.DirEntry
	errs    map[string]error
	entries map[string]*statEntry
	targets map[string]*statEntry
}

func newSnapshot(root string, opts SnapshotOptions) *Snapshot {
	return &Snapshot{
		root:    filepath.Clean(root),
		opts:    opts,
		dirs:    make(map[string][]fs.DirEntry),
		errs:    make(map[string]error),
		entries: make(map[string]*statEntry),
		targets: make(map[string]*statEntry),
	}
}

// TakeSnapshot walks root in parallel.
func TakeSnapshot(ctx context.Context, root string, opts SnapshotOptions) (*Snapshot, error) {
	snap := newSnapshot(root, opts)

	snap.rootInfo, snap.rootErr = os.Stat(snap.root)
	if snap.rootErr != nil || !snap.rootInfo.IsDir() {
		return snap, nil
	}

	conf := &fastwalk.Config{
		Follow: opts.Follow,
	}

	walkErr := fastwalk.Walk(conf, snap.root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		snap.record(path, d, err)

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %q: %w", snap.root, walkErr)
	}

	snap.sort()

	return snap, nil
}

// record stores one fastwalk callback. It is safe for concurrent use.
//
//nolint:varnamelen // d is standard for DirEntry
func (s *Snapshot) record(path string, d fs.DirEntry, err error) {
	path = filepath.Clean(path)
	log := s.opts.Logger

	if err != nil {
		log.Debugf("error accessing path %s: %v", path, err)
	}

	if path == s.root {
		if err != nil {
			s.mu.Lock()
			s.errs[path] = err
			s.mu.Unlock()
		}

		return
	}

	// A failing directory or followed link keeps its entry and fails its
	// listing. Any other failing entry becomes an unreadable file.
	if err != nil && d != nil && !d.Type().IsRegular() {
		s.mu.Lock()
		s.errs[path] = err
		s.mu.Unlock()

		if _, ok := s.lookup(path); ok {
			return
		}
	}

	entry := &statEntry{name: filepath.Base(path), err: err}

	if d != nil {
		entry.typ = d.Type()
	}

	if err == nil {
		switch {
		case entry.typ.IsRegular():
			entry.info, entry.err = d.Info()
			if entry.err == nil {
				s.opts.Counters.add(uint64(max(entry.info.Size(), 0)))
			}
		case entry.typ&fs.ModeSymlink != 0 && s.opts.Follow:
			target := &statEntry{name: entry.name}

			target.info, target.err = os.Stat(path)
			if target.err == nil {
				target.typ = target.info.Mode().Type()
				if target.typ.IsRegular() {
					s.opts.Counters.add(uint64(max(target.info.Size(), 0)))
				}
			}

			s.mu.Lock()
			s.targets[path] = target
			s.mu.Unlock()
		}
	}

	parent := filepath.Dir(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[path]; ok {
		// fastwalk may report a path twice; keep the first entry and any error.
		if existing.err == nil && entry.err != nil && !existing.IsDir() {
			existing.err = entry.err
		}

		return
	}

	s.entries[path] = entry
	s.dirs[parent] = append(s.dirs[parent], entry)

	if entry.IsDir() {
		if _, ok := s.dirs[path]; !ok {
			s.dirs[path] = nil
		}
	}
}

func (s *Snapshot) lookup(path string) (*statEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[path]

	return entry, ok
}

// sort orders every listing by name.
func (s *Snapshot) sort() {
	for _, entries := range s.dirs {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name() < entries[j].Name()
		})
	}
}

// Stat returns the cached info of the root or of a recorded symlink target.
// Other paths are stat'ed live.
func (s *Snapshot) Stat(path string) (fs.FileInfo, error) {
	path = filepath.Clean(path)

	if path == s.root {
		return s.rootInfo, s.rootErr
	}

	if target, ok := s.targets[path]; ok {
		return target.info, target.err
	}

	return os.Stat(path)
}

// ReadDir returns the captured entries of path, or the error recorded while
// listing it. A followed directory link that fastwalk did not descend into,
// because it leads back into the tree, lists as empty.
func (s *Snapshot) ReadDir(path string) ([]fs.DirEntry, error) {
	path = filepath.Clean(path)

	if err, ok := s.errs[path]; ok {
		return nil, err
	}

	entries, ok := s.dirs[path]
	if !ok {
		if path == s.root {
			return nil, nil
		}

		if target, ok := s.targets[path]; ok && target.err == nil && target.info.IsDir() {
			return nil, nil
		}

		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}

	return entries, nil
}
