package diskusage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"
)

// Result is the outcome of a scan.
type Result struct {
	// RootPath is the scanned path.
	RootPath string `json:"root_path"`
	// Root is the aggregate of the whole tree. It is not part of Registry
	// unless the scan was asked to include it.
	Root *Aggregate `json:"root"`
	// Registry holds the aggregates of all registered directories.
	Registry Registry `json:"-"`
	// SkippedFiles counts regular files whose size could not be read.
	SkippedFiles int `json:"skipped_files"`
	// SkippedDirs counts directories left out under SkipAndWarn.
	SkippedDirs int `json:"skipped_dirs"`
	// Unregistered counts directories whose path is not valid UTF-8.
	Unregistered int `json:"unregistered"`
	// Elapsed is the time taken by the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// WalkOptions configures a Walker.
type WalkOptions struct {
	// OnDirectoryError selects the policy for unlistable directories.
	OnDirectoryError DirectoryErrorPolicy
	// IncludeRoot also registers the scan root in the registry.
	IncludeRoot bool
	// FollowSymlinks classifies symlinks by their target. A link to a
	// directory that is already being traversed is not entered again.
	FollowSymlinks bool
	// Logger receives debug output and warnings.
	Logger Logger
}

// Walker aggregates directory trees read from a Source.
// A Walker is not safe for concurrent scans.
type Walker struct {
	source   Source
	opts     WalkOptions
	counters *Counters
}

// NewWalker creates a Walker over source.
func NewWalker(source Source, opts WalkOptions) *Walker {
	if opts.OnDirectoryError == "" {
		opts.OnDirectoryError = Abort
	}

	return &Walker{source: source, opts: opts}
}

// WithCounters makes the walker publish its progress to c.
func (w *Walker) WithCounters(c *Counters) *Walker {
	w.counters = c

	return w
}

// frame is a directory whose traversal is in progress.
type frame struct {
	path    string
	info    fs.FileInfo
	agg     *Aggregate
	entries []fs.DirEntry
	next    int
}

// Scan aggregates the tree rooted at root.
//
// A root that is not a directory yields an empty aggregate. Regular files
// whose size cannot be read are skipped. A directory that cannot be listed
// fails the scan with an error matching ErrDirectoryUnlistable, unless the
// policy is SkipAndWarn. Symlinks are ignored unless FollowSymlinks is set.
// Other special files are always ignored.
//
// Traversal is depth-first in the order returned by Source.ReadDir, using an
// explicit stack of frames so depth is not bounded by the call stack.
func (w *Walker) Scan(ctx context.Context, root string) (*Result, error) {
	log := w.opts.Logger
	root = filepath.Clean(root)

	res := &Result{
		RootPath: root,
		Root:     NewAggregate(),
		Registry: make(Registry),
	}

	info, err := w.source.Stat(root)
	if err != nil {
		log.Debugf("root %s cannot be accessed, treating as empty: %v", root, err)

		return res, nil
	}

	if !info.IsDir() {
		log.Debugf("root %s is not a directory, treating as empty", root)

		return res, nil
	}

	entries, skipped, err := w.open(root, res)
	if err != nil {
		return nil, err
	}

	if skipped {
		return res, nil
	}

	stack := []*frame{{path: root, info: info, agg: res.Root, entries: entries}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next == len(top.entries) {
			stack = stack[:len(stack)-1]

			if len(stack) == 0 {
				if w.opts.IncludeRoot {
					w.register(res, top.path, top.agg)
				}

				break
			}

			stack[len(stack)-1].agg.Merge(top.agg)
			w.register(res, top.path, top.agg)

			continue
		}

		entry := top.entries[top.next]
		top.next++

		path := filepath.Join(top.path, entry.Name())

		mode := entry.Type()
		info, infoErr := entry.Info()

		if mode&fs.ModeSymlink != 0 {
			if !w.opts.FollowSymlinks {
				log.Debugf("ignoring symlink %s", path)

				continue
			}

			if info, infoErr = w.source.Stat(path); infoErr != nil {
				log.Debugf("ignoring broken symlink %s: %v", path, infoErr)

				continue
			}

			mode = info.Mode().Type()

			if mode.IsDir() && onStack(stack, info) {
				log.Debugf("not following %s: it leads back into the tree", path)

				continue
			}
		}

		switch {
		case mode.IsDir():
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("scanning %q: %w", path, err)
			}

			children, skipped, err := w.open(path, res)
			if err != nil {
				return nil, err
			}

			if skipped {
				continue
			}

			stack = append(stack, &frame{path: path, info: info, agg: NewAggregate(), entries: children})
		case mode.IsRegular():
			if infoErr != nil {
				log.Debugf("skipping unreadable file %s: %v", path, infoErr)

				res.SkippedFiles++

				continue
			}

			size := uint64(max(info.Size(), 0))
			top.agg.AddFile(path, size)
			w.counters.add(size)
		default:
			log.Debugf("ignoring %s (%s)", path, mode)
		}
	}

	return res, nil
}

// onStack reports whether dir is one of the directories being traversed.
func onStack(stack []*frame, dir fs.FileInfo) bool {
	for _, f := range stack {
		if f.info != nil && os.SameFile(f.info, dir) {
			return true
		}
	}

	return false
}

// open lists path. A path that is no longer a directory lists as empty.
// skipped reports a listing failure tolerated by SkipAndWarn.
func (w *Walker) open(path string, res *Result) (entries []fs.DirEntry, skipped bool, err error) {
	entries, err = w.source.ReadDir(path)
	if err == nil {
		return entries, false, nil
	}

	if info, statErr := w.source.Stat(path); statErr == nil && !info.IsDir() {
		w.opts.Logger.Debugf("%s is not a directory, treating as empty", path)

		return nil, false, nil
	}

	listErr := &ListError{Path: path, Err: err}

	if w.opts.OnDirectoryError == SkipAndWarn {
		w.opts.Logger.Warnf("%v", listErr)

		res.SkippedDirs++

		return nil, true, nil
	}

	return nil, false, listErr
}

// register stores agg under path unless path is not valid UTF-8.
func (w *Walker) register(res *Result, path string, agg *Aggregate) {
	if !utf8.ValidString(path) {
		w.opts.Logger.Debugf("not registering directory with non UTF-8 path %q", path)

		res.Unregistered++

		return
	}

	res.Registry[path] = agg
}
