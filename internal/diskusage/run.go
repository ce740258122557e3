package diskusage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Options configures a scan started with Run.
type Options struct {
	// Path is the directory to analyze.
	Path string
	// OnDirectoryError selects the policy for unlistable directories.
	OnDirectoryError DirectoryErrorPolicy
	// IncludeRoot also registers the scan root.
	IncludeRoot bool
	// FollowSymlinks classifies symlinks by their target instead of
	// ignoring them.
	FollowSymlinks bool
	// Parallel takes a fastwalk snapshot before aggregating.
	Parallel bool
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// LogWriter receives debug output and warnings.
	LogWriter io.Writer
	// Fs is the filesystem to scan when Parallel is false. Defaults to the OS.
	Fs afero.Fs
}

// Run resolves opt.Path to an absolute path and scans it.
//
// With opt.Parallel the tree is first captured with fastwalk and then
// aggregated from the snapshot; otherwise opt.Fs is walked directly.
// Progress updates are sent to progressHook if provided.
func Run(ctx context.Context, opt Options, progressHook func(int64, int64)) (*Result, error) {
	log := NewLogger(opt.LogWriter, opt.Debug)

	if opt.Path == "" {
		opt.Path = "."
	}

	absPath, err := filepath.Abs(filepath.Clean(opt.Path))
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	log.Debugf("scanning %s", absPath)
	log.Debugf("directory error policy: %s", opt.OnDirectoryError)
	log.Debugf("follow symlinks: %t", opt.FollowSymlinks)

	counters := &Counters{}

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	startProgressReporter(ctx, counters, progressHook, opt.ProgressInterval)

	start := time.Now()

	walkOpts := WalkOptions{
		OnDirectoryError: opt.OnDirectoryError,
		IncludeRoot:      opt.IncludeRoot,
		FollowSymlinks:   opt.FollowSymlinks,
		Logger:           log,
	}

	var walker *Walker

	if opt.Parallel {
		snap, err := TakeSnapshot(ctx, absPath, SnapshotOptions{
			Follow:   opt.FollowSymlinks,
			Counters: counters,
			Logger:   log,
		})
		if err != nil {
			return nil, err
		}

		log.Debugf("snapshot taken in %v", time.Since(start))

		walker = NewWalker(snap, walkOpts)
	} else {
		fsys := opt.Fs
		if fsys == nil {
			fsys = afero.NewOsFs()
		}

		walker = NewWalker(NewAferoSource(fsys), walkOpts).WithCounters(counters)
	}

	res, err := walker.Scan(ctx, absPath)
	if err != nil {
		return nil, err
	}

	res.Elapsed = time.Since(start)

	return res, nil
}
