package diskusage

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// writeTree creates files with the given sizes on fsys.
func writeTree(t *testing.T, fsys afero.Fs, files map[string]int) {
	t.Helper()

	for path, size := range files {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fsys, path, make([]byte, size), 0o644))
	}
}

// faultySource wraps a Source and injects listing and metadata failures.
// statAs makes Stat of a path answer with the info of another path.
type faultySource struct {
	Source
	listErrs map[string]error
	infoErrs map[string]error
	statAs   map[string]string
}

func (s *faultySource) Stat(path string) (fs.FileInfo, error) {
	if other, ok := s.statAs[path]; ok {
		return s.Source.Stat(other)
	}

	return s.Source.Stat(path)
}

func (s *faultySource) ReadDir(path string) ([]fs.DirEntry, error) {
	if err, ok := s.listErrs[path]; ok {
		return nil, err
	}

	entries, err := s.Source.ReadDir(path)
	if err != nil {
		return nil, err
	}

	for i, entry := range entries {
		if err, ok := s.infoErrs[filepath.Join(path, entry.Name())]; ok {
			entries[i] = &statEntry{name: entry.Name(), typ: entry.Type(), err: err}
		}
	}

	return entries, nil
}

// checkInvariants verifies that every registered directory equals the sum of
// its direct files and registered subdirectories.
func checkInvariants(t *testing.T, src Source, res *Result) {
	t.Helper()

	aggs := map[string]*Aggregate{res.RootPath: res.Root}
	for path, agg := range res.Registry {
		aggs[path] = agg
	}

	for dir, agg := range aggs {
		entries, err := src.ReadDir(dir)
		require.NoError(t, err)

		var bytes, count uint64

		exts := map[string]uint64{}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())

			if entry.IsDir() {
				child, ok := aggs[path]
				require.True(t, ok, "missing aggregate for %s", path)

				bytes += child.TotalBytes
				count += child.FileCount

				for ext, size := range child.Extensions {
					exts[ext] += size
				}

				continue
			}

			info, err := entry.Info()
			require.NoError(t, err)

			bytes += uint64(info.Size())
			count++
			exts[Extension(path)] += uint64(info.Size())
		}

		require.Equal(t, bytes, agg.TotalBytes, "total bytes of %s", dir)
		require.Equal(t, count, agg.FileCount, "file count of %s", dir)
		require.Equal(t, exts, agg.Extensions, "extensions of %s", dir)
	}
}

// lstatFailFs is an afero filesystem whose Lstat fails for one path.
type lstatFailFs struct {
	afero.Fs
	path string
	err  error
}

func (f *lstatFailFs) LstatIfPossible(name string) (fs.FileInfo, bool, error) {
	if filepath.Clean(name) == f.path {
		return nil, true, f.err
	}

	info, err := f.Fs.Stat(name)

	return info, false, err
}
