package diskusage

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// Source is the filesystem view a Walker traverses.
//
// ReadDir must return the entries of a directory in traversal order. The
// order decides which file wins a tie for the largest file. Stat follows
// symlinks.
type Source interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
}

// errNoInfo is returned by Info for entries whose metadata was not recorded.
var errNoInfo = errors.New("file info not recorded")

// statEntry is a directory entry whose metadata was resolved up front.
// A non-nil err makes Info fail, which a Walker treats as an unreadable file.
type statEntry struct {
	name string
	typ  fs.FileMode
	info fs.FileInfo
	err  error
}

func (e *statEntry) Name() string      { return e.name }
func (e *statEntry) IsDir() bool       { return e.typ.IsDir() }
func (e *statEntry) Type() fs.FileMode { return e.typ }

func (e *statEntry) Info() (fs.FileInfo, error) {
	if e.info == nil && e.err == nil {
		return nil, errNoInfo
	}

	return e.info, e.err
}

// AferoSource adapts an afero filesystem to a Source.
type AferoSource struct {
	fs afero.Fs
}

// NewAferoSource returns a Source reading from fsys.
func NewAferoSource(fsys afero.Fs) *AferoSource {
	return &AferoSource{fs: fsys}
}

// Stat returns the file info of path, following symlinks.
func (s *AferoSource) Stat(path string) (fs.FileInfo, error) {
	return s.fs.Stat(path)
}

// ReadDir lists path sorted by name.
//
// Names are read first and each entry is then Lstat'ed on its own, so an
// entry whose metadata cannot be read is returned with a failing Info
// instead of failing the whole listing.
func (s *AferoSource) ReadDir(path string) ([]fs.DirEntry, error) {
	dir, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, err
	}

	sort.Strings(names)

	entries := make([]fs.DirEntry, len(names))
	for i, name := range names {
		info, err := s.lstat(filepath.Join(path, name))
		if err != nil {
			entries[i] = &statEntry{name: name, err: err}

			continue
		}

		entries[i] = &statEntry{name: name, typ: info.Mode().Type(), info: info}
	}

	return entries, nil
}

// lstat uses Lstat where the filesystem supports it.
func (s *AferoSource) lstat(path string) (fs.FileInfo, error) {
	if lstater, ok := s.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)

		return info, err
	}

	return s.fs.Stat(path)
}
