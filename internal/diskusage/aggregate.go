package diskusage

import (
	"path/filepath"
	"sort"
	"strings"
)

// FileEntry is a single file path and size.
type FileEntry struct {
	// Path is the file path.
	Path string `json:"path"`
	// Size is the size in bytes.
	Size uint64 `json:"size"`
}

// Aggregate holds the accumulated statistics of one directory subtree.
type Aggregate struct {
	// TotalBytes is the sum of sizes of all regular files in the subtree.
	TotalBytes uint64 `json:"total_bytes"`
	// FileCount is the number of regular files in the subtree.
	FileCount uint64 `json:"file_count"`
	// Largest is the largest file in the subtree, nil if there are no files.
	Largest *FileEntry `json:"largest,omitempty"`
	// Extensions maps lowercase extensions (without dot) to cumulative bytes.
	Extensions map[string]uint64 `json:"extensions"`
}

// NewAggregate returns an empty aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{Extensions: make(map[string]uint64)}
}

// Extension returns the lowercase extension of path without the leading dot,
// or the empty string if it has none. Dotfiles such as ".bashrc" have no
// extension.
func Extension(path string) string {
	base := filepath.Base(path)

	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}

	return strings.ToLower(base[i+1:])
}

// AddFile records a regular file of the given size.
func (a *Aggregate) AddFile(path string, size uint64) {
	a.TotalBytes += size
	a.FileCount++
	a.offerLargest(FileEntry{Path: path, Size: size})
	a.Extensions[Extension(path)] += size
}

// Merge folds a finished child aggregate into a.
func (a *Aggregate) Merge(child *Aggregate) {
	a.TotalBytes += child.TotalBytes
	a.FileCount += child.FileCount

	if child.Largest != nil {
		a.offerLargest(*child.Largest)
	}

	for ext, size := range child.Extensions {
		a.Extensions[ext] += size
	}
}

// offerLargest replaces the largest file only when candidate is strictly
// larger, so the first file seen wins a tie.
func (a *Aggregate) offerLargest(candidate FileEntry) {
	if a.Largest == nil || candidate.Size > a.Largest.Size {
		a.Largest = &candidate
	}
}

// ExtensionStat is one bucket of an extension histogram.
type ExtensionStat struct {
	// Extension is the lowercase extension, empty for files without one.
	Extension string `json:"extension"`
	// Size is the cumulative size in bytes.
	Size uint64 `json:"size"`
}

// SortedExtensions returns the histogram ordered by extension name.
func (a *Aggregate) SortedExtensions() []ExtensionStat {
	exts := make([]ExtensionStat, 0, len(a.Extensions))
	for ext, size := range a.Extensions {
		exts = append(exts, ExtensionStat{Extension: ext, Size: size})
	}

	sort.Slice(exts, func(i, j int) bool {
		return exts[i].Extension < exts[j].Extension
	})

	return exts
}
