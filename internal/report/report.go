package report

import (
	"sort"
	"time"

	"github.com/idelchi/dusage/internal/diskusage"
)

// Directory is one row of the directory ranking.
type Directory struct {
	// Path is the directory path.
	Path string `json:"path"`
	// Size is the cumulative size in bytes.
	Size uint64 `json:"size"`
	// FileCount is the number of files below the directory.
	FileCount uint64 `json:"file_count"`
}

// Report is the presentation-ready view of a scan.
type Report struct {
	// RootPath is the scanned path.
	RootPath string `json:"root_path"`
	// TotalBytes is the size of the whole tree.
	TotalBytes uint64 `json:"total_bytes"`
	// FileCount is the number of files in the whole tree.
	FileCount uint64 `json:"file_count"`
	// TopDirectories are the largest registered directories.
	TopDirectories []Directory `json:"top_directories"`
	// TopFiles are the largest files, taken from the registered directories.
	TopFiles []diskusage.FileEntry `json:"top_files"`
	// TopExtensions are the extensions using the most space.
	TopExtensions []diskusage.ExtensionStat `json:"top_extensions"`
	// Tips are the optimization suggestions.
	Tips []string `json:"tips"`
	// SkippedFiles counts files whose size could not be read.
	SkippedFiles int `json:"skipped_files"`
	// SkippedDirs counts directories that could not be listed.
	SkippedDirs int `json:"skipped_dirs"`
	// Elapsed is the scan duration.
	Elapsed time.Duration `json:"elapsed"`
}

// Build ranks the result of a scan.
func Build(res *diskusage.Result, cfg Config) *Report {
	dirs := res.Registry.BySize()
	files := largestFiles(dirs)

	rep := &Report{
		RootPath:       res.RootPath,
		TotalBytes:     res.Root.TotalBytes,
		FileCount:      res.Root.FileCount,
		TopDirectories: make([]Directory, 0, len(dirs)),
		TopFiles:       limit(files, cfg.TopFiles),
		TopExtensions:  limit(extensionsBySize(histogram(res, dirs, cfg.Histogram)), cfg.TopExtensions),
		Tips:           Tips(dirs, files, cfg),
		SkippedFiles:   res.SkippedFiles,
		SkippedDirs:    res.SkippedDirs,
		Elapsed:        res.Elapsed,
	}

	for _, d := range limit(dirs, cfg.TopDirectories) {
		rep.TopDirectories = append(rep.TopDirectories, Directory{
			Path:      d.Path,
			Size:      d.Aggregate.TotalBytes,
			FileCount: d.Aggregate.FileCount,
		})
	}

	return rep
}

// largestFiles collects the largest file of every directory, without
// duplicates, ordered by size then path.
func largestFiles(dirs []diskusage.Entry) []diskusage.FileEntry {
	seen := make(map[string]struct{}, len(dirs))
	files := make([]diskusage.FileEntry, 0, len(dirs))

	for _, d := range dirs {
		largest := d.Aggregate.Largest
		if largest == nil {
			continue
		}

		if _, ok := seen[largest.Path]; ok {
			continue
		}

		seen[largest.Path] = struct{}{}
		files = append(files, *largest)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Size != files[j].Size {
			return files[i].Size > files[j].Size
		}

		return files[i].Path < files[j].Path
	})

	return files
}

// histogram returns the extension histogram selected by source.
//
// HistogramRegistry adds up the histograms of every registered directory, so
// a file contributes once per registered ancestor and files directly in an
// unregistered root do not contribute. HistogramRoot is the root's own
// histogram, where every file counts exactly once.
func histogram(res *diskusage.Result, dirs []diskusage.Entry, source HistogramSource) *diskusage.Aggregate {
	if source == HistogramRoot {
		return res.Root
	}

	merged := diskusage.NewAggregate()
	for _, d := range dirs {
		for ext, size := range d.Aggregate.Extensions {
			merged.Extensions[ext] += size
		}
	}

	return merged
}

// extensionsBySize orders the histogram of agg by size, then name.
func extensionsBySize(agg *diskusage.Aggregate) []diskusage.ExtensionStat {
	exts := agg.SortedExtensions()

	sort.SliceStable(exts, func(i, j int) bool {
		return exts[i].Size > exts[j].Size
	})

	return exts
}

// limit returns the first n elements of s, or all of them if n <= 0.
func limit[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}

	return s[:n]
}
