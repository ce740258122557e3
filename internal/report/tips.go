package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dusage/internal/diskusage"
)

// General tips are always appended.
const (
	TipCompression = "Consider compressing files that are rarely used."
	TipSystemClean = "Use the cleanup tools of your operating system for system files."
)

// Tips derives optimization suggestions from directories ordered by size and
// files ordered by size.
func Tips(dirs []diskusage.Entry, files []diskusage.FileEntry, cfg Config) []string {
	var tips []string

	if len(dirs) > 0 && dirs[0].Aggregate.TotalBytes > cfg.DirectoryLimit {
		tips = append(tips, fmt.Sprintf(
			"Directory '%s' uses %s, a significant share of the disk.",
			dirs[0].Path, humanize.IBytes(dirs[0].Aggregate.TotalBytes)))
	}

	var largeLogs, largeMedia, downloads bool

	for _, d := range limit(dirs, cfg.TipWindow) {
		path := strings.ToLower(d.Path)

		if strings.Contains(path, "log") && d.Aggregate.TotalBytes > cfg.LogLimit {
			largeLogs = true
		}

		if strings.Contains(path, "download") {
			downloads = true
		}

		for ext, size := range d.Aggregate.Extensions {
			if slices.Contains(cfg.VideoExtensions, ext) && size > cfg.MediaLimit {
				largeMedia = true
			}
		}
	}

	if largeLogs {
		tips = append(tips, "Large log files found. Rotating or cleaning logs regularly can free significant space.")
	}

	if largeMedia {
		tips = append(tips, "Video files use a lot of space. Consider moving them to external or cloud storage.")
	}

	if downloads {
		tips = append(tips, "A downloads directory is among the largest. Removing temporary and unneeded downloads can free space.")
	}

	if len(files) > 0 && files[0].Size > cfg.FileLimit {
		tips = append(tips, fmt.Sprintf(
			"File '%s' uses %s. Deleting or archiving it would free significant space.",
			files[0].Path, humanize.IBytes(files[0].Size)))
	}

	return append(tips, TipCompression, TipSystemClean)
}
