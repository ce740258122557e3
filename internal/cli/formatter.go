package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/dusage/internal/report"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs the report in JSON format.
func PrintJSON(rep *report.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintPaths outputs one directory per line, largest first.
func PrintPaths(rep *report.Report, writer io.Writer) error {
	for _, d := range rep.TopDirectories {
		if _, err := fmt.Fprintln(writer, d.Path); err != nil {
			return err
		}
	}

	return nil
}

// percent returns part as a percentage of total.
func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}

	return 100.0 * float64(part) / float64(total)
}

// PrintTable outputs the report in human-readable table format.
// Rankings are printed smallest first so the largest entries end up closest
// to the prompt.
func PrintTable(rep *report.Report, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nTop directories:\t\t\t")

	for i := len(rep.TopDirectories) - 1; i >= 0; i-- {
		d := rep.TopDirectories[i]
		fmt.Fprintf(w, "  %d) '%s'\t%s\t%d files\t(%.1f%%)\n",
			i+1, d.Path, humanize.IBytes(d.Size), d.FileCount, percent(d.Size, rep.TotalBytes))
	}

	fmt.Fprintln(w, "\nLargest files:\t\t\t")

	for i := len(rep.TopFiles) - 1; i >= 0; i-- {
		f := rep.TopFiles[i]
		fmt.Fprintf(w, "  %d) '%s'\t%s\t\t(%.1f%%)\n",
			i+1, f.Path, humanize.IBytes(f.Size), percent(f.Size, rep.TotalBytes))
	}

	fmt.Fprintln(w, "\nTop extensions:\t\t\t")

	for i := len(rep.TopExtensions) - 1; i >= 0; i-- {
		e := rep.TopExtensions[i]

		ext := e.Extension
		if ext == "" {
			ext = "[no extension]"
		}

		fmt.Fprintf(w, "  %d) %s:\t%s\t\t(%.1f%%)\n",
			i+1, ext, humanize.IBytes(e.Size), percent(e.Size, rep.TotalBytes))
	}

	fmt.Fprintln(w, "\nTips:\t\t\t")

	for _, tip := range rep.Tips {
		fmt.Fprintf(w, "  - %s\n", tip)
	}

	fmt.Fprintln(w, "\nStats:\t\t\t")
	fmt.Fprintf(w, "Path:\t%s\n", rep.RootPath)
	fmt.Fprintf(w, "Total files:\t%d\n", rep.FileCount)
	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", humanize.IBytes(rep.TotalBytes), rep.TotalBytes)

	if rep.SkippedFiles > 0 {
		fmt.Fprintf(w, "Skipped files:\t%d\n", rep.SkippedFiles)
	}

	if rep.SkippedDirs > 0 {
		fmt.Fprintf(w, "Skipped directories:\t%d\n", rep.SkippedDirs)
	}

	fmt.Fprintf(w, "\nElapsed:\t%v\n", rep.Elapsed)

	return w.Flush()
}
