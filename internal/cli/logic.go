package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/dusage/internal/diskusage"
	"github.com/idelchi/dusage/internal/report"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func logic(ctx context.Context, opts options, cfg report.Config, stdout, stderr io.Writer) error {
	enableProgress := opts.output == "table" &&
		!opts.scan.Debug &&
		isTerminal(stderr)

	if ctx == nil {
		ctx = context.Background()
	}

	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	res, err := diskusage.Run(ctx, opts.scan, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	rep := report.Build(res, cfg)

	switch opts.output {
	case "json":
		return PrintJSON(rep, stdout)
	case "paths":
		return PrintPaths(rep, stdout)
	case "table":
		return PrintTable(rep, stdout)
	default:
		return fmt.Errorf("unknown output format: %s", opts.output)
	}
}
