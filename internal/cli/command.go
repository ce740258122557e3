package cli

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idelchi/dusage/internal/diskusage"
	"github.com/idelchi/dusage/internal/integration"
	"github.com/idelchi/dusage/internal/report"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// options holds the parsed command line.
type options struct {
	scan        diskusage.Options
	policy      string
	histogram   string
	output      string
	configPath  string
	topDirs     int
	topFiles    int
	topExt      int
	version     bool
	integration bool
}

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json", "paths"}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.command(os.Stdout, os.Stderr).Execute()
}

// command builds the root command writing to stdout and stderr.
func (c CLI) command(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "dusage [flags] [path]",
		Short: "Report disk usage by directory, file and extension",
		Long: heredoc.Doc(`
			dusage reports disk usage under a directory: the largest directories,
			the largest files, the space used per file extension, and tips on
			where space could be freed.

			Positional Arguments:
			  path    Directory to analyze. Defaults to the current directory.

			By default the scan stops at the first directory that cannot be listed.
			Use '--on-dir-error skip' to warn and continue instead.

			Symbolic links are not followed unless '--follow' is given. A link back
			into a directory being scanned is not entered again.

			The '--init' flag prints a zsh widget that pipes '--output paths'
			into 'fzf' to jump into one of the largest directories.
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintln(stdout, c.version)

				return nil
			}

			if opts.integration {
				rendered, err := integration.Render(cmd.Root().Name())
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(stdout, rendered)

				return nil
			}

			if len(args) == 0 {
				opts.scan.Path = "."
			} else {
				opts.scan.Path = args[0]
			}

			cfg, err := resolveConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}

			if !slices.Contains(allowedOutputs, opts.output) {
				return fmt.Errorf("invalid output format %q: must be one of %v", opts.output, allowedOutputs)
			}

			if opts.scan.OnDirectoryError, err = diskusage.ParseDirectoryErrorPolicy(opts.policy); err != nil {
				return err
			}

			opts.scan.LogWriter = stderr

			return logic(cmd.Context(), opts, cfg, stdout, stderr)
		},
	}

	registerFlags(cmd.Flags(), &opts)

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	return cmd
}

func registerFlags(flags *pflag.FlagSet, opts *options) {
	def := report.DefaultConfig()

	flags.StringVarP(&opts.output, "output", "o", "table", "Output format: table, json or paths")
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML file with rankings and tip thresholds")
	flags.IntVar(&opts.topDirs, "top-dirs", def.TopDirectories, "Number of directories to display (0=all)")
	flags.IntVar(&opts.topFiles, "top-files", def.TopFiles, "Number of files to display (0=all)")
	flags.IntVar(&opts.topExt, "top-ext", def.TopExtensions, "Number of extensions to display (0=all)")
	flags.StringVar(&opts.policy, "on-dir-error", string(diskusage.Abort),
		"What to do with directories that cannot be listed: abort or skip")
	flags.StringVar(&opts.histogram, "histogram", string(def.Histogram),
		"Extension ranking source: registry (all ranked directories) or root (every file once)")
	flags.BoolVar(&opts.scan.IncludeRoot, "include-root", false, "Rank the scanned directory itself")
	flags.BoolVarP(&opts.scan.FollowSymlinks, "follow", "L", false, "Follow symbolic links")
	flags.BoolVar(&opts.scan.Parallel, "parallel", false, "List directories in parallel before aggregating")
	flags.BoolVar(&opts.scan.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&opts.version, "version", "v", false, "Show version and exit")
	flags.BoolVarP(&opts.integration, "init", "i", false, "Output init script for shell usage")

	flags.SortFlags = false
}

// resolveConfig loads the configuration file, if any, and applies flags that
// were set explicitly on top of it.
func resolveConfig(flags *pflag.FlagSet, opts options) (report.Config, error) {
	cfg := report.DefaultConfig()

	if opts.configPath != "" {
		var err error

		if cfg, err = report.LoadConfig(opts.configPath); err != nil {
			return cfg, err
		}
	}

	for name, value := range map[string]int{
		"top-dirs":  opts.topDirs,
		"top-files": opts.topFiles,
		"top-ext":   opts.topExt,
	} {
		if value < 0 {
			return cfg, fmt.Errorf("--%s cannot be negative", name)
		}
	}

	if flags.Changed("top-dirs") {
		cfg.TopDirectories = opts.topDirs
	} else if opts.output == "paths" {
		cfg.TopDirectories = 0
	}

	if flags.Changed("top-files") {
		cfg.TopFiles = opts.topFiles
	}

	if flags.Changed("top-ext") {
		cfg.TopExtensions = opts.topExt
	}

	if flags.Changed("histogram") {
		var err error

		if cfg.Histogram, err = report.ParseHistogramSource(opts.histogram); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}
