package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v2"
)

// HistogramSource selects where the extension ranking comes from.
type HistogramSource string

const (
	// HistogramRegistry merges the histograms of all registered directories.
	HistogramRegistry HistogramSource = "registry"
	// HistogramRoot uses the histogram of the scanned root.
	HistogramRoot HistogramSource = "root"
)

// ParseHistogramSource converts s into a HistogramSource. The empty string
// yields HistogramRegistry.
func ParseHistogramSource(s string) (HistogramSource, error) {
	switch HistogramSource(s) {
	case "", HistogramRegistry:
		return HistogramRegistry, nil
	case HistogramRoot:
		return HistogramRoot, nil
	default:
		return "", fmt.Errorf("invalid histogram source %q: must be one of [%s %s]", s, HistogramRegistry, HistogramRoot)
	}
}

// Config controls ranking sizes and tip thresholds.
type Config struct {
	// TopDirectories is the number of directories listed (0=all).
	TopDirectories int
	// TopFiles is the number of files listed (0=all).
	TopFiles int
	// TopExtensions is the number of extensions listed (0=all).
	TopExtensions int
	// Histogram selects the histogram the extension ranking is built from.
	Histogram HistogramSource
	// TipWindow is the number of largest directories inspected by path and
	// extension rules.
	TipWindow int
	// DirectoryLimit flags the largest directory when exceeded.
	DirectoryLimit uint64
	// LogLimit flags a directory with "log" in its path when exceeded.
	LogLimit uint64
	// MediaLimit flags a directory whose video bytes exceed it.
	MediaLimit uint64
	// FileLimit flags the largest file when exceeded.
	FileLimit uint64
	// VideoExtensions are the extensions counted as video.
	VideoExtensions []string
}

// DefaultConfig returns the built-in rankings and thresholds.
func DefaultConfig() Config {
	return Config{
		TopDirectories:  15,
		TopFiles:        5,
		TopExtensions:   8,
		Histogram:       HistogramRegistry,
		TipWindow:       5,
		DirectoryLimit:  humanize.GiByte,
		LogLimit:        100 * humanize.MiByte,
		MediaLimit:      500 * humanize.MiByte,
		FileLimit:       humanize.GiByte,
		VideoExtensions: []string{"mp4", "mov", "avi"},
	}
}

// fileConfig is the YAML layout of a configuration file. Sizes are human
// readable strings such as "1GiB" or "500MB".
type fileConfig struct {
	Top struct {
		Directories *int `yaml:"directories"`
		Files       *int `yaml:"files"`
		Extensions  *int `yaml:"extensions"`
	} `yaml:"top"`
	Thresholds struct {
		Window       *int   `yaml:"window"`
		Directory    string `yaml:"directory"`
		LogDirectory string `yaml:"log_directory"`
		Media        string `yaml:"media"`
		File         string `yaml:"file"`
	} `yaml:"thresholds"`
	Histogram       string   `yaml:"histogram"`
	VideoExtensions []string `yaml:"video_extensions"`
}

// LoadConfig reads a YAML file and applies it on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML data and applies it on top of DefaultConfig.
// Keys that are absent keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	for dst, src := range map[*int]*int{
		&cfg.TopDirectories: raw.Top.Directories,
		&cfg.TopFiles:       raw.Top.Files,
		&cfg.TopExtensions:  raw.Top.Extensions,
		&cfg.TipWindow:      raw.Thresholds.Window,
	} {
		if src == nil {
			continue
		}

		if *src < 0 {
			return Config{}, fmt.Errorf("invalid config: counts cannot be negative, got %d", *src)
		}

		*dst = *src
	}

	sizes := []struct {
		name  string
		value string
		dst   *uint64
	}{
		{"directory", raw.Thresholds.Directory, &cfg.DirectoryLimit},
		{"log_directory", raw.Thresholds.LogDirectory, &cfg.LogLimit},
		{"media", raw.Thresholds.Media, &cfg.MediaLimit},
		{"file", raw.Thresholds.File, &cfg.FileLimit},
	}

	for _, s := range sizes {
		if s.value == "" {
			continue
		}

		size, err := humanize.ParseBytes(s.value)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s threshold: %w", s.name, err)
		}

		*s.dst = size
	}

	if raw.Histogram != "" {
		var err error

		if cfg.Histogram, err = ParseHistogramSource(raw.Histogram); err != nil {
			return Config{}, fmt.Errorf("invalid config: %w", err)
		}
	}

	if len(raw.VideoExtensions) > 0 {
		cfg.VideoExtensions = make([]string, len(raw.VideoExtensions))
		for i, ext := range raw.VideoExtensions {
			cfg.VideoExtensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
		}
	}

	return cfg, nil
}
