package report

import (
	"testing"

	"github.com/dustin/go-humanize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dusage/internal/diskusage"
)

func aggregate(files map[string]uint64) *diskusage.Aggregate {
	agg := diskusage.NewAggregate()
	for path, size := range files {
		agg.AddFile(path, size)
	}

	return agg
}

func sampleResult() *diskusage.Result {
	logs := aggregate(map[string]uint64{"/r/var/log/syslog": 200 * humanize.MiByte})
	videos := aggregate(map[string]uint64{
		"/r/Videos/trip.MP4":  600 * humanize.MiByte,
		"/r/Videos/notes.txt": 1,
	})
	downloads := aggregate(map[string]uint64{"/r/Downloads/setup.exe": 2 * humanize.GiByte})
	varDir := diskusage.NewAggregate()
	varDir.Merge(logs)

	root := diskusage.NewAggregate()
	root.AddFile("/r/a.txt", 10)

	for _, agg := range []*diskusage.Aggregate{varDir, videos, downloads} {
		root.Merge(agg)
	}

	return &diskusage.Result{
		RootPath: "/r",
		Root:     root,
		Registry: diskusage.Registry{
			"/r/var":       varDir,
			"/r/var/log":   logs,
			"/r/Videos":    videos,
			"/r/Downloads": downloads,
		},
	}
}

func TestBuild(t *testing.T) {
	rep := Build(sampleResult(), DefaultConfig())

	require.Len(t, rep.TopDirectories, 4)
	assert.Equal(t, "/r/Downloads", rep.TopDirectories[0].Path)
	assert.Equal(t, "/r/Videos", rep.TopDirectories[1].Path)
	assert.Equal(t, "/r/var", rep.TopDirectories[2].Path)
	assert.Equal(t, "/r/var/log", rep.TopDirectories[3].Path)
	assert.Equal(t, uint64(2), rep.TopDirectories[1].FileCount)

	assert.Equal(t, []diskusage.FileEntry{
		{Path: "/r/Downloads/setup.exe", Size: 2 * humanize.GiByte},
		{Path: "/r/Videos/trip.MP4", Size: 600 * humanize.MiByte},
		{Path: "/r/var/log/syslog", Size: 200 * humanize.MiByte},
	}, rep.TopFiles, "a file that is largest in nested directories is listed once")

	require.NotEmpty(t, rep.TopExtensions)
	assert.Equal(t, "exe", rep.TopExtensions[0].Extension)
	assert.Equal(t, uint64(1), extensionSize(rep.TopExtensions, "txt"), "root files are not registered")
	assert.Equal(t, uint64(400*humanize.MiByte), extensionSize(rep.TopExtensions, ""),
		"syslog counts for /r/var and /r/var/log")
}

func TestBuild_HistogramSource(t *testing.T) {
	sub := aggregate(map[string]uint64{"/r/s/t/b.txt": 5})
	s := diskusage.NewAggregate()
	s.Merge(sub)

	root := aggregate(map[string]uint64{"/r/a.txt": 10})
	root.Merge(s)

	res := &diskusage.Result{
		RootPath: "/r",
		Root:     root,
		Registry: diskusage.Registry{"/r/s": s, "/r/s/t": sub},
	}

	tests := []struct {
		source HistogramSource
		want   []diskusage.ExtensionStat
	}{
		{source: HistogramRegistry, want: []diskusage.ExtensionStat{{Extension: "txt", Size: 10}}},
		{source: HistogramRoot, want: []diskusage.ExtensionStat{{Extension: "txt", Size: 15}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Histogram = tt.source

			assert.Equal(t, tt.want, Build(res, cfg).TopExtensions)
		})
	}
}

func TestBuild_RootHistogramCoversTree(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Histogram = HistogramRoot

	rep := Build(sampleResult(), cfg)

	assert.Equal(t, uint64(10+1), extensionSize(rep.TopExtensions, "txt"))
	assert.Equal(t, rep.TotalBytes, sumExtensions(rep.TopExtensions))
}

func TestBuild_Limits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopDirectories = 1
	cfg.TopFiles = 2
	cfg.TopExtensions = 1

	rep := Build(sampleResult(), cfg)

	assert.Len(t, rep.TopDirectories, 1)
	assert.Len(t, rep.TopFiles, 2)
	assert.Len(t, rep.TopExtensions, 1)
}

func TestBuild_EmptyResult(t *testing.T) {
	rep := Build(&diskusage.Result{
		RootPath: "/empty",
		Root:     diskusage.NewAggregate(),
		Registry: diskusage.Registry{},
	}, DefaultConfig())

	assert.Empty(t, rep.TopDirectories)
	assert.Empty(t, rep.TopFiles)
	assert.Empty(t, rep.TopExtensions)
	assert.Equal(t, []string{TipCompression, TipSystemClean}, rep.Tips)
}

func TestTips(t *testing.T) {
	rep := Build(sampleResult(), DefaultConfig())

	require.Len(t, rep.Tips, 7)
	assert.Contains(t, rep.Tips[0], "Directory '/r/Downloads' uses 2.0 GiB")
	assert.Contains(t, rep.Tips[1], "log files")
	assert.Contains(t, rep.Tips[2], "Video files")
	assert.Contains(t, rep.Tips[3], "downloads directory")
	assert.Contains(t, rep.Tips[4], "File '/r/Downloads/setup.exe'")
	assert.Equal(t, TipCompression, rep.Tips[5])
	assert.Equal(t, TipSystemClean, rep.Tips[6])
}

func TestTips_BelowThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DirectoryLimit = 10 * humanize.GiByte
	cfg.LogLimit = humanize.GiByte
	cfg.MediaLimit = humanize.GiByte
	cfg.FileLimit = 10 * humanize.GiByte
	cfg.VideoExtensions = []string{"mkv"}

	rep := Build(sampleResult(), cfg)

	require.Len(t, rep.Tips, 3)
	assert.Contains(t, rep.Tips[0], "downloads directory")
}

func TestTips_WindowExcludesSmallDirectories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TipWindow = 1

	dirs := sampleResult().Registry.BySize()
	tips := Tips(dirs[1:], nil, cfg)

	assert.Contains(t, tips, "Video files use a lot of space. Consider moving them to external or cloud storage.")
	assert.NotContains(t, tips, "Large log files found. Rotating or cleaning logs regularly can free significant space.")
}

func extensionSize(exts []diskusage.ExtensionStat, ext string) uint64 {
	for _, e := range exts {
		if e.Extension == ext {
			return e.Size
		}
	}

	return 0
}

func sumExtensions(exts []diskusage.ExtensionStat) uint64 {
	var total uint64
	for _, e := range exts {
		total += e.Size
	}

	return total
}
