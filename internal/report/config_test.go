package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(heredoc.Doc(`
		top:
		  directories: 20
		  extensions: 0
		thresholds:
		  directory: 2GiB
		  media: 1 GB
		histogram: root
		video_extensions: [".MKV", webm]
	`)))
	require.NoError(t, err)

	def := DefaultConfig()

	assert.Equal(t, 20, cfg.TopDirectories)
	assert.Equal(t, def.TopFiles, cfg.TopFiles)
	assert.Equal(t, 0, cfg.TopExtensions)
	assert.Equal(t, uint64(2*humanize.GiByte), cfg.DirectoryLimit)
	assert.Equal(t, uint64(humanize.GByte), cfg.MediaLimit)
	assert.Equal(t, def.LogLimit, cfg.LogLimit)
	assert.Equal(t, []string{"mkv", "webm"}, cfg.VideoExtensions)
	assert.Equal(t, HistogramRoot, cfg.Histogram)
}

func TestParseConfig_Empty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "colour: red\n",
		"bad size":       "thresholds:\n  file: lots\n",
		"negative count": "top:\n  files: -1\n",
		"bad histogram":  "histogram: everywhere\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dusage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("top:\n  files: 3\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopFiles)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseHistogramSource(t *testing.T) {
	for in, want := range map[string]HistogramSource{
		"":         HistogramRegistry,
		"registry": HistogramRegistry,
		"root":     HistogramRoot,
	} {
		got, err := ParseHistogramSource(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseHistogramSource("tree")
	assert.Error(t, err)
}
