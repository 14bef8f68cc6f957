package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intcodec "github.com/Akron/intcodec-go"
	"github.com/Akron/intcodec-go/compress"
	"github.com/Akron/intcodec-go/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Codec: config.CodecConfig{
			Name:        intcodec.NameSortedFOR,
			SliceSize:   5,
			BlockSize:   128,
			Sorted:      true,
			Compression: "none",
		},
		Bench: config.BenchConfig{
			Codecs: []string{intcodec.NameBinaryPacking, intcodec.NameSortedFOR2},
		},
		Logging: config.LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intcodec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidate_ValidConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_InvalidValues_ReturnsError(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		mutate func(*config.Config)
		want   error
	}{
		"slice size too small": {func(c *config.Config) { c.Codec.SliceSize = 1 }, config.ErrInvalidSliceSize},
		"slice size too large": {func(c *config.Config) { c.Codec.SliceSize = 9 }, config.ErrInvalidSliceSize},
		"block size zero":      {func(c *config.Config) { c.Codec.BlockSize = 0 }, config.ErrInvalidBlockSize},
		"compression":          {func(c *config.Config) { c.Codec.Compression = "bzip2" }, config.ErrInvalidCompression},
		"codec name":           {func(c *config.Config) { c.Codec.Name = "pfor" }, config.ErrUnknownCodec},
		"bench codec":          {func(c *config.Config) { c.Bench.Codecs = []string{"nope"} }, config.ErrUnknownCodec},
		"log level":            {func(c *config.Config) { c.Logging.Level = "loud" }, config.ErrInvalidLogLevel},
		"log format":           {func(c *config.Config) { c.Logging.Format = "xml" }, config.ErrInvalidLogFormat},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}

func TestCodecConfig_Options(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Codec.Sorted = false
	cfg.Codec.Compression = "LZ4"

	opts, err := cfg.Codec.Options()
	require.NoError(t, err)
	assert.Equal(t, intcodec.Options{
		SliceSize:   5,
		BlockSize:   128,
		Unsorted:    true,
		Compression: compress.LZ4,
	}, opts)
}

func TestLoggingConfig_SlogLevel(t *testing.T) {
	t.Parallel()

	level, err := config.LoggingConfig{Level: "debug"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = config.LoggingConfig{Level: "WARN"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultCodecName, cfg.Codec.Name)
	assert.Equal(t, config.DefaultSliceSize, cfg.Codec.SliceSize)
	assert.Equal(t, config.DefaultBlockSize, cfg.Codec.BlockSize)
	assert.True(t, cfg.Codec.Sorted)
	assert.Equal(t, "none", cfg.Codec.Compression)
	assert.Equal(t, intcodec.Names(), cfg.Bench.Codecs)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, config.FormatText, cfg.Logging.Format)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
codec:
  name: sortedblock
  slice_size: 4
  block_size: 64
  compression: zstd
bench:
  codecs: [binpack, streamvbyte]
logging:
  level: debug
  format: json
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, intcodec.NameSortedBlock, cfg.Codec.Name)
	assert.Equal(t, 4, cfg.Codec.SliceSize)
	assert.Equal(t, 64, cfg.Codec.BlockSize)
	assert.True(t, cfg.Codec.Sorted)
	assert.Equal(t, "zstd", cfg.Codec.Compression)
	assert.Equal(t, []string{intcodec.NameBinaryPacking, intcodec.NameStreamVByte}, cfg.Bench.Codecs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, config.FormatJSON, cfg.Logging.Format)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "codec:\n  slice_size: 4\n")
	t.Setenv("INTCODEC_CODEC_SLICE_SIZE", "7")
	t.Setenv("INTCODEC_LOGGING_LEVEL", "error")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Codec.SliceSize)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := writeConfig(t, "codec:\n  slice_size: 12\n")
	_, err := config.LoadConfig(path)
	require.ErrorIs(t, err, config.ErrInvalidSliceSize)

	path = writeConfig(t, "codec: [unclosed\n")
	_, err = config.LoadConfig(path)
	require.Error(t, err)
}
