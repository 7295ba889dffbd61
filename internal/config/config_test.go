package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/genfile/format"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "console", cfg.Log.Encoding)
	require.Equal(t, []string{"stderr"}, cfg.Log.OutputPaths)
	require.True(t, cfg.Sync)
	require.False(t, cfg.Mmap)
	require.Equal(t, format.CompressionNone, cfg.CompressionType())
	require.Equal(t, 4, cfg.Concurrency)
}

func TestLoad_File(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "genfile.yaml", "mmap: true\ncompression: zstd\ntolerance: 0.01\nlog:\n  level: debug\n"},
		{"toml", "genfile.toml", "mmap = true\ncompression = \"zstd\"\ntolerance = 0.01\n[log]\nlevel = \"debug\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			cfg, err := Load(New(), path)
			require.NoError(t, err)
			require.True(t, cfg.Mmap)
			require.Equal(t, format.CompressionZstd, cfg.CompressionType())
			require.InDelta(t, 0.01, cfg.Tolerance, 1e-12)
			require.Equal(t, "debug", cfg.Log.Level)
		})
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GENFILE_COMPRESSION", "lz4")
	t.Setenv("GENFILE_LOG_LEVEL", "warn")
	t.Setenv("GENFILE_CONCURRENCY", "2")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	require.Equal(t, format.CompressionLZ4, cfg.CompressionType())
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, 2, cfg.Concurrency)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("values", func(t *testing.T) {
		v := New()
		v.Set("compression", "gzip")
		v.Set("concurrency", 0)

		_, err := Load(v, "")
		require.ErrorContains(t, err, "gzip")
		require.ErrorContains(t, err, "concurrency")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
