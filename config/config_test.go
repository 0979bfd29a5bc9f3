package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Size(256<<20), cfg.Arena.Reserve)
	assert.Equal(t, 4, cfg.Scratch.Count)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
arena:
  reserve: 1GiB
  commit: 128KiB
scratch:
  count: 2
memory:
  limit: 512 MB
log:
  level: debug
  format: json
`))
	require.NoError(t, err)

	assert.Equal(t, Size(1<<30), cfg.Arena.Reserve)
	assert.Equal(t, Size(128<<10), cfg.Arena.Commit)
	assert.Equal(t, 2, cfg.Scratch.Count)
	assert.Equal(t, Size(512_000_000), cfg.Memory.Limit)
	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())

	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Frame, cfg.Frame)
	assert.Equal(t, Default().Scratch.Reserve, cfg.Scratch.Reserve)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad size", "arena:\n  reserve: lots\n", "invalid size"},
		{"unknown key", "arena:\n  reserv: 1MiB\n", "reserv"},
		{"commit above reserve", "frame:\n  reserve: 1MiB\n  commit: 2MiB\n", "Config.Frame.Commit"},
		{"zero reserve", "entities:\n  reserve: 0\n", "Config.Entities.Reserve: must be greater than 0"},
		{"too many scratch arenas", "scratch:\n  count: 64\n", "must not exceed 16"},
		{"bad level", "log:\n  level: loud\n", "must be one of"},
		{"size not scalar", "arena:\n  reserve: [1, 2]\n", "must be a scalar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "core.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities:\n  reserve: 8MiB\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Size(8<<20), cfg.Entities.Reserve)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Memory.Limit = 3 << 30

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "3.0 GiB")

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestSize(t *testing.T) {
	s, err := ParseSize("64KiB")
	require.NoError(t, err)
	assert.Equal(t, 65536, s.Int())
	assert.Equal(t, "64 KiB", s.String())
	assert.Equal(t, "-1", Size(-1).String())

	_, err = ParseSize("")
	assert.Error(t, err)
}
