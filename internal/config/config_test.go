package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jaminalder/reversi/internal/ai"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reversi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "./ReversiGame", cfg.Export.Dir)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
server:
  addr: "127.0.0.1:9000"
match:
  target_discs: 30
  red: H1
  white: positional
  depth: 2
  seed: 42
  captures: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 5000, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30, cfg.Match.TargetDiscs)
	assert.Equal(t, uint64(42), cfg.Match.Seed)

	red, white, err := cfg.Match.Strategies()
	require.NoError(t, err)
	assert.Equal(t, ai.Strategy{Kind: ai.Minimax, Depth: 2}, red)
	assert.Equal(t, ai.Strategy{Kind: ai.PositionalGreedy}, white)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"target":   "match:\n  target_discs: 65\n",
		"depth":    "match:\n  depth: 0\n",
		"strategy": "match:\n  red: alphabeta\n",
		"level":    "log:\n  level: loud\n",
		"addr":     "server:\n  addr: \"\"\n",
		"cache":    "search:\n  cache_size: -1\n",
	}
	for name, body := range cases {
		_, err := Load(writeFile(t, body))
		assert.ErrorIs(t, err, ErrInvalid, name)
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "server: [unclosed"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestLogger(t *testing.T) {
	l, err := Log{Level: "debug", Development: true}.Logger()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	l, err = Default().Log.Logger()
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))

	_, err = Log{Level: "chatty"}.Logger()
	assert.ErrorIs(t, err, ErrInvalid)
}
