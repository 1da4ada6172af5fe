package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/reversi/internal/domain"
)

func TestExportSteps(t *testing.T) {
	g := domain.New()
	for _, m := range []domain.Pos{{Row: 2, Col: 4}, {Row: 2, Col: 3}, {Row: 2, Col: 2}} {
		_, err := g.Play(m.Row, m.Col)
		require.NoError(t, err)
	}
	live := g.Board

	dir := filepath.Join(t.TempDir(), "ReversiGame")
	n, err := ExportSteps(dir, g)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, live, g.Board)
	assert.True(t, g.Active())

	data, err := os.ReadFile(filepath.Join(dir, "step_0.json"))
	require.NoError(t, err)
	var first Snapshot
	require.NoError(t, json.Unmarshal(data, &first))
	assert.Equal(t, domain.NewBoard(), first.Board)
	assert.Equal(t, 2, first.RedDiscs)

	data, err = os.ReadFile(filepath.Join(dir, "step_3.json"))
	require.NoError(t, err)
	var last Snapshot
	require.NoError(t, json.Unmarshal(data, &last))
	assert.Equal(t, live, last.Board)
	assert.Equal(t, 3, last.Step)
}

func TestWriteSnapshotFailsOnFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	err := WriteSnapshot(filepath.Join(file, "sub"), NewSnapshot(0, domain.NewBoard()))
	assert.Error(t, err)
}
