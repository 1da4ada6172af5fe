package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaminalder/reversi/internal/domain"
)

// NewSnapshot records b as step.
func NewSnapshot(step int, b domain.Board) Snapshot {
	return Snapshot{Step: step, Board: b, RedDiscs: b.Count(domain.Red), WhiteDiscs: b.Count(domain.White)}
}

// WriteSnapshot stores s as dir/step_N.json, creating dir when needed.
func WriteSnapshot(dir string, s Snapshot) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, fmt.Sprintf("step_%d.json", s.Step))
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ExportSteps writes a snapshot for every step of g up to the displayed
// one and returns how many were written. g is left as it was.
func ExportSteps(dir string, g *domain.Game) (int, error) {
	n := 0
	err := g.Replay(func(step int, b domain.Board) error {
		if err := WriteSnapshot(dir, NewSnapshot(step, b)); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}
