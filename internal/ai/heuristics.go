// Package ai scores Reversi positions and picks moves.
package ai

import (
	"errors"
	"strings"

	"github.com/jaminalder/reversi/internal/domain"
)

// Kind selects a heuristic evaluator.
type Kind uint8

const (
	Mobility Kind = iota
	Positional
)

func (k Kind) String() string {
	if k == Positional {
		return "positional"
	}
	return "mobility"
}

var ErrUnknownKind = errors.New("unknown evaluator")

// ParseKind accepts the evaluator names used by the HTTP API and CLI.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "mobility", "h1":
		return Mobility, nil
	case "positional", "h2":
		return Positional, nil
	}
	return 0, ErrUnknownKind
}

// PositionalWeights rewards corners and punishes the cells next to them.
var PositionalWeights = [domain.Size][domain.Size]int{
	{100, -20, 10, 5, 5, 10, -20, 100},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{10, -2, 5, 1, 1, 5, -2, 10},
	{5, -2, 1, 0, 0, 1, -2, 5},
	{5, -2, 1, 0, 0, 1, -2, 5},
	{10, -2, 5, 1, 1, 5, -2, 10},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{100, -20, 10, 5, 5, 10, -20, 100},
}

// MobilityScore is p's legal move count minus the opponent's.
func MobilityScore(b *domain.Board, p domain.Player) int {
	return len(b.LegalMoves(p)) - len(b.LegalMoves(p.Opponent()))
}

// PositionalScore sums the weights of p's discs minus the opponent's.
func PositionalScore(b *domain.Board, p domain.Player) int {
	own, opp := p.Cell(), p.Opponent().Cell()
	score := 0
	for r := 0; r < domain.Size; r++ {
		for c := 0; c < domain.Size; c++ {
			switch b[r][c] {
			case own:
				score += PositionalWeights[r][c]
			case opp:
				score -= PositionalWeights[r][c]
			}
		}
	}
	return score
}

// Evaluate scores b for p with the chosen heuristic.
func Evaluate(b *domain.Board, p domain.Player, k Kind) int {
	if k == Positional {
		return PositionalScore(b, p)
	}
	return MobilityScore(b, p)
}

// bestBy applies each candidate to a copy of b and keeps the first move
// with the highest score.
func bestBy(b domain.Board, moves []domain.Pos, p domain.Player, score func(*domain.Board, domain.Player) int) (domain.Pos, bool) {
	var best domain.Pos
	found := false
	bestScore := 0
	for _, m := range moves {
		cp := b
		cp.ApplyMove(p, m.Row, m.Col)
		s := score(&cp, p)
		if !found || s > bestScore {
			best, bestScore, found = m, s, true
		}
	}
	return best, found
}

// BestByMobility picks the move that leaves p with the best mobility.
func BestByMobility(b domain.Board, moves []domain.Pos, p domain.Player) (domain.Pos, bool) {
	return bestBy(b, moves, p, MobilityScore)
}

// BestByPosition picks the move with the best positional score.
func BestByPosition(b domain.Board, moves []domain.Pos, p domain.Player) (domain.Pos, bool) {
	return bestBy(b, moves, p, PositionalScore)
}
