package ai

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/jaminalder/reversi/internal/domain"
)

// StrategyKind names a move selection rule.
type StrategyKind uint8

const (
	FirstAvailable StrategyKind = iota
	Random
	MobilityGreedy
	PositionalGreedy
	Minimax
)

func (k StrategyKind) String() string {
	switch k {
	case Random:
		return "random"
	case MobilityGreedy:
		return "mobility"
	case PositionalGreedy:
		return "positional"
	case Minimax:
		return "minimax"
	default:
		return "first"
	}
}

// Strategy is a selection rule plus its look-ahead depth (Minimax only).
type Strategy struct {
	Kind  StrategyKind
	Depth int
}

func (s Strategy) String() string {
	if s.Kind == Minimax {
		return fmt.Sprintf("minimax(%d)", s.Depth)
	}
	return s.Kind.String()
}

var ErrUnknownStrategy = errors.New("unknown strategy")

// ParseStrategy maps a strategy name to a Strategy. "H1" and "H2" are the
// mobility and positional heuristics; H1 with depth above 1 searches with
// minimax instead.
func ParseStrategy(name string, depth int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "first":
		return Strategy{Kind: FirstAvailable}, nil
	case "random":
		return Strategy{Kind: Random}, nil
	case "mobility", "h1":
		if depth > 1 {
			return Strategy{Kind: Minimax, Depth: depth}, nil
		}
		return Strategy{Kind: MobilityGreedy}, nil
	case "positional", "h2":
		return Strategy{Kind: PositionalGreedy}, nil
	case "minimax":
		return Strategy{Kind: Minimax, Depth: max(depth, 1)}, nil
	}
	return Strategy{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Selector chooses moves. It owns a seeded random source so that random
// play is reproducible, and a Searcher for minimax.
type Selector struct {
	rng    *rand.Rand
	search *Searcher
}

func NewSelector(seed uint64, cacheSize int) *Selector {
	return &Selector{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		search: NewSearcher(cacheSize),
	}
}

// Searcher exposes the minimax searcher for statistics.
func (s *Selector) Searcher() *Searcher { return s.search }

// Select returns p's move among moves. It returns false when moves is
// empty.
func (s *Selector) Select(b domain.Board, moves []domain.Pos, p domain.Player, st Strategy) (domain.Pos, bool) {
	if len(moves) == 0 {
		return domain.Pos{}, false
	}
	switch st.Kind {
	case Random:
		return moves[s.rng.IntN(len(moves))], true
	case MobilityGreedy:
		return BestByMobility(b, moves, p)
	case PositionalGreedy:
		return BestByPosition(b, moves, p)
	case Minimax:
		r := s.search.Decide(b, moves, st.Depth, p)
		return r.Move, r.Found
	default:
		return moves[0], true
	}
}
