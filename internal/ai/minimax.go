package ai

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jaminalder/reversi/internal/domain"
)

// Result is the outcome of a search node. Found is false for leaves.
type Result struct {
	Move  domain.Pos
	Score int
	Found bool
}

type nodeKey struct {
	board      domain.Board
	depth      int
	maximizing bool
	pov        domain.Player
}

// Searcher runs plain minimax scored by PositionalScore from a fixed point
// of view. Only nodes whose move list is derived from their own board are
// cached, so a cached search returns exactly what an uncached one does.
// A Searcher is not safe for concurrent use.
type Searcher struct {
	cache *lru.Cache[nodeKey, Result]
	nodes uint64
	hits  uint64
}

// NewSearcher returns a searcher with a transposition cache of cacheSize
// entries, or none when cacheSize <= 0.
func NewSearcher(cacheSize int) *Searcher {
	s := &Searcher{}
	if cacheSize > 0 {
		// only fails on a non-positive size
		s.cache, _ = lru.New[nodeKey, Result](cacheSize)
	}
	return s
}

// Nodes is the number of nodes expanded or scored since the last reset.
func (s *Searcher) Nodes() uint64 { return s.nodes }

func (s *Searcher) CacheHits() uint64 { return s.hits }

func (s *Searcher) ResetStats() { s.nodes, s.hits = 0, 0 }

// Minimax evaluates b with the given candidate moves. The side to move is
// pov on maximizing nodes and pov's opponent on minimizing ones. Ties keep
// the earliest candidate.
func (s *Searcher) Minimax(b domain.Board, moves []domain.Pos, depth int, maximizing bool, pov domain.Player) Result {
	s.nodes++
	if depth <= 0 || len(moves) == 0 {
		return Result{Score: PositionalScore(&b, pov)}
	}
	mover := pov
	if !maximizing {
		mover = pov.Opponent()
	}
	var best Result
	for _, m := range moves {
		cp := b
		cp.ApplyMove(mover, m.Row, m.Col)
		child := s.child(cp, depth-1, !maximizing, pov)
		if !best.Found ||
			(maximizing && child.Score > best.Score) ||
			(!maximizing && child.Score < best.Score) {
			best = Result{Move: m, Score: child.Score, Found: true}
		}
	}
	return best
}

func (s *Searcher) child(b domain.Board, depth int, maximizing bool, pov domain.Player) Result {
	if depth <= 0 {
		s.nodes++
		return Result{Score: PositionalScore(&b, pov)}
	}
	mover := pov
	if !maximizing {
		mover = pov.Opponent()
	}
	if s.cache == nil {
		return s.Minimax(b, b.LegalMoves(mover), depth, maximizing, pov)
	}
	key := nodeKey{board: b, depth: depth, maximizing: maximizing, pov: pov}
	if r, ok := s.cache.Get(key); ok {
		s.hits++
		return r
	}
	r := s.Minimax(b, b.LegalMoves(mover), depth, maximizing, pov)
	s.cache.Add(key, r)
	return r
}

// Decide picks pov's move looking depth plies ahead, pov's own move
// included. Depth below 1 is treated as 1. With no candidates it returns
// the position's score and Found == false; the caller must skip the turn.
func (s *Searcher) Decide(b domain.Board, moves []domain.Pos, depth int, pov domain.Player) Result {
	if depth < 1 {
		depth = 1
	}
	return s.Minimax(b, moves, depth, true, pov)
}
