package app

import (
	"context"
	"fmt"

	"github.com/jaminalder/reversi/internal/ai"
	"github.com/jaminalder/reversi/internal/domain"
)

// MatchConfig drives an unattended game.
type MatchConfig struct {
	Red   ai.Strategy
	White ai.Strategy
	// TargetDiscs stops the match once this many discs are on the board.
	// Zero, or anything above the board size, plays to the end.
	TargetDiscs int
}

func (c MatchConfig) strategy(p domain.Player) ai.Strategy {
	if p == domain.PlayerRed {
		return c.Red
	}
	return c.White
}

func (c MatchConfig) target() int {
	if c.TargetDiscs <= 0 || c.TargetDiscs > domain.Size*domain.Size {
		return domain.Size * domain.Size
	}
	return c.TargetDiscs
}

// Ply is reported after every committed move or pass.
type Ply struct {
	Index      int
	Player     domain.Player
	Move       domain.Pos
	Passed     bool
	Flipped    int
	Board      domain.Board
	RedDiscs   int
	WhiteDiscs int
}

// MatchResult summarises a finished RunMatch.
type MatchResult struct {
	Plies      int
	Passes     int
	RedDiscs   int
	WhiteDiscs int
	// Over is set when neither side could move; Winner is then meaningful.
	Over   bool
	Winner domain.Cell
}

// RunMatch plays g with the configured strategies until the disc target is
// reached or the game ends. onPly, when set, sees every ply; an error from
// it stops the match.
func RunMatch(ctx context.Context, g *domain.Game, sel *ai.Selector, cfg MatchConfig, onPly func(Ply) error) (MatchResult, error) {
	var res MatchResult
	if !g.Active() {
		return res, domain.ErrNotActive
	}
	target := cfg.target()
	for g.Board.Discs() < target {
		if err := ctx.Err(); err != nil {
			return res.finish(g), err
		}
		ply := Ply{Index: res.Plies + 1, Player: g.Turn()}
		switch g.Status() {
		case domain.StatusOver:
			return res.finish(g), nil
		case domain.StatusMustPass:
			if err := g.Pass(); err != nil {
				return res.finish(g), err
			}
			ply.Passed = true
			res.Passes++
		default:
			st := cfg.strategy(ply.Player)
			m, ok := sel.Select(g.Board, g.LegalMoves(), ply.Player, st)
			if !ok {
				return res.finish(g), fmt.Errorf("%s: %w", st, domain.ErrIllegalMove)
			}
			mr, err := g.Play(m.Row, m.Col)
			if err != nil {
				return res.finish(g), fmt.Errorf("%s played %v: %w", st, m, err)
			}
			ply.Move, ply.Flipped = m, len(mr.Flipped)
		}
		res.Plies++
		ply.Board = g.Board
		ply.RedDiscs, ply.WhiteDiscs = g.RedDiscs(), g.WhiteDiscs()
		if onPly != nil {
			if err := onPly(ply); err != nil {
				return res.finish(g), err
			}
		}
	}
	return res.finish(g), nil
}

func (r MatchResult) finish(g *domain.Game) MatchResult {
	r.RedDiscs, r.WhiteDiscs = g.RedDiscs(), g.WhiteDiscs()
	r.Winner, r.Over = g.Winner()
	return r
}
