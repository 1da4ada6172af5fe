package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/reversi/internal/domain"
)

type position struct {
	board domain.Board
	turn  domain.Player
	moves []domain.Pos
}

// positions plays a seeded random game and returns every position reached.
func positions(t *testing.T, seed uint64) []position {
	t.Helper()
	sel := NewSelector(seed, 0)
	g := domain.New()
	var out []position
	for g.Status() != domain.StatusOver {
		if g.Status() == domain.StatusMustPass {
			require.NoError(t, g.Pass())
		}
		out = append(out, position{board: g.Board, turn: g.Turn(), moves: g.LegalMoves()})
		m, ok := sel.Select(g.Board, g.LegalMoves(), g.Turn(), Strategy{Kind: Random})
		require.True(t, ok)
		_, err := g.Play(m.Row, m.Col)
		require.NoError(t, err)
	}
	return out
}

func parse(t *testing.T, s string) domain.Board {
	t.Helper()
	b, err := domain.ParseBoard(s)
	require.NoError(t, err)
	return b
}

const cornerBoard = `
........
.W......
..RW....
........
........
........
........
........`

func TestOpeningScoresAreSymmetric(t *testing.T) {
	b := domain.NewBoard()
	for _, p := range []domain.Player{domain.PlayerRed, domain.PlayerWhite} {
		assert.Equal(t, 0, PositionalScore(&b, p), "positional %v", p)
		assert.Equal(t, 0, MobilityScore(&b, p), "mobility %v", p)
	}
}

func TestPositionalScore(t *testing.T) {
	b := parse(t, cornerBoard)
	// red (2,2)=5; white (1,1)=-50, (2,3)=1
	assert.Equal(t, 54, PositionalScore(&b, domain.PlayerRed))
	assert.Equal(t, -54, PositionalScore(&b, domain.PlayerWhite))
	assert.Equal(t, 54, Evaluate(&b, domain.PlayerRed, Positional))
}

func TestMobilityScoreIsAntisymmetric(t *testing.T) {
	for _, pos := range positions(t, 7) {
		b := pos.board
		red := MobilityScore(&b, domain.PlayerRed)
		assert.Equal(t, -red, MobilityScore(&b, domain.PlayerWhite))
		assert.Equal(t, red, Evaluate(&b, domain.PlayerRed, Mobility))
	}
}

func TestEvaluatorsDoNotMutate(t *testing.T) {
	b := parse(t, cornerBoard)
	before := b
	_ = MobilityScore(&b, domain.PlayerRed)
	_ = PositionalScore(&b, domain.PlayerWhite)
	_, _ = BestByMobility(b, b.LegalMoves(domain.PlayerRed), domain.PlayerRed)
	require.Equal(t, before, b)
}

func TestGreedyPicksEarliestMaximum(t *testing.T) {
	type scorer func(*domain.Board, domain.Player) int
	pick := map[string]func(domain.Board, []domain.Pos, domain.Player) (domain.Pos, bool){
		"mobility":   BestByMobility,
		"positional": BestByPosition,
	}
	score := map[string]scorer{"mobility": MobilityScore, "positional": PositionalScore}

	for _, pos := range positions(t, 11) {
		for name, fn := range pick {
			got, ok := fn(pos.board, pos.moves, pos.turn)
			require.True(t, ok)
			bestIdx, best := -1, 0
			for i, m := range pos.moves {
				cp := pos.board
				cp.ApplyMove(pos.turn, m.Row, m.Col)
				s := score[name](&cp, pos.turn)
				if bestIdx < 0 || s > best {
					bestIdx, best = i, s
				}
			}
			require.Equal(t, pos.moves[bestIdx], got, "%s greedy", name)
		}
	}
}

func TestGreedyOnKnownPosition(t *testing.T) {
	b := parse(t, cornerBoard)
	moves := b.LegalMoves(domain.PlayerRed)
	require.Equal(t, []domain.Pos{{Row: 0, Col: 0}, {Row: 2, Col: 4}}, moves)

	// taking the corner scores 54, extending the row scores 57
	m, ok := BestByPosition(b, moves, domain.PlayerRed)
	require.True(t, ok)
	assert.Equal(t, domain.Pos{Row: 2, Col: 4}, m)

	// the opening moves all score the same: the first one wins
	open := domain.NewBoard()
	m, _ = BestByPosition(open, open.LegalMoves(domain.PlayerRed), domain.PlayerRed)
	assert.Equal(t, domain.Pos{Row: 2, Col: 4}, m)
	m, _ = BestByMobility(open, []domain.Pos{{Row: 5, Col: 3}, {Row: 2, Col: 4}}, domain.PlayerRed)
	assert.Equal(t, domain.Pos{Row: 5, Col: 3}, m)
}

func TestGreedyWithoutCandidates(t *testing.T) {
	_, ok := BestByMobility(domain.NewBoard(), nil, domain.PlayerRed)
	assert.False(t, ok)
	_, ok = BestByPosition(domain.NewBoard(), nil, domain.PlayerRed)
	assert.False(t, ok)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("H2")
	require.NoError(t, err)
	assert.Equal(t, Positional, k)
	k, err = ParseKind("mobility")
	require.NoError(t, err)
	assert.Equal(t, Mobility, k)
	_, err = ParseKind("material")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
