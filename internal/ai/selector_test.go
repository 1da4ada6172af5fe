package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/reversi/internal/domain"
)

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		name  string
		depth int
		want  Strategy
	}{
		{"", 0, Strategy{Kind: FirstAvailable}},
		{"first", 3, Strategy{Kind: FirstAvailable}},
		{"random", 0, Strategy{Kind: Random}},
		{"H1", 1, Strategy{Kind: MobilityGreedy}},
		{"h1", 2, Strategy{Kind: Minimax, Depth: 2}},
		{"positional", 4, Strategy{Kind: PositionalGreedy}},
		{"H2", 0, Strategy{Kind: PositionalGreedy}},
		{"minimax", 0, Strategy{Kind: Minimax, Depth: 1}},
		{"Minimax", 3, Strategy{Kind: Minimax, Depth: 3}},
	}
	for _, tc := range cases {
		got, err := ParseStrategy(tc.name, tc.depth)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
	_, err := ParseStrategy("alphabeta", 2)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	assert.Equal(t, "minimax(3)", Strategy{Kind: Minimax, Depth: 3}.String())
}

func TestSelectEachStrategy(t *testing.T) {
	b := parse(t, cornerBoard)
	moves := b.LegalMoves(domain.PlayerRed)
	sel := NewSelector(1, 0)

	m, ok := sel.Select(b, moves, domain.PlayerRed, Strategy{Kind: FirstAvailable})
	require.True(t, ok)
	assert.Equal(t, moves[0], m)

	m, _ = sel.Select(b, moves, domain.PlayerRed, Strategy{Kind: PositionalGreedy})
	want, _ := BestByPosition(b, moves, domain.PlayerRed)
	assert.Equal(t, want, m)

	m, _ = sel.Select(b, moves, domain.PlayerRed, Strategy{Kind: MobilityGreedy})
	want, _ = BestByMobility(b, moves, domain.PlayerRed)
	assert.Equal(t, want, m)

	m, _ = sel.Select(b, moves, domain.PlayerRed, Strategy{Kind: Minimax, Depth: 2})
	assert.Equal(t, sel.Searcher().Decide(b, moves, 2, domain.PlayerRed).Move, m)

	m, _ = sel.Select(b, moves, domain.PlayerRed, Strategy{Kind: Random})
	assert.Contains(t, moves, m)
}

func TestSelectWithoutMoves(t *testing.T) {
	sel := NewSelector(1, 0)
	for _, k := range []StrategyKind{FirstAvailable, Random, MobilityGreedy, PositionalGreedy, Minimax} {
		_, ok := sel.Select(domain.NewBoard(), nil, domain.PlayerRed, Strategy{Kind: k, Depth: 2})
		assert.False(t, ok, k.String())
	}
}

func TestRandomIsReproducible(t *testing.T) {
	a, b := NewSelector(42, 0), NewSelector(42, 0)
	board := domain.NewBoard()
	moves := board.LegalMoves(domain.PlayerRed)
	for i := 0; i < 20; i++ {
		ma, _ := a.Select(board, moves, domain.PlayerRed, Strategy{Kind: Random})
		mb, _ := b.Select(board, moves, domain.PlayerRed, Strategy{Kind: Random})
		require.Equal(t, ma, mb)
	}
}
