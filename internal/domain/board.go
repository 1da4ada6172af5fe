package domain

import (
	"fmt"
	"strings"
)

// Size is the side length of the board.
const Size = 8

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	Red
	White
)

func (c Cell) String() string {
	switch c {
	case Red:
		return "Red"
	case White:
		return "White"
	default:
		return "Empty"
	}
}

// MarshalText encodes the cell by name so boards read well as JSON.
func (c Cell) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Cell) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Red":
		*c = Red
	case "White":
		*c = White
	case "Empty":
		*c = Empty
	default:
		return ErrBadBoard
	}
	return nil
}

// Player owns a step. PlayerInitial only tags the bootstrap history records.
type Player uint8

const (
	PlayerRed Player = iota + 1
	PlayerWhite
	PlayerInitial
)

// Opponent returns the other side. PlayerInitial has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case PlayerRed:
		return PlayerWhite
	case PlayerWhite:
		return PlayerRed
	default:
		return PlayerInitial
	}
}

// Cell returns the disc colour placed by p.
func (p Player) Cell() Cell {
	switch p {
	case PlayerRed:
		return Red
	case PlayerWhite:
		return White
	default:
		return Empty
	}
}

func (p Player) String() string {
	switch p {
	case PlayerRed:
		return "RED"
	case PlayerWhite:
		return "WHITE"
	default:
		return "INITIAL"
	}
}

func (p Player) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Player) UnmarshalText(b []byte) error {
	switch string(b) {
	case "RED":
		*p = PlayerRed
	case "WHITE":
		*p = PlayerWhite
	case "INITIAL":
		*p = PlayerInitial
	default:
		return fmt.Errorf("unknown player %q", b)
	}
	return nil
}

// Pos addresses a cell by row and column.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Index flattens the position row-major.
func (p Pos) Index() int { return p.Row*Size + p.Col }

func (p Pos) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Board is a fixed 8x8 grid stored row-major. Assigning a Board copies it.
type Board [Size][Size]Cell

// NewBoard returns the opening position.
func NewBoard() Board {
	var b Board
	mid := Size / 2
	b[mid-1][mid-1], b[mid][mid] = Red, Red
	b[mid-1][mid], b[mid][mid-1] = White, White
	return b
}

func (b *Board) At(p Pos) Cell { return b[p.Row][p.Col] }

func (b *Board) Set(p Pos, c Cell) { b[p.Row][p.Col] = c }

// Count returns how many cells hold c.
func (b *Board) Count(c Cell) int {
	n := 0
	for r := range b {
		for col := range b[r] {
			if b[r][col] == c {
				n++
			}
		}
	}
	return n
}

// Discs is the number of occupied cells.
func (b *Board) Discs() int { return Size*Size - b.Count(Empty) }

func (b *Board) Full() bool { return b.Count(Empty) == 0 }

// String renders the board as rows of '.', 'R' and 'W'.
func (b *Board) String() string {
	var sb strings.Builder
	for r := range b {
		for c := range b[r] {
			switch b[r][c] {
			case Red:
				sb.WriteByte('R')
			case White:
				sb.WriteByte('W')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard is the inverse of String. Whitespace-only lines are skipped.
func ParseBoard(s string) (Board, error) {
	var b Board
	r := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if r >= Size || len(line) != Size {
			return Board{}, ErrBadBoard
		}
		for c := 0; c < Size; c++ {
			switch line[c] {
			case 'R':
				b[r][c] = Red
			case 'W':
				b[r][c] = White
			case '.':
				b[r][c] = Empty
			default:
				return Board{}, ErrBadBoard
			}
		}
		r++
	}
	if r != Size {
		return Board{}, ErrBadBoard
	}
	return b, nil
}
