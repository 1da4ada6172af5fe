package domain

// Direction is a unit step along one of the eight rays.
type Direction struct {
	DRow, DCol int
}

// Directions in walk order: up, up-right, right, down-right, down,
// down-left, left, up-left. Flip lists follow this order.
var Directions = [8]Direction{
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

// ValidatePos rejects coordinates outside the board.
func ValidatePos(row, col int) error {
	if !(Pos{row, col}).InBounds() {
		return ErrOutOfBounds
	}
	return nil
}

// run walks from (row,col) along d over opponent discs. It returns the
// number of opponent discs crossed and whether the walk ended on one of
// p's discs.
func (b *Board) run(p Player, row, col int, d Direction) (int, bool) {
	own, opp := p.Cell(), p.Opponent().Cell()
	n := 0
	r, c := row+d.DRow, col+d.DCol
	for (Pos{r, c}).InBounds() && b[r][c] == opp {
		n++
		r += d.DRow
		c += d.DCol
	}
	if n == 0 || !(Pos{r, c}).InBounds() {
		return n, false
	}
	return n, b[r][c] == own
}

// FindDirection returns the first direction in which placing p's disc at
// (row, col) captures. The cell must be in bounds.
func (b *Board) FindDirection(p Player, row, col int) (Direction, bool) {
	if b[row][col] != Empty {
		return Direction{}, false
	}
	for _, d := range Directions {
		if _, ok := b.run(p, row, col, d); ok {
			return d, true
		}
	}
	return Direction{}, false
}

func (b *Board) IsLegal(p Player, row, col int) bool {
	_, ok := b.FindDirection(p, row, col)
	return ok
}

// LegalMoves scans the board row-major and returns every legal cell for p.
func (b *Board) LegalMoves(p Player) []Pos {
	var moves []Pos
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsLegal(p, r, c) {
				moves = append(moves, Pos{r, c})
			}
		}
	}
	return moves
}

// HasLegalMove reports whether p can move at all.
func (b *Board) HasLegalMove(p Player) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b.IsLegal(p, r, c) {
				return true
			}
		}
	}
	return false
}

// ApplyMove places p's disc at (row, col) and flips every captured run.
// The move must be legal. The returned flips are ordered by direction,
// then by distance from the placed disc.
func (b *Board) ApplyMove(p Player, row, col int) []Pos {
	var flipped []Pos
	b[row][col] = p.Cell()
	for _, d := range Directions {
		n, ok := b.run(p, row, col, d)
		if !ok {
			continue
		}
		for i := 1; i <= n; i++ {
			pos := Pos{row + i*d.DRow, col + i*d.DCol}
			b.Set(pos, p.Cell())
			flipped = append(flipped, pos)
		}
	}
	return flipped
}

// RevertMove undoes a recorded move: the placed cell is cleared and the
// flipped discs go back to p's opponent.
func (b *Board) RevertMove(p Player, cell Pos, flipped []Pos) {
	b.Set(cell, Empty)
	for _, pos := range flipped {
		b.Set(pos, p.Opponent().Cell())
	}
}

// ReplayMove reapplies a recorded move without recomputing its flips.
func (b *Board) ReplayMove(p Player, cell Pos, flipped []Pos) {
	b.Set(cell, p.Cell())
	for _, pos := range flipped {
		b.Set(pos, p.Cell())
	}
}
