package domain

// Status summarises what the side to move may do.
type Status uint8

const (
	StatusPlaying   Status = iota
	StatusMustPass         // mover has no legal move, opponent has
	StatusOver             // neither side can move
	StatusReviewing        // history is behind the latest step
)

func (s Status) String() string {
	switch s {
	case StatusMustPass:
		return "must_pass"
	case StatusOver:
		return "over"
	case StatusReviewing:
		return "reviewing"
	default:
		return "playing"
	}
}

// Game is one session: the live board plus its history.
type Game struct {
	Board   Board
	history *History
}

// MoveResult describes a committed move.
type MoveResult struct {
	Player      Player
	Cell        Pos
	Flipped     []Pos
	Next        Player
	NextLegal   []Pos
	Description string
}

// New returns a game at the opening position with Red to move.
func New() *Game {
	g := &Game{Board: NewBoard(), history: NewHistory()}
	_ = g.history.BeginStep(PlayerRed, g.Board.LegalMoves(PlayerRed))
	return g
}

// NewFromBoard starts a session from an arbitrary position with p to move.
// The position becomes step 0.
func NewFromBoard(b Board, p Player) *Game {
	g := &Game{Board: b, history: NewHistory()}
	_ = g.history.BeginStep(p, g.Board.LegalMoves(p))
	return g
}

// Turn is the owner of the current step.
func (g *Game) Turn() Player { return g.history.Current().Player }

// LegalMoves returns the recorded legal moves of the current step.
func (g *Game) LegalMoves() []Pos {
	return append([]Pos(nil), g.history.Current().Legal...)
}

func (g *Game) Active() bool { return g.history.Active() }
func (g *Game) CanUndo() bool { return g.history.CanUndo() }
func (g *Game) CanRedo() bool { return g.history.CanRedo() }
func (g *Game) TotalSteps() int { return g.history.Total() }
func (g *Game) DisplayedStep() int { return g.history.Displayed() }
func (g *Game) Description() string { return g.history.DescribeLast() }
func (g *Game) Steps() []Step { return g.history.Steps() }

func (g *Game) RedDiscs() int { return g.Board.Count(Red) }
func (g *Game) WhiteDiscs() int { return g.Board.Count(White) }

// Play places the current player's disc at row r, column c. On error the
// board and history are left untouched.
func (g *Game) Play(r, c int) (MoveResult, error) {
	if err := ValidatePos(r, c); err != nil {
		return MoveResult{}, err
	}
	if !g.history.Active() {
		return MoveResult{}, ErrNotActive
	}
	if g.Board[r][c] != Empty {
		return MoveResult{}, ErrOccupied
	}
	p := g.Turn()
	if !g.Board.IsLegal(p, r, c) {
		return MoveResult{}, ErrNoCapture
	}

	cell := Pos{r, c}
	flipped := g.Board.ApplyMove(p, r, c)
	if err := g.history.CommitStep(cell, flipped); err != nil {
		g.Board.RevertMove(p, cell, flipped)
		return MoveResult{}, err
	}
	next := p.Opponent()
	legal := g.Board.LegalMoves(next)
	if err := g.history.BeginStep(next, legal); err != nil {
		return MoveResult{}, err
	}
	return MoveResult{
		Player:      p,
		Cell:        cell,
		Flipped:     flipped,
		Next:        next,
		NextLegal:   legal,
		Description: g.history.DescribeLast(),
	}, nil
}

// Pass hands the turn to the opponent when the mover is stuck.
func (g *Game) Pass() error {
	if !g.history.Active() {
		return ErrNotActive
	}
	if len(g.history.Current().Legal) > 0 {
		return ErrCannotPass
	}
	next := g.Turn().Opponent()
	legal := g.Board.LegalMoves(next)
	if len(legal) == 0 {
		return ErrGameOver
	}
	return g.history.ReplaceOpen(next, legal)
}

// Undo takes back the latest displayed move using its recorded flips.
func (g *Game) Undo() (UndoResult, error) {
	res, err := g.history.Undo()
	if err != nil {
		return UndoResult{}, err
	}
	if res.Placed {
		g.Board.RevertMove(res.Player, res.Cell, res.Flipped)
	}
	return res, nil
}

// Redo reapplies the move most recently taken back.
func (g *Game) Redo() (RedoResult, error) {
	res, err := g.history.Redo()
	if err != nil {
		return RedoResult{}, err
	}
	g.Board.ReplayMove(res.Player, res.Cell, res.Flipped)
	return res, nil
}

// Status reports the state of play at the displayed step.
func (g *Game) Status() Status {
	if !g.history.Active() {
		return StatusReviewing
	}
	if len(g.history.Current().Legal) > 0 {
		return StatusPlaying
	}
	if g.Board.HasLegalMove(g.Turn().Opponent()) {
		return StatusMustPass
	}
	return StatusOver
}

// Winner returns the colour with more discs once the game is over; Empty
// means a draw.
func (g *Game) Winner() (Cell, bool) {
	if g.Status() != StatusOver {
		return Empty, false
	}
	red, white := g.RedDiscs(), g.WhiteDiscs()
	switch {
	case red > white:
		return Red, true
	case white > red:
		return White, true
	default:
		return Empty, true
	}
}

// Replay walks the history one step at a time: back to step 0, then
// forward to the step displayed when it was called, passing every board
// to fn. The session ends exactly where it started, even if fn fails.
func (g *Game) Replay(fn func(step int, b Board) error) error {
	start := g.history.Displayed()
	for g.history.CanUndo() {
		if _, err := g.Undo(); err != nil {
			return err
		}
	}
	firstErr := fn(0, g.Board)
	for step := 1; step <= start; step++ {
		if _, err := g.Redo(); err != nil {
			return err
		}
		if firstErr == nil {
			firstErr = fn(step, g.Board)
		}
	}
	return firstErr
}

// Clone deep-copies the session.
func (g *Game) Clone() *Game {
	return &Game{Board: g.Board, history: g.history.Clone()}
}
