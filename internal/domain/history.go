package domain

import "fmt"

// Step is one ply. The top committed step is always the current one: while
// the history is active it is open (not yet played) and holds the legal
// moves of the player about to move.
type Step struct {
	Cell    Pos
	Placed  bool
	Flipped []Pos
	Player  Player
	Legal   []Pos
}

// Open reports whether the step still waits for its move.
func (s Step) Open() bool { return !s.Placed && s.Player != PlayerInitial }

// UndoResult tells the caller how to roll the board back one step.
type UndoResult struct {
	Unmark      []Pos  // legal moves of the popped step
	Mark        []Pos  // legal moves of the new current step
	Cell        Pos    // placed cell to clear
	Placed      bool   // false when the new current step is a bootstrap record
	Flipped     []Pos  // flips to reverse
	AtStart     bool   // displayed step reached 0
	Description string
	Player      Player // owner of the new current step
}

// RedoResult tells the caller how to reapply one step.
type RedoResult struct {
	Unmark      []Pos
	Cell        Pos
	Player      Player
	Flipped     []Pos
	Mark        []Pos
	AtEnd       bool // redo side is now empty
	Description string
}

// History is the undo/redo ledger.
type History struct {
	committed []Step
	redo      []Step
	total     int
	displayed int
}

// NewHistory returns a ledger seeded with the two bootstrap records.
func NewHistory() *History {
	return &History{committed: []Step{{Player: PlayerInitial}, {Player: PlayerInitial}}}
}

func (h *History) Total() int { return h.total }
func (h *History) Displayed() int { return h.displayed }

// Active reports whether the displayed step is the latest one.
func (h *History) Active() bool { return h.displayed == h.total }

func (h *History) CanUndo() bool { return h.displayed > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Current returns the top committed step.
func (h *History) Current() Step { return h.committed[len(h.committed)-1] }

// BeginStep pushes an open step for p with its legal moves.
func (h *History) BeginStep(p Player, legal []Pos) error {
	if !h.Active() {
		return ErrNotActive
	}
	h.committed = append(h.committed, Step{Player: p, Legal: legal})
	return nil
}

// ReplaceOpen swaps the open top step for one owned by p. Used to skip a
// turn when the mover has nothing to play.
func (h *History) ReplaceOpen(p Player, legal []Pos) error {
	if !h.Active() {
		return ErrNotActive
	}
	if !h.Current().Open() {
		return ErrNoOpenStep
	}
	h.committed[len(h.committed)-1] = Step{Player: p, Legal: legal}
	return nil
}

// CommitStep records the move played on the open top step. Bootstrap
// records never hold a move, so committing onto one fails.
func (h *History) CommitStep(cell Pos, flipped []Pos) error {
	if !h.Active() {
		return ErrNotActive
	}
	top := &h.committed[len(h.committed)-1]
	if !top.Open() {
		return ErrNoOpenStep
	}
	top.Cell, top.Flipped, top.Placed = cell, flipped, true
	h.total++
	h.displayed++
	return nil
}

// Undo moves the current step to the redo side. The new current step is
// the move being taken back.
func (h *History) Undo() (UndoResult, error) {
	if h.displayed == 0 {
		return UndoResult{}, ErrHistoryUnderflow
	}
	popped := h.committed[len(h.committed)-1]
	h.committed = h.committed[:len(h.committed)-1]
	h.redo = append(h.redo, popped)
	h.displayed--

	top := h.Current()
	return UndoResult{
		Unmark:      popped.Legal,
		Mark:        top.Legal,
		Cell:        top.Cell,
		Placed:      top.Placed,
		Flipped:     top.Flipped,
		AtStart:     h.displayed == 0,
		Description: h.Describe(h.lastVisible()),
		Player:      top.Player,
	}, nil
}

// Redo replays the step most recently undone.
func (h *History) Redo() (RedoResult, error) {
	if len(h.redo) == 0 {
		return RedoResult{}, ErrHistoryUnderflow
	}
	h.displayed++
	played := h.Current()
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.committed = append(h.committed, next)

	return RedoResult{
		Unmark:      played.Legal,
		Cell:        played.Cell,
		Player:      played.Player,
		Flipped:     played.Flipped,
		Mark:        next.Legal,
		AtEnd:       len(h.redo) == 0,
		Description: h.Describe(played),
	}, nil
}

// lastVisible is the most recent step whose move is on the board.
func (h *History) lastVisible() Step {
	if h.Active() {
		for i := len(h.committed) - 1; i >= 0; i-- {
			if h.committed[i].Placed {
				return h.committed[i]
			}
		}
	}
	return h.committed[len(h.committed)-2]
}

// DescribeLast describes the most recent visible move.
func (h *History) DescribeLast() string { return h.Describe(h.lastVisible()) }

// Describe renders the step counters and, for played steps, the action.
func (h *History) Describe(s Step) string {
	head := fmt.Sprintf("Actual state %d | Displayed state %d", h.total, h.displayed)
	if s.Player == PlayerInitial || !s.Placed {
		return head + "\nInitial state"
	}
	return fmt.Sprintf("%s\nAction %s-%d", head, s.Player, s.Cell.Index())
}

// Steps returns a copy of the committed side, bootstrap records first.
func (h *History) Steps() []Step {
	out := make([]Step, len(h.committed))
	copy(out, h.committed)
	return out
}

// Clone deep-copies the ledger.
func (h *History) Clone() *History {
	cp := &History{total: h.total, displayed: h.displayed}
	cp.committed = cloneSteps(h.committed)
	cp.redo = cloneSteps(h.redo)
	return cp
}

func cloneSteps(in []Step) []Step {
	if in == nil {
		return nil
	}
	out := make([]Step, len(in))
	for i, s := range in {
		s.Flipped = append([]Pos(nil), s.Flipped...)
		s.Legal = append([]Pos(nil), s.Legal...)
		out[i] = s
	}
	return out
}
