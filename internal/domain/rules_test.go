package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustParse(t *testing.T, s string) Board {
	t.Helper()
	b, err := ParseBoard(s)
	if err != nil {
		t.Fatalf("parse board: %v", err)
	}
	return b
}

func TestOpeningBoard(t *testing.T) {
	b := NewBoard()
	if b.Count(Red) != 2 || b.Count(White) != 2 || b.Discs() != 4 {
		t.Fatalf("unexpected opening counts: red=%d white=%d", b.Count(Red), b.Count(White))
	}
	if b[3][3] != Red || b[4][4] != Red || b[3][4] != White || b[4][3] != White {
		t.Fatalf("unexpected opening layout:\n%s", b.String())
	}
}

func TestOpeningLegalMoves(t *testing.T) {
	b := NewBoard()
	got := b.LegalMoves(PlayerRed)
	want := []Pos{{2, 4}, {3, 5}, {4, 2}, {5, 3}}
	if !samePos(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for _, m := range got {
		cp := b
		flipped := cp.ApplyMove(PlayerRed, m.Row, m.Col)
		if len(flipped) != 1 {
			t.Fatalf("move %v should flip exactly one disc, flipped %v", m, flipped)
		}
	}
}

func TestIsLegalRejectsOccupiedAndEdges(t *testing.T) {
	b := NewBoard()
	if b.IsLegal(PlayerRed, 3, 3) || b.IsLegal(PlayerRed, 3, 4) {
		t.Fatalf("occupied cells must never be legal")
	}
	if b.IsLegal(PlayerRed, 0, 0) {
		t.Fatalf("corner with no neighbours must not be legal")
	}
	// runs ending on the edge or on an empty cell never capture
	edge := mustParse(t, `
WWWW....
.WWW....
........
........
........
........
........
........`)
	if edge.IsLegal(PlayerRed, 0, 4) || edge.IsLegal(PlayerRed, 1, 4) || edge.IsLegal(PlayerRed, 1, 0) {
		t.Fatalf("run without a closing disc must not be legal")
	}
}

func TestFindDirection(t *testing.T) {
	b := NewBoard()
	d, ok := b.FindDirection(PlayerRed, 2, 4)
	if !ok || d != (Direction{1, 0}) {
		t.Fatalf("expected down from (2,4), got %v ok=%v", d, ok)
	}
	d, ok = b.FindDirection(PlayerRed, 3, 5)
	if !ok || d != (Direction{0, -1}) {
		t.Fatalf("expected left from (3,5), got %v ok=%v", d, ok)
	}
	if _, ok := b.FindDirection(PlayerRed, 2, 2); ok {
		t.Fatalf("(2,2) has no capturing direction")
	}
}

func TestApplyMoveFlipsEveryDirection(t *testing.T) {
	b := mustParse(t, `
R..R..R.
.W.W.W..
..WWW...
RWW.WWR.
..WWW...
.W.W.W..
R..R..R.
........`)
	flipped := b.ApplyMove(PlayerRed, 3, 3)
	if len(flipped) != 16 {
		t.Fatalf("expected 16 flips, got %d: %v", len(flipped), flipped)
	}
	// up first, then up-right, distance order inside a direction
	if flipped[0] != (Pos{2, 3}) || flipped[1] != (Pos{1, 3}) || flipped[2] != (Pos{2, 4}) {
		t.Fatalf("unexpected flip order: %v", flipped[:3])
	}
	if b.Count(White) != 0 {
		t.Fatalf("all white discs should be captured:\n%s", b.String())
	}
}

func TestApplyMoveSkipsOpenRuns(t *testing.T) {
	b := mustParse(t, `
........
........
........
..RWW.W.
....W...
........
........
........`)
	// right and down-left runs end on empty cells
	if !b.IsLegal(PlayerRed, 3, 5) {
		t.Fatalf("(3,5) should capture leftwards")
	}
	flipped := b.ApplyMove(PlayerRed, 3, 5)
	want := []Pos{{3, 4}, {3, 3}}
	if !samePos(flipped, want) {
		t.Fatalf("expected %v, got %v", want, flipped)
	}
	if b[3][6] != White || b[4][4] != White {
		t.Fatalf("discs outside closed runs must not flip:\n%s", b.String())
	}
}

func TestRevertAndReplayAreInverse(t *testing.T) {
	opening := NewBoard()
	for _, m := range opening.LegalMoves(PlayerRed) {
		b := NewBoard()
		before := b
		flipped := b.ApplyMove(PlayerRed, m.Row, m.Col)
		after := b
		b.RevertMove(PlayerRed, m, flipped)
		if b != before {
			t.Fatalf("revert of %v did not restore the board:\n%s", m, b.String())
		}
		b.ReplayMove(PlayerRed, m, flipped)
		if b != after {
			t.Fatalf("replay of %v did not reproduce the board:\n%s", m, b.String())
		}
	}
}

func TestLegalMovesAgreeWithIsLegal(t *testing.T) {
	g := New()
	for ply := 0; ply < 60; ply++ {
		for _, p := range []Player{PlayerRed, PlayerWhite} {
			count := 0
			for r := 0; r < Size; r++ {
				for c := 0; c < Size; c++ {
					if g.Board.IsLegal(p, r, c) {
						count++
					}
				}
			}
			if n := len(g.Board.LegalMoves(p)); n != count {
				t.Fatalf("ply %d %v: scan=%d per-cell=%d", ply, p, n, count)
			}
		}
		if !advanceFirst(t, g) {
			break
		}
	}
}

func TestValidatePos(t *testing.T) {
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 8}} {
		if err := ValidatePos(p[0], p[1]); err != ErrOutOfBounds {
			t.Fatalf("expected ErrOutOfBounds for %v, got %v", p, err)
		}
	}
	if err := ValidatePos(7, 7); err != nil {
		t.Fatalf("(7,7) is on the board: %v", err)
	}
}

func TestParseBoardRoundTrip(t *testing.T) {
	b := NewBoard()
	got, err := ParseBoard(b.String())
	if err != nil || got != b {
		t.Fatalf("round trip failed: %v\n%s", err, got.String())
	}
	if _, err := ParseBoard("RW"); err != ErrBadBoard {
		t.Fatalf("expected ErrBadBoard, got %v", err)
	}
}

func TestBoardJSONUsesNames(t *testing.T) {
	b := NewBoard()
	data, err := json.Marshal(struct {
		Board Board
		Turn  Player
	}{b, PlayerWhite})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"Red","White"`) || !strings.Contains(string(data), `"Turn":"WHITE"`) {
		t.Fatalf("unexpected encoding: %s", data)
	}
	var back struct {
		Board Board
		Turn  Player
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Board != b || back.Turn != PlayerWhite {
		t.Fatalf("decoded %v %v", back.Board.String(), back.Turn)
	}
}

func samePos(a, b []Pos) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// advanceFirst plays the first legal move, passing if needed. It returns
// false once the game is over.
func advanceFirst(t *testing.T, g *Game) bool {
	t.Helper()
	switch g.Status() {
	case StatusOver:
		return false
	case StatusMustPass:
		if err := g.Pass(); err != nil {
			t.Fatalf("pass: %v", err)
		}
	}
	m := g.LegalMoves()[0]
	if _, err := g.Play(m.Row, m.Col); err != nil {
		t.Fatalf("play %v: %v", m, err)
	}
	return true
}
