package engine

import (
	"testing"

	"github.com/hailam/othelloplay/internal/board"
)

func TestOrderStable(t *testing.T) {
	mo := NewMoveOrderer(10)
	b := board.NewBoard()
	moves := b.LegalMoves(board.Black)

	// All four opening moves score the same, so input order is kept.
	got := mo.Order(b, moves, board.Black, 3, board.NoSquare)
	for i := range moves {
		if got[i] != moves[i] {
			t.Fatalf("Order changed equal-score moves: %v -> %v", moves, got)
		}
	}

	// The input slice is left untouched.
	mo.Order(b, moves, board.Black, 3, board.E6)
	if moves[0] != board.D3 {
		t.Errorf("Order modified its input: %v", moves)
	}
}

func TestOrderPriorities(t *testing.T) {
	mo := NewMoveOrderer(10)
	b := board.NewBoard()
	moves := b.LegalMoves(board.Black)

	mo.UpdateKiller(3, board.E6)
	got := mo.Order(b, moves, board.Black, 3, board.F5)
	want := []board.Square{board.F5, board.E6, board.D3, board.C4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Order = %v, want %v", got, want)
		}
	}

	// Killers are per depth.
	got = mo.Order(b, moves, board.Black, 4, board.NoSquare)
	if got[0] != board.D3 {
		t.Errorf("killer from depth 3 applied at depth 4: %v", got)
	}

	mo.Clear()
	if mo.Killer(3) != board.NoSquare {
		t.Errorf("Killer(3) = %v after Clear", mo.Killer(3))
	}
}

func TestScoreMove(t *testing.T) {
	mo := NewMoveOrderer(4)
	b := board.NewBoard()
	cornerTaken := b.With(board.A1, board.WhiteDisc)

	tests := []struct {
		name  string
		board board.Board
		sq    board.Square
		want  int
	}{
		{"corner", b, board.A1, CornerScore},
		{"x-square next to empty corner", b, board.B2, -XSquarePenalty - 50},
		{"c-square next to empty corner", b, board.B1, -CSquarePenalty - 20},
		{"x-square next to taken corner", cornerTaken, board.B2, -50},
		{"legal central move", b, board.D3, -1 + 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := mo.ScoreMove(tc.board, tc.sq, board.Black, 2, board.NoSquare); got != tc.want {
				t.Errorf("ScoreMove(%v) = %d, want %d", tc.sq, got, tc.want)
			}
		})
	}

	if got := mo.ScoreMove(b, board.B2, board.Black, 2, board.B2); got != TTMoveScore {
		t.Errorf("TT move scored %d, want %d", got, TTMoveScore)
	}
}

func TestKillerBounds(t *testing.T) {
	mo := NewMoveOrderer(2)
	mo.UpdateKiller(5, board.D3)
	mo.UpdateKiller(-1, board.D3)
	if mo.Killer(5) != board.NoSquare || mo.Killer(-1) != board.NoSquare {
		t.Error("out-of-range killer depth was stored")
	}
}
