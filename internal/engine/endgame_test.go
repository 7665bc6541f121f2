package engine

import (
	"sync/atomic"
	"testing"

	"github.com/hailam/othelloplay/internal/board"
)

func TestEndgameSolve(t *testing.T) {
	for _, p := range endgamePositions {
		t.Run(p.name, func(t *testing.T) {
			b := p.parse(t)
			s := NewEndgameSolver(nil)

			best, margin, ok := s.Solve(b, p.toMove)
			if !ok {
				t.Fatal("Solve failed")
			}
			if best != p.best || margin != p.margin {
				t.Errorf("Solve = %v (%d), want %v (%d)", best, margin, p.best, p.margin)
			}
			t.Logf("%d nodes", s.Nodes())

			// The position's value is the best move's value.
			v, ok := NewEndgameSolver(nil).Value(b, p.toMove)
			if !ok || v != p.margin {
				t.Errorf("Value = %d, %v; want %d", v, ok, p.margin)
			}
		})
	}
}

// TestEndgameValueIsNegamaxConsistent checks that the value for one side is
// the negation of the value for the other after the best move.
func TestEndgameValueIsNegamaxConsistent(t *testing.T) {
	p := endgamePositions[0]
	b := p.parse(t)

	after := b.MustApply(p.best, p.toMove)
	v, ok := NewEndgameSolver(nil).Value(after, p.toMove.Other())
	if !ok {
		t.Fatal("Value failed")
	}
	if v != -p.margin {
		t.Errorf("opponent value after %v = %d, want %d", p.best, v, -p.margin)
	}
}

func TestEndgameTerminal(t *testing.T) {
	full := board.MustParse(repeat('X', 40) + repeat('O', 24))
	s := NewEndgameSolver(nil)

	if _, _, ok := s.Solve(full, board.Black); ok {
		t.Error("Solve on a finished game reported a move")
	}
	if v, _ := s.Value(full, board.Black); v != 16 {
		t.Errorf("Value(Black) = %d, want 16", v)
	}
	if v, _ := s.Value(full, board.White); v != -16 {
		t.Errorf("Value(White) = %d, want -16", v)
	}
}

func TestEndgamePassNode(t *testing.T) {
	// Black has no move, White takes c1 and wipes Black out.
	v, ok := NewEndgameSolver(nil).Value(onlyMove, board.Black)
	if !ok {
		t.Fatal("Value failed")
	}
	if v != -3 {
		t.Errorf("Value = %d, want -3", v)
	}
}

func TestEndgameCancel(t *testing.T) {
	b, c := midgame(t)
	canceled := new(atomic.Bool)
	canceled.Store(true)

	s := NewEndgameSolver(canceled)
	if _, _, ok := s.Solve(b, c); ok {
		t.Fatal("canceled solve reported a result")
	}
	if !s.Aborted() {
		t.Error("Aborted() = false after cancel")
	}
	if s.Nodes() > 2*(DefaultConfig().checkMask()+1) {
		t.Errorf("solver ran %d nodes after cancel", s.Nodes())
	}
}
