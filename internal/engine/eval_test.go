package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/hailam/othelloplay/internal/board"
)

func TestTerminalEvaluation(t *testing.T) {
	eval := NewEvaluator()

	tests := []struct {
		name  string
		board board.Board
		black float64
	}{
		{"white wipeout", onlyMove.MustApply(board.C1, board.White), -10003},
		{"black full board", board.MustParse(repeat('X', 40) + repeat('O', 24)), 10016},
		{"draw", board.MustParse(repeat('X', 32) + repeat('O', 32)), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.board.IsTerminal() {
				t.Fatalf("board is not terminal:\n%s", tc.board)
			}
			black := eval.Evaluate(tc.board, board.Black)
			white := eval.Evaluate(tc.board, board.White)
			if black != tc.black {
				t.Errorf("Evaluate(Black) = %v, want %v", black, tc.black)
			}
			if black != -white {
				t.Errorf("Evaluate not antisymmetric: black %v, white %v", black, white)
			}
		})
	}
}

// TestTerminalAntisymmetryRandom plays random games to the end and checks
// both perspectives of every final position.
func TestTerminalAntisymmetryRandom(t *testing.T) {
	eval := NewEvaluator()
	rng := rand.New(rand.NewPCG(7, 11))

	for game := 0; game < 50; game++ {
		b := board.NewBoard()
		c := board.Black
		for !b.IsTerminal() {
			moves := b.LegalMoves(c)
			if len(moves) > 0 {
				b = b.MustApply(moves[rng.IntN(len(moves))], c)
			}
			c = c.Other()
		}

		black := eval.Evaluate(b, board.Black)
		white := eval.Evaluate(b, board.White)
		if black != -white {
			t.Fatalf("game %d: Evaluate(Black)=%v, Evaluate(White)=%v", game, black, white)
		}
		if m := b.Margin(board.Black); (m > 0) != (black > WinScore) || (m < 0) != (black < -WinScore) {
			t.Fatalf("game %d: margin %d scored %v", game, m, black)
		}
	}
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		discs int
		want  Phase
	}{
		{4, Opening},
		{20, Opening},
		{21, Midgame},
		{50, Midgame},
		{51, Endgame},
		{64, Endgame},
	}

	for _, tc := range tests {
		if got := PhaseOf(tc.discs); got != tc.want {
			t.Errorf("PhaseOf(%d) = %v, want %v", tc.discs, got, tc.want)
		}
	}
}

func TestEdgeStability(t *testing.T) {
	tests := []struct {
		name    string
		squares []board.Square
		want    int
	}{
		{"none", nil, 0},
		{"corner only", []board.Square{board.A1}, 10},
		{"corner and edges", []board.Square{board.A1, board.B1, board.C1, board.A2}, 13},
		{"gap stops the run", []board.Square{board.H8, board.G8, board.E8}, 11},
		{"edge without corner", []board.Square{board.B1, board.C1}, 0},
		{"two corners", []board.Square{board.A8, board.H1, board.H2}, 21},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var discs board.Bitboard
			for _, sq := range tc.squares {
				discs = discs.Set(sq)
			}
			if got := edgeStability(discs); got != tc.want {
				t.Errorf("edgeStability = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestEvaluatePrefersCorners(t *testing.T) {
	eval := NewEvaluator()

	// Same position, except one side owns a corner instead of an X-square.
	base := board.MustParse(
		"........" +
			"........" +
			"..XXO..." +
			"...XO..." +
			"...XXO.." +
			"........" +
			"........" +
			"........")
	withCorner := base.With(board.A1, board.BlackDisc)
	withXSquare := base.With(board.B2, board.BlackDisc)

	if eval.Evaluate(withCorner, board.Black) <= eval.Evaluate(withXSquare, board.Black) {
		t.Error("corner not preferred over X-square")
	}
}

func TestEvaluatorCalls(t *testing.T) {
	eval := NewEvaluator()
	b := board.NewBoard()
	for i := 0; i < 3; i++ {
		eval.Evaluate(b, board.Black)
	}
	if eval.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", eval.Calls())
	}
}

func repeat(ch byte, n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = ch
	}
	return string(s)
}
