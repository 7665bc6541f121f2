package board

import "testing"

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	b := NewBoard()

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 4},
		{2, 12},
		{3, 56},
		{4, 244},
		{5, 1396},
		{6, 8200},
		{7, 55092},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := Perft(b, Black, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftTiger tests a position reached after the Tiger opening moves.
func TestPerftTiger(t *testing.T) {
	b, c, err := ParseMoves("f5d6c3d3c4")
	if err != nil {
		t.Fatalf("Failed to replay moves: %v", err)
	}
	if c != White {
		t.Fatalf("side to move = %v, want White", c)
	}
	if got, want := b.Text(), "..................XO......XXX......OXX.....O...................."; got != want {
		t.Fatalf("board = %s, want %s", got, want)
	}

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 6},
		{2, 54},
		{3, 358},
		{4, 3144},
		{5, 25039},
	}

	for _, tc := range tests {
		got := Perft(b, c, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// TestPerftForcedPass checks that a pass counts as a ply and a finished game as one leaf.
func TestPerftForcedPass(t *testing.T) {
	b := MustParse("OX" + dots(62))
	for depth := 1; depth <= 4; depth++ {
		if got := Perft(b, Black, depth); got != 1 {
			t.Errorf("perft(%d) = %d, want 1", depth, got)
		}
	}
}

func dots(n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = '.'
	}
	return string(s)
}
