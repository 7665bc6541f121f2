package book

import "github.com/hailam/othelloplay/internal/board"

// symmetry maps a square to its image under one of the four board
// symmetries that preserve the starting position.
type symmetry func(row, col int) (int, int)

var symmetries = [4]symmetry{
	func(r, c int) (int, int) { return r, c },         // identity
	func(r, c int) (int, int) { return c, r },         // main diagonal
	func(r, c int) (int, int) { return 7 - c, 7 - r }, // anti-diagonal
	func(r, c int) (int, int) { return 7 - r, 7 - c }, // half turn
}

func transform(sq board.Square, sym symmetry) board.Square {
	r, c := sym(sq.Row(), sq.Col())
	return board.NewSquare(r, c)
}

func transformAll(moves []board.Square, sym symmetry) []board.Square {
	out := make([]board.Square, len(moves))
	for i, sq := range moves {
		out[i] = transform(sq, sym)
	}
	return out
}
