package board

import (
	"fmt"
	"strings"
)

// Board is an immutable Othello position: one disc bitboard per color.
// Every transformation returns a new Board, so values can be shared freely
// between search branches and goroutines.
type Board struct {
	discs [2]Bitboard
}

// NewBoard returns the standard starting position:
// d4 and e5 white, e4 and d5 black.
func NewBoard() Board {
	var b Board
	b.discs[White] = SquareBB(D4) | SquareBB(E5)
	b.discs[Black] = SquareBB(E4) | SquareBB(D5)
	return b
}

// FromBitboards builds a board from per-color disc sets.
// Overlapping squares are an error.
func FromBitboards(black, white Bitboard) (Board, error) {
	if black&white != 0 {
		return Board{}, fmt.Errorf("overlapping discs: %d squares owned by both colors", (black & white).PopCount())
	}
	var b Board
	b.discs[Black] = black
	b.discs[White] = white
	return b, nil
}

// At returns the content of a square.
func (b Board) At(sq Square) Cell {
	switch {
	case b.discs[Black].IsSet(sq):
		return BlackDisc
	case b.discs[White].IsSet(sq):
		return WhiteDisc
	default:
		return Empty
	}
}

// With returns a copy of the board with the square set to cell.
// No discs are flipped.
func (b Board) With(sq Square, cell Cell) Board {
	b.discs[Black] = b.discs[Black].Clear(sq)
	b.discs[White] = b.discs[White].Clear(sq)
	if c := cell.Color(); c != NoColor {
		b.discs[c] = b.discs[c].Set(sq)
	}
	return b
}

// Discs returns the disc set of a color.
func (b Board) Discs(c Color) Bitboard {
	return b.discs[c]
}

// Occupied returns every square holding a disc.
func (b Board) Occupied() Bitboard {
	return b.discs[Black] | b.discs[White]
}

// EmptySquares returns every square without a disc.
func (b Board) EmptySquares() Bitboard {
	return ^b.Occupied()
}

// Count returns the number of discs of a color.
func (b Board) Count(c Color) int {
	return b.discs[c].PopCount()
}

// DiscCount returns the number of discs on the board.
func (b Board) DiscCount() int {
	return b.Occupied().PopCount()
}

// Empties returns the number of empty squares.
func (b Board) Empties() int {
	return 64 - b.DiscCount()
}

// Margin returns the disc differential from c's point of view.
func (b Board) Margin(c Color) int {
	return b.Count(c) - b.Count(c.Other())
}

// Winner returns the color with more discs, or NoColor on a tie.
func (b Board) Winner() Color {
	switch m := b.Margin(Black); {
	case m > 0:
		return Black
	case m < 0:
		return White
	default:
		return NoColor
	}
}

// String returns a visual representation of the board.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('1' + row))
		for col := 0; col < 8; col++ {
			sb.WriteByte(' ')
			sb.WriteByte(b.At(NewSquare(row, col)).Char())
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "Black: %d  White: %d  Empty: %d\n", b.Count(Black), b.Count(White), b.Empties())
	return sb.String()
}
