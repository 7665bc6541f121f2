package board

import (
	"fmt"
	"strings"
)

// Text returns the 64-character row-major form of the board:
// 'X' for black, 'O' for white and '.' for empty.
func (b Board) Text() string {
	var buf [64]byte
	for sq := A1; sq <= H8; sq++ {
		buf[sq] = b.At(sq).Char()
	}
	return string(buf[:])
}

// Parse reads a board in the form produced by Text.
// Whitespace is ignored; 'B'/'*' are accepted for black, 'W' for white, '-' for empty.
func Parse(s string) (Board, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s) != 64 {
		return Board{}, fmt.Errorf("invalid board text: expected 64 cells, got %d", len(s))
	}

	var b Board
	for i := 0; i < 64; i++ {
		sq := Square(i)
		switch s[i] {
		case 'X', 'x', 'B', 'b', '*':
			b.discs[Black] = b.discs[Black].Set(sq)
		case 'O', 'o', 'W', 'w':
			b.discs[White] = b.discs[White].Set(sq)
		case '.', '-':
		default:
			return Board{}, fmt.Errorf("invalid board text: unexpected %q at %s", s[i], sq)
		}
	}
	return b, nil
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) Board {
	b, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseMoves replays a move sequence such as "f5d6c3" or "f5 d6 c3" from
// the starting position. Forced passes are applied automatically.
// It returns the resulting board and the color to move.
func ParseMoves(seq string) (Board, Color, error) {
	b := NewBoard()
	c := Black
	seq = strings.Join(strings.Fields(seq), "")
	if len(seq)%2 != 0 {
		return b, c, fmt.Errorf("invalid move sequence %q: odd length", seq)
	}
	for i := 0; i < len(seq); i += 2 {
		sq, err := ParseSquare(seq[i : i+2])
		if err != nil {
			return b, c, err
		}
		if !b.HasMoves(c) {
			c = c.Other()
		}
		nb, err := b.Apply(sq, c)
		if err != nil {
			return b, c, fmt.Errorf("move %d: %w", i/2+1, err)
		}
		b = nb
		c = c.Other()
	}
	if !b.HasMoves(c) && b.HasMoves(c.Other()) {
		c = c.Other()
	}
	return b, c, nil
}
