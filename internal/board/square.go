// Package board implements the Othello board representation using bitboards.
package board

import "fmt"

// Square represents a cell on the board (0-63).
// Row-major: a1=0 is the top-left corner, h1=7, a8=56, h8=63.
// The letter names the column and the digit names the row.
type Square uint8

// Square constants for all 64 cells.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// NewSquare creates a square from row and column (0-indexed).
func NewSquare(row, col int) Square {
	return Square(row*8 + col)
}

// Row returns the row of the square (0-7, top to bottom).
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Col returns the column of the square (0-7, left to right).
func (sq Square) Col() int {
	return int(sq) & 7
}

// String returns the coordinate notation for the square (e.g., "d3").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "--"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col(), '1'+sq.Row())
}

// ParseSquare parses coordinate notation (e.g., "f5") into a Square.
// "pass" and "--" parse to NoSquare.
func ParseSquare(s string) (Square, error) {
	if s == "pass" || s == "--" {
		return NoSquare, nil
	}
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	col := int(s[0] - 'a')
	if s[0] >= 'A' && s[0] <= 'H' {
		col = int(s[0] - 'A')
	}
	row := int(s[1] - '1')

	if col < 0 || col > 7 || row < 0 || row > 7 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}

	return NewSquare(row, col), nil
}

// IsValid returns true if the square is on the board (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// IsCorner reports whether the square is one of the four corners.
func (sq Square) IsCorner() bool {
	return sq.IsValid() && Corners.IsSet(sq)
}

// AdjacentCorner returns the corner an X-square or C-square touches.
// ok is false for every other square.
func (sq Square) AdjacentCorner() (corner Square, ok bool) {
	if !sq.IsValid() || !(XSquares | CSquares).IsSet(sq) {
		return NoSquare, false
	}
	row, col := 0, 0
	if sq.Row() >= 4 {
		row = 7
	}
	if sq.Col() >= 4 {
		col = 7
	}
	return NewSquare(row, col), true
}
