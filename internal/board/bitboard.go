package board

import "math/bits"

// Bitboard represents a 64-bit set of squares where each bit corresponds to a square.
// Bit 0 = a1 (top-left), bit 7 = h1, bit 56 = a8, bit 63 = h8 (row-major).
type Bitboard uint64

// Column masks
const (
	FileA Bitboard = 0x0101010101010101
	FileB Bitboard = 0x0202020202020202
	FileG Bitboard = 0x4040404040404040
	FileH Bitboard = 0x8080808080808080
)

// Row masks
const (
	Rank1 Bitboard = 0x00000000000000FF
	Rank2 Bitboard = 0x000000000000FF00
	Rank7 Bitboard = 0x00FF000000000000
	Rank8 Bitboard = 0xFF00000000000000
)

// Special masks
const (
	Universe Bitboard = 0xFFFFFFFFFFFFFFFF

	NotFileA Bitboard = ^FileA
	NotFileH Bitboard = ^FileH

	Corners Bitboard = (FileA | FileH) & (Rank1 | Rank8)
	Edges   Bitboard = FileA | FileH | Rank1 | Rank8

	// Diagonal neighbours of the corners.
	XSquares Bitboard = (FileB | FileG) & (Rank2 | Rank7)

	// Orthogonal neighbours of the corners.
	CSquares Bitboard = ((FileB | FileG) & (Rank1 | Rank8)) | ((FileA | FileH) & (Rank2 | Rank7))
)

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// Set sets a bit at the given square.
func (b Bitboard) Set(sq Square) Bitboard {
	return b | (1 << sq)
}

// Clear clears a bit at the given square.
func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ (1 << sq)
}

// IsSet returns true if the bit at the given square is set.
func (b Bitboard) IsSet(sq Square) bool {
	return b&(1<<sq) != 0
}

// PopCount returns the number of set bits (population count).
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the least significant bit (lowest square index).
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes and returns the least significant bit.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Squares returns the set squares in ascending (row-major) order.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b != 0 {
		squares = append(squares, b.PopLSB())
	}
	return squares
}

// direction is one of the eight compass directions expressed as a bit shift.
// The mask removes bits that wrapped around a row edge.
type direction struct {
	shift int
	mask  Bitboard
}

// directions lists the eight neighbours of a square.
var directions = [8]direction{
	{1, NotFileA},  // east
	{9, NotFileA},  // south-east
	{8, Universe},  // south
	{7, NotFileH},  // south-west
	{-1, NotFileH}, // west
	{-9, NotFileH}, // north-west
	{-8, Universe}, // north
	{-7, NotFileA}, // north-east
}

func (d direction) step(b Bitboard) Bitboard {
	if d.shift > 0 {
		return (b << uint(d.shift)) & d.mask
	}
	return (b >> uint(-d.shift)) & d.mask
}

// Neighbours returns every square adjacent to a set bit.
func (b Bitboard) Neighbours() Bitboard {
	var n Bitboard
	for _, d := range directions {
		n |= d.step(b)
	}
	return n
}
