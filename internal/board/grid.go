package board

import "fmt"

// HostEncoding maps cell contents to the integers a host grid uses.
type HostEncoding struct {
	Empty int
	Black int
	White int
}

// DefaultHostEncoding is the 0 / 1 / -1 encoding used by the game front end.
var DefaultHostEncoding = HostEncoding{Empty: 0, Black: 1, White: -1}

// Validate checks that the three values are distinct.
func (e HostEncoding) Validate() error {
	if e.Empty == e.Black || e.Empty == e.White || e.Black == e.White {
		return fmt.Errorf("host encoding values must be distinct: %+v", e)
	}
	return nil
}

// FromGrid converts a host grid indexed [row][col] into a Board.
func FromGrid(grid [8][8]int, enc HostEncoding) (Board, error) {
	if err := enc.Validate(); err != nil {
		return Board{}, err
	}
	var black, white Bitboard
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := NewSquare(row, col)
			switch grid[row][col] {
			case enc.Black:
				black = black.Set(sq)
			case enc.White:
				white = white.Set(sq)
			case enc.Empty:
			default:
				return Board{}, fmt.Errorf("unknown cell value %d at %s", grid[row][col], sq)
			}
		}
	}
	return FromBitboards(black, white)
}

// Grid converts the board back to a host grid.
func (b Board) Grid(enc HostEncoding) [8][8]int {
	var grid [8][8]int
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			switch b.At(NewSquare(row, col)) {
			case BlackDisc:
				grid[row][col] = enc.Black
			case WhiteDisc:
				grid[row][col] = enc.White
			default:
				grid[row][col] = enc.Empty
			}
		}
	}
	return grid
}

// ColorFromHost converts a host player value to a Color.
func ColorFromHost(v int, enc HostEncoding) (Color, error) {
	switch v {
	case enc.Black:
		return Black, nil
	case enc.White:
		return White, nil
	}
	return NoColor, fmt.Errorf("unknown player value %d", v)
}

// HostValue converts a Color to the host's player value.
func (c Color) HostValue(enc HostEncoding) int {
	if c == White {
		return enc.White
	}
	return enc.Black
}
