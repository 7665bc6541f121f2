package board

// Color represents the color of a disc or player.
// Black moves first.
type Color uint8

const (
	Black Color = iota
	White
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "NoColor"
	}
}

// Char returns the text character for a disc of this color.
func (c Color) Char() byte {
	switch c {
	case Black:
		return 'X'
	case White:
		return 'O'
	default:
		return '.'
	}
}

// ParseColor parses "b"/"black"/"x" and "w"/"white"/"o".
func ParseColor(s string) (Color, bool) {
	switch s {
	case "b", "B", "black", "Black", "x", "X":
		return Black, true
	case "w", "W", "white", "White", "o", "O":
		return White, true
	}
	return NoColor, false
}

// Cell is the content of a single square.
type Cell uint8

const (
	Empty Cell = iota
	BlackDisc
	WhiteDisc
)

// Disc returns the cell value for a disc of this color.
func (c Color) Disc() Cell {
	if c > White {
		return Empty
	}
	return Cell(c + 1)
}

// Color returns the owner of the cell, or NoColor when empty.
func (c Cell) Color() Color {
	if c == Empty || c > WhiteDisc {
		return NoColor
	}
	return Color(c - 1)
}

// Char returns the text character for the cell.
func (c Cell) Char() byte {
	return c.Color().Char()
}
