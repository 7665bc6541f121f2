package board

import (
	"errors"
	"fmt"
)

// ErrInvalidMove is returned when a move targets an occupied square or flips nothing.
var ErrInvalidMove = errors.New("invalid move")

// MoveMask returns the set of legal moves for c.
// A move is legal when, in some direction, it is followed by one or more
// opponent discs and then a disc of c.
func (b Board) MoveMask(c Color) Bitboard {
	own, opp := b.discs[c], b.discs[c.Other()]
	empty := ^(own | opp)

	var moves Bitboard
	for _, d := range directions {
		// Runs are at most six opponent discs long.
		x := d.step(own) & opp
		x |= d.step(x) & opp
		x |= d.step(x) & opp
		x |= d.step(x) & opp
		x |= d.step(x) & opp
		x |= d.step(x) & opp
		moves |= d.step(x) & empty
	}
	return moves
}

// LegalMoves returns the legal moves for c in ascending square order.
// The result is empty when c must pass.
func (b Board) LegalMoves(c Color) []Square {
	return b.MoveMask(c).Squares()
}

// HasMoves reports whether c has at least one legal move.
func (b Board) HasMoves(c Color) bool {
	return b.MoveMask(c) != 0
}

// IsLegal reports whether c may play on sq.
func (b Board) IsLegal(sq Square, c Color) bool {
	return sq.IsValid() && b.MoveMask(c).IsSet(sq)
}

// IsTerminal reports whether neither side has a legal move.
func (b Board) IsTerminal() bool {
	return b.MoveMask(Black) == 0 && b.MoveMask(White) == 0
}

// Flips returns the opponent discs that c would turn over by playing sq.
// It is zero when the move is illegal.
func (b Board) Flips(sq Square, c Color) Bitboard {
	if !sq.IsValid() || b.Occupied().IsSet(sq) {
		return 0
	}
	own, opp := b.discs[c], b.discs[c.Other()]
	start := SquareBB(sq)

	var flips Bitboard
	for _, d := range directions {
		var line Bitboard
		x := d.step(start)
		for x&opp != 0 {
			line |= x
			x = d.step(x)
		}
		if x&own != 0 {
			flips |= line
		}
	}
	return flips
}

// Apply places a disc of color c on sq and flips every bracketed run.
// The receiver is unchanged; an illegal move returns ErrInvalidMove.
func (b Board) Apply(sq Square, c Color) (Board, error) {
	if c != Black && c != White {
		return b, fmt.Errorf("%w: no color to move", ErrInvalidMove)
	}
	if !sq.IsValid() {
		return b, fmt.Errorf("%w: square %d off the board", ErrInvalidMove, sq)
	}
	if b.Occupied().IsSet(sq) {
		return b, fmt.Errorf("%w: %s is occupied", ErrInvalidMove, sq)
	}
	flips := b.Flips(sq, c)
	if flips == 0 {
		return b, fmt.Errorf("%w: %s flips nothing for %s", ErrInvalidMove, sq, c)
	}
	return b.apply(sq, c, flips), nil
}

// MustApply is Apply for moves known to be legal, such as those returned by LegalMoves.
// It panics on an illegal move.
func (b Board) MustApply(sq Square, c Color) Board {
	nb, err := b.Apply(sq, c)
	if err != nil {
		panic(err)
	}
	return nb
}

func (b Board) apply(sq Square, c Color, flips Bitboard) Board {
	b.discs[c] |= flips | SquareBB(sq)
	b.discs[c.Other()] &^= flips
	return b
}

// Frontier returns the discs of c that touch at least one empty square.
func (b Board) Frontier(c Color) Bitboard {
	return b.discs[c] & b.EmptySquares().Neighbours()
}
