package engine

import (
	"slices"

	"github.com/hailam/othelloplay/internal/board"
)

// Move ordering priorities
const (
	TTMoveScore    = 100000 // TT move gets highest priority
	CornerScore    = 50000  // Corners
	KillerScore    = 10000  // Killer move for this depth
	XSquarePenalty = 5000   // Diagonal neighbour of an empty corner
	CSquarePenalty = 2000   // Orthogonal neighbour of an empty corner
)

// positionWeights is the static square value used for ordering.
var positionWeights = [64]int{
	100, -20, 10, 5, 5, 10, -20, 100,
	-20, -50, -2, -2, -2, -2, -50, -20,
	10, -2, -1, -1, -1, -1, -2, 10,
	5, -2, -1, -1, -1, -1, -2, 5,
	5, -2, -1, -1, -1, -1, -2, 5,
	10, -2, -1, -1, -1, -1, -2, 10,
	-20, -50, -2, -2, -2, -2, -50, -20,
	100, -20, 10, 5, 5, 10, -20, 100,
}

// MoveOrderer handles move ordering for the search.
type MoveOrderer struct {
	// Killer moves (moves that caused a cutoff), one per remaining depth
	killers []board.Square
}

// NewMoveOrderer creates a move orderer for depths up to maxDepth.
func NewMoveOrderer(maxDepth int) *MoveOrderer {
	mo := &MoveOrderer{killers: make([]board.Square, maxDepth+1)}
	mo.Clear()
	return mo
}

// Clear resets the killer table for a new search.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i] = board.NoSquare
	}
}

// Killer returns the killer move recorded at depth.
func (mo *MoveOrderer) Killer(depth int) board.Square {
	if depth < 0 || depth >= len(mo.killers) {
		return board.NoSquare
	}
	return mo.killers[depth]
}

// UpdateKiller records a move that caused a cutoff at depth.
func (mo *MoveOrderer) UpdateKiller(depth int, sq board.Square) {
	if depth < 0 || depth >= len(mo.killers) {
		return
	}
	mo.killers[depth] = sq
}

// ScoreMove assigns an ordering score to a single move.
func (mo *MoveOrderer) ScoreMove(b board.Board, sq board.Square, c board.Color, depth int, ttMove board.Square) int {
	switch {
	case sq == ttMove:
		return TTMoveScore
	case sq.IsCorner():
		return CornerScore
	case sq == mo.Killer(depth):
		return KillerScore
	}

	score := 0
	if corner, ok := sq.AdjacentCorner(); ok && b.At(corner) == board.Empty {
		if board.XSquares.IsSet(sq) {
			score -= XSquarePenalty
		} else {
			score -= CSquarePenalty
		}
	}
	score += positionWeights[sq]
	score += b.Flips(sq, c).PopCount()
	return score
}

// Order returns the moves sorted best-first. The sort is stable, so equal
// scores keep their input order. The input slice is not modified.
func (mo *MoveOrderer) Order(b board.Board, moves []board.Square, c board.Color, depth int, ttMove board.Square) []board.Square {
	type scored struct {
		sq    board.Square
		score int
	}
	list := make([]scored, len(moves))
	for i, sq := range moves {
		list[i] = scored{sq, mo.ScoreMove(b, sq, c, depth, ttMove)}
	}
	slices.SortStableFunc(list, func(x, y scored) int {
		return y.score - x.score
	})

	ordered := make([]board.Square, len(list))
	for i, s := range list {
		ordered[i] = s.sq
	}
	return ordered
}
