package engine

import (
	"sync/atomic"

	"github.com/hailam/othelloplay/internal/board"
)

// WinScore is the base value of a finished game; the disc margin is added to it.
const WinScore = 10000

// Game phases, selected by the number of discs on the board.
type Phase int

const (
	Opening Phase = iota
	Midgame
	Endgame
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case Midgame:
		return "midgame"
	default:
		return "endgame"
	}
}

// PhaseOf returns the phase for a disc count: up to 20 discs is the opening,
// up to 50 the midgame.
func PhaseOf(discs int) Phase {
	switch {
	case discs <= 20:
		return Opening
	case discs <= 50:
		return Midgame
	default:
		return Endgame
	}
}

// phaseWeights scales each evaluation term for one phase.
type phaseWeights struct {
	table    *[64]int
	position float64
	mobility float64
	frontier float64
	stable   float64
	parity   float64
}

var weightsByPhase = [3]phaseWeights{
	Opening: {table: &openingTable, position: 5, mobility: 30, frontier: 15, stable: 1, parity: 0},
	Midgame: {table: &midgameTable, position: 10, mobility: 15, frontier: 5, stable: 15, parity: 2},
	Endgame: {table: &endgameTable, position: 5, mobility: 5, frontier: 1, stable: 25, parity: 10},
}

// Positional tables, row-major from a1.
var openingTable = [64]int{
	120, -20, 20, 5, 5, 20, -20, 120,
	-20, -40, -5, -5, -5, -5, -40, -20,
	20, -5, 15, 3, 3, 15, -5, 20,
	5, -5, 3, 3, 3, 3, -5, 5,
	5, -5, 3, 3, 3, 3, -5, 5,
	20, -5, 15, 3, 3, 15, -5, 20,
	-20, -40, -5, -5, -5, -5, -40, -20,
	120, -20, 20, 5, 5, 20, -20, 120,
}

var midgameTable = [64]int{
	100, -25, 10, 5, 5, 10, -25, 100,
	-25, -35, -5, -5, -5, -5, -35, -25,
	10, -5, 5, 2, 2, 5, -5, 10,
	5, -5, 2, 1, 1, 2, -5, 5,
	5, -5, 2, 1, 1, 2, -5, 5,
	10, -5, 5, 2, 2, 5, -5, 10,
	-25, -35, -5, -5, -5, -5, -35, -25,
	100, -25, 10, 5, 5, 10, -25, 100,
}

var endgameTable = [64]int{
	50, -10, 5, 3, 3, 5, -10, 50,
	-10, -15, -3, -1, -1, -3, -15, -10,
	5, -3, 1, 1, 1, 1, -3, 5,
	3, -1, 1, 1, 1, 1, -1, 3,
	3, -1, 1, 1, 1, 1, -1, 3,
	5, -3, 1, 1, 1, 1, -3, 5,
	-10, -15, -3, -1, -1, -3, -15, -10,
	50, -10, 5, 3, 3, 5, -10, 50,
}

// Evaluator scores positions. It is safe for concurrent use.
type Evaluator struct {
	calls atomic.Uint64
}

// NewEvaluator creates an evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Calls returns how many times Evaluate has run.
func (e *Evaluator) Calls() uint64 {
	return e.calls.Load()
}

// Evaluate scores b from c's point of view; higher is better for c.
// Finished games score ±(WinScore + margin), or 0 for a draw.
func (e *Evaluator) Evaluate(b board.Board, c board.Color) float64 {
	e.calls.Add(1)

	opp := c.Other()
	ownMoves := b.MoveMask(c).PopCount()
	oppMoves := b.MoveMask(opp).PopCount()

	if ownMoves == 0 && oppMoves == 0 {
		return TerminalScore(b, c)
	}

	w := weightsByPhase[PhaseOf(b.DiscCount())]
	own, theirs := b.Discs(c), b.Discs(opp)

	var score float64

	// Position
	score += float64(tableSum(w.table, own)-tableSum(w.table, theirs)) * w.position

	// Mobility
	if ownMoves+oppMoves > 0 {
		score += 100 * float64(ownMoves-oppMoves) / float64(ownMoves+oppMoves+1) * w.mobility
	}

	// Stability
	score += float64(edgeStability(own)-edgeStability(theirs)) * w.stable * 10

	// Frontier: fewer exposed discs is better.
	if w.frontier > 0 {
		score += float64(b.Frontier(opp).PopCount()-b.Frontier(c).PopCount()) * w.frontier
	}

	// Parity
	if b.Empties()%2 == 0 {
		score += w.parity * 50
	} else {
		score -= w.parity * 50
	}

	return score
}

// TerminalScore scores a finished game from c's point of view.
func TerminalScore(b board.Board, c board.Color) float64 {
	margin := b.Margin(c)
	switch {
	case margin > 0:
		return float64(WinScore + margin)
	case margin < 0:
		return float64(-WinScore + margin)
	default:
		return 0
	}
}

func tableSum(table *[64]int, discs board.Bitboard) int {
	sum := 0
	for discs != 0 {
		sum += table[discs.PopLSB()]
	}
	return sum
}

// edgeStability approximates stable discs: 10 per owned corner plus one for
// every contiguous own disc running along both edges away from it.
func edgeStability(discs board.Bitboard) int {
	stability := 0
	for _, corner := range [4]board.Square{board.A1, board.H1, board.A8, board.H8} {
		if !discs.IsSet(corner) {
			continue
		}
		stability += 10

		row, col := corner.Row(), corner.Col()
		dc := 1
		if col != 0 {
			dc = -1
		}
		for c := col + dc; c >= 0 && c < 8 && discs.IsSet(board.NewSquare(row, c)); c += dc {
			stability++
		}

		dr := 1
		if row != 0 {
			dr = -1
		}
		for r := row + dr; r >= 0 && r < 8 && discs.IsSet(board.NewSquare(r, col)); r += dr {
			stability++
		}
	}
	return stability
}
