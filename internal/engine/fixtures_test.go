package engine

import (
	"testing"

	"github.com/hailam/othelloplay/internal/board"
)

// endgamePosition is a late position with its exact value under perfect play.
type endgamePosition struct {
	name   string
	board  string
	toMove board.Color
	margin int          // final disc margin for toMove
	best   board.Square // the only move that achieves margin
}

var endgamePositions = []endgamePosition{
	{
		name:   "black wins by 18",
		board:  "..XXXX.XX.OOX.X.XOOXXOOOXOXXXOOXXOOOXOO.XOXOOX.OXOOOXXX.XOOXXXX.",
		toMove: board.Black,
		margin: 18,
		best:   board.H2,
	},
	{
		name:   "black wins by 28",
		board:  "..OOO.OXOOOOOOXXOOXXOXOXOOXOXOXXOOXOOOOX.OXXX...OOXXOOO...XOOOOO",
		toMove: board.Black,
		margin: 28,
		best:   board.F1,
	},
	{
		name:   "black loses by 8",
		board:  "OXXXOOOOOXXX.XOOXOOXXOO.OOXOOXXX.OOOOXXXXOOOXOXX..X.XXO..X.XXX.O",
		toMove: board.Black,
		margin: -8,
		best:   board.E2,
	},
	{
		name:   "black loses by 2",
		board:  "XOOOO.O.XOOO.OO.XOOOO.OXXOOOO.O.XXOXXXO.OOOOXOOOOXXXOOXOOX.XXXX.",
		toMove: board.Black,
		margin: -2,
		best:   board.F4,
	},
}

func (p endgamePosition) parse(t *testing.T) board.Board {
	t.Helper()
	b, err := board.Parse(p.board)
	if err != nil {
		t.Fatalf("%s: %v", p.name, err)
	}
	return b
}

// midgame returns a position well outside the endgame window.
func midgame(t *testing.T) (board.Board, board.Color) {
	t.Helper()
	b, c, err := board.ParseMoves("f5d6c3d3c4f4f6f3e6e7")
	if err != nil {
		t.Fatalf("ParseMoves: %v", err)
	}
	return b, c
}

// onlyMove is a position where White has exactly one move (c1) and Black none.
var onlyMove = board.MustParse("OX" + "..............................................................")
