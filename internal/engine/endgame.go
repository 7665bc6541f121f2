package engine

import (
	"math"
	"sync/atomic"

	"github.com/hailam/othelloplay/internal/board"
)

// endgameKey identifies a solved node. The maximizing flag is part of the key
// because stored margins are relative to the root mover.
type endgameKey struct {
	hash       uint64
	toMove     board.Color
	maximizing bool
}

type endgameEntry struct {
	value int
	flag  TTFlag
}

// EndgameSolver searches to the end of the game and returns exact disc
// margins. It has no time budget but honours the cancel flag.
type EndgameSolver struct {
	cache     map[endgameKey]endgameEntry
	orderer   *MoveOrderer
	cancel    *atomic.Bool
	checkMask uint64
	nodes     uint64
	aborted   bool
}

// NewEndgameSolver creates a solver with an empty cache.
func NewEndgameSolver(cancel *atomic.Bool) *EndgameSolver {
	return &EndgameSolver{
		cache:     make(map[endgameKey]endgameEntry),
		orderer:   NewMoveOrderer(0),
		cancel:    cancel,
		checkMask: DefaultConfig().checkMask(),
	}
}

// Nodes returns the number of nodes searched.
func (s *EndgameSolver) Nodes() uint64 {
	return s.nodes
}

// Aborted reports whether the solve was canceled.
func (s *EndgameSolver) Aborted() bool {
	return s.aborted
}

// Solve returns the best move for c and the exact final disc margin from c's
// point of view under perfect play. ok is false when c has no move or the
// solve was canceled.
func (s *EndgameSolver) Solve(b board.Board, c board.Color) (best board.Square, margin int, ok bool) {
	moves := b.LegalMoves(c)
	if len(moves) == 0 {
		return board.NoSquare, 0, false
	}

	best = board.NoSquare
	margin = math.MinInt
	alpha := math.MinInt
	for _, m := range s.orderer.Order(b, moves, c, 0, board.NoSquare) {
		v := s.solve(b.MustApply(m, c), alpha, math.MaxInt, c.Other(), false)
		if s.aborted {
			return board.NoSquare, 0, false
		}
		if v > margin {
			margin = v
			best = m
		}
		alpha = max(alpha, margin)
	}
	return best, margin, true
}

// Value returns the exact margin of b from c's point of view with c to move.
func (s *EndgameSolver) Value(b board.Board, c board.Color) (int, bool) {
	v := s.solve(b, math.MinInt, math.MaxInt, c, true)
	return v, !s.aborted
}

func (s *EndgameSolver) solve(b board.Board, alpha, beta int, c board.Color, maximizing bool) int {
	if s.aborted {
		return 0
	}
	s.nodes++
	if s.nodes&s.checkMask == 0 && s.cancel != nil && s.cancel.Load() {
		s.aborted = true
		return 0
	}

	key := endgameKey{b.Hash(), c, maximizing}
	origAlpha, origBeta := alpha, beta
	if e, ok := s.cache[key]; ok {
		switch e.flag {
		case TTExact:
			return e.value
		case TTLowerBound:
			alpha = max(alpha, e.value)
		case TTUpperBound:
			beta = min(beta, e.value)
		}
		if alpha >= beta {
			return e.value
		}
	}

	var value int
	moves := b.MoveMask(c)
	switch {
	case moves == 0 && !b.HasMoves(c.Other()):
		// Game over: raw disc differential.
		return b.Margin(perspective(c, maximizing))

	case moves == 0:
		// Forced pass.
		value = s.solve(b, alpha, beta, c.Other(), !maximizing)

	case maximizing:
		value = math.MinInt
		for _, m := range s.orderer.Order(b, moves.Squares(), c, 0, board.NoSquare) {
			value = max(value, s.solve(b.MustApply(m, c), alpha, beta, c.Other(), false))
			alpha = max(alpha, value)
			if alpha >= beta {
				break
			}
		}

	default:
		value = math.MaxInt
		for _, m := range s.orderer.Order(b, moves.Squares(), c, 0, board.NoSquare) {
			value = min(value, s.solve(b.MustApply(m, c), alpha, beta, c.Other(), true))
			beta = min(beta, value)
			if alpha >= beta {
				break
			}
		}
	}

	if s.aborted {
		return 0
	}

	flag := TTExact
	if value <= origAlpha {
		flag = TTUpperBound
	} else if value >= origBeta {
		flag = TTLowerBound
	}
	s.cache[key] = endgameEntry{value: value, flag: flag}
	return value
}
