package engine

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/hailam/othelloplay/internal/board"
)

// Search constants
const (
	Infinity = math.MaxFloat64
)

// moveKey identifies a legal-move list in the per-search cache.
type moveKey struct {
	hash  uint64
	color board.Color
}

// Searcher performs the time-bounded alpha-beta search.
// Its session state (clock, node count, move cache, killers) is rebuilt by
// Reset at the start of every search.
type Searcher struct {
	cfg     Config
	tt      *TranspositionTable
	eval    *Evaluator
	orderer *MoveOrderer
	tm      *TimeManager

	checkMask uint64
	nodes     uint64
	aborted   bool
	moveCache map[moveKey][]board.Square
}

// NewSearcher creates a new searcher.
func NewSearcher(cfg Config, tt *TranspositionTable, eval *Evaluator) *Searcher {
	return &Searcher{
		cfg:       cfg,
		tt:        tt,
		eval:      eval,
		orderer:   NewMoveOrderer(cfg.MaxDepth),
		tm:        NewTimeManager(),
		checkMask: cfg.checkMask(),
		moveCache: make(map[moveKey][]board.Square),
	}
}

// Reset prepares the searcher for a new search.
func (s *Searcher) Reset(budget time.Duration, cancel *atomic.Bool) {
	s.tm.Init(budget, cancel)
	s.nodes = 0
	s.aborted = false
	s.moveCache = make(map[moveKey][]board.Square)
	s.orderer.Clear()
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Aborted reports whether the last search ran out of time or was canceled.
func (s *Searcher) Aborted() bool {
	return s.aborted
}

// legalMoves returns the memoized legal moves for c.
func (s *Searcher) legalMoves(b board.Board, c board.Color) []board.Square {
	key := moveKey{b.Hash(), c}
	if moves, ok := s.moveCache[key]; ok {
		return moves
	}
	moves := b.LegalMoves(c)
	s.moveCache[key] = moves
	return moves
}

// perspective returns the color whose score a node maximizes: the mover at a
// maximizing node, its opponent otherwise.
func perspective(c board.Color, maximizing bool) board.Color {
	if maximizing {
		return c
	}
	return c.Other()
}

// SearchRoot searches every root move to depth and returns the best one.
// ok is false when the search was aborted before the depth completed.
func (s *Searcher) SearchRoot(b board.Board, c board.Color, depth int) (best board.Square, score float64, ok bool) {
	moves := s.legalMoves(b, c)
	if len(moves) == 0 {
		return board.NoSquare, 0, true
	}

	ttMove := board.NoSquare
	if e, found := s.tt.Probe(ttKey(b, c, true)); found {
		ttMove = e.BestMove
	}

	best = board.NoSquare
	score = -Infinity
	alpha := -Infinity
	for _, m := range s.orderer.Order(b, moves, c, depth, ttMove) {
		v := s.minimax(b.MustApply(m, c), depth-1, alpha, Infinity, c.Other(), false)
		if s.aborted {
			return board.NoSquare, 0, false
		}
		if best == board.NoSquare || v > score {
			score = v
			best = m
		}
		alpha = max(alpha, score)
	}
	return best, score, true
}

// minimax is a fail-soft alpha-beta minimax. Scores are always from the
// point of view of the root mover.
func (s *Searcher) minimax(b board.Board, depth int, alpha, beta float64, c board.Color, maximizing bool) float64 {
	if s.aborted {
		return 0
	}
	s.nodes++
	if s.nodes&s.checkMask == 0 && s.tm.ShouldStop() {
		s.aborted = true
		return 0
	}

	key := ttKey(b, c, maximizing)
	origAlpha, origBeta := alpha, beta

	// TT probe
	ttMove := board.NoSquare
	if e, ok := s.tt.Probe(key); ok {
		if int(e.Depth) >= depth {
			switch e.Flag {
			case TTExact:
				return e.Score
			case TTLowerBound:
				alpha = max(alpha, e.Score)
			case TTUpperBound:
				beta = min(beta, e.Score)
			}
			if alpha >= beta {
				return e.Score
			}
		}
		// Too shallow for a cutoff, still a good first move.
		ttMove = e.BestMove
	}

	if depth == 0 || b.IsTerminal() {
		return s.eval.Evaluate(b, perspective(c, maximizing))
	}

	moves := s.legalMoves(b, c)
	if len(moves) == 0 {
		// Forced pass: same board and depth, other side to move.
		return s.minimax(b, depth, alpha, beta, c.Other(), !maximizing)
	}

	best := board.NoSquare
	var value float64
	if maximizing {
		value = -Infinity
		for _, m := range s.orderer.Order(b, moves, c, depth, ttMove) {
			v := s.minimax(b.MustApply(m, c), depth-1, alpha, beta, c.Other(), false)
			if best == board.NoSquare || v > value {
				value = v
				best = m
			}
			alpha = max(alpha, value)
			if alpha >= beta {
				s.orderer.UpdateKiller(depth, m)
				break
			}
		}
	} else {
		value = Infinity
		for _, m := range s.orderer.Order(b, moves, c, depth, ttMove) {
			v := s.minimax(b.MustApply(m, c), depth-1, alpha, beta, c.Other(), true)
			if best == board.NoSquare || v < value {
				value = v
				best = m
			}
			beta = min(beta, value)
			if alpha >= beta {
				s.orderer.UpdateKiller(depth, m)
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
	s.tt.Store(key, depth, value, flag, best)

	return value
}

// bestByEvaluation returns the move whose resulting position evaluates best
// for c at one ply. It is the fallback when no depth completed.
func (s *Searcher) bestByEvaluation(b board.Board, c board.Color) (board.Square, float64) {
	best := board.NoSquare
	bestScore := -Infinity
	for _, m := range s.orderer.Order(b, s.legalMoves(b, c), c, 0, board.NoSquare) {
		v := s.eval.Evaluate(b.MustApply(m, c), c)
		if best == board.NoSquare || v > bestScore {
			best, bestScore = m, v
		}
	}
	return best, bestScore
}
