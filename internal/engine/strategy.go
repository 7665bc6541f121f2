package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"lukechampine.com/frand"

	"github.com/hailam/othelloplay/internal/board"
)

// Kind names a strategy tier.
type Kind int

const (
	KindRandom     Kind = iota // Uniform random legal move
	KindFixedDepth             // Depth-3 minimax, simple evaluation, no cache
	KindHeuristic              // Full engine
	KindExact                  // Full engine with a wider exact endgame window
)

// exactEndgameThreshold is the solver window for KindExact.
const exactEndgameThreshold = 16

// fixedDepth is the search depth of KindFixedDepth.
const fixedDepth = 3

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRandom:
		return "random"
	case KindFixedDepth:
		return "minimax"
	case KindHeuristic:
		return "heuristic"
	case KindExact:
		return "exact"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a strategy name as produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "random":
		return KindRandom, nil
	case "minimax", "fixed", "fixeddepth":
		return KindFixedDepth, nil
	case "heuristic", "engine":
		return KindHeuristic, nil
	case "exact":
		return KindExact, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

// EngineBacked reports whether the kind is played by a full Engine.
func (k Kind) EngineBacked() bool {
	return k == KindHeuristic || k == KindExact
}

// EndgameThreshold returns the solver window the kind uses on top of base.
func (k Kind) EndgameThreshold(base int) int {
	if k == KindExact {
		return max(base, exactEndgameThreshold)
	}
	return base
}

// Strategy chooses moves. The set of strategies is closed: only this package
// can implement it.
type Strategy interface {
	Kind() Kind
	// Move returns the chosen move, or ok=false when c must pass.
	Move(b board.Board, c board.Color, budget time.Duration) (sq board.Square, ok bool)
	sealed()
}

// NewStrategy builds a strategy of the given kind. cfg configures the engine
// behind the heuristic and exact kinds.
func NewStrategy(kind Kind, cfg Config) (Strategy, error) {
	switch kind {
	case KindRandom:
		return randomStrategy{}, nil
	case KindFixedDepth:
		return fixedDepthStrategy{depth: fixedDepth}, nil
	case KindHeuristic:
		return &engineStrategy{kind: kind, engine: NewEngine(cfg)}, nil
	case KindExact:
		cfg.EndgameThreshold = kind.EndgameThreshold(cfg.EndgameThreshold)
		return &engineStrategy{kind: kind, engine: NewEngine(cfg)}, nil
	}
	return nil, fmt.Errorf("unknown strategy kind %d", int(kind))
}

type randomStrategy struct{}

func (randomStrategy) Kind() Kind { return KindRandom }

func (randomStrategy) Move(b board.Board, c board.Color, _ time.Duration) (board.Square, bool) {
	moves := b.LegalMoves(c)
	if len(moves) == 0 {
		return board.NoSquare, false
	}
	return moves[frand.Intn(len(moves))], true
}

func (randomStrategy) sealed() {}

// fixedDepthStrategy is a plain minimax without a cache or time limit.
type fixedDepthStrategy struct {
	depth int
}

func (fixedDepthStrategy) Kind() Kind { return KindFixedDepth }

func (s fixedDepthStrategy) Move(b board.Board, c board.Color, _ time.Duration) (board.Square, bool) {
	moves := b.LegalMoves(c)
	if len(moves) == 0 {
		return board.NoSquare, false
	}
	best, bestScore := moves[0], math.Inf(-1)
	for _, m := range moves {
		v := s.minimax(b.MustApply(m, c), s.depth-1, c.Other(), c)
		if v > bestScore {
			best, bestScore = m, v
		}
	}
	return best, true
}

func (s fixedDepthStrategy) minimax(b board.Board, depth int, toMove, me board.Color) float64 {
	if depth == 0 || b.IsTerminal() {
		return simpleEvaluate(b, me)
	}
	moves := b.LegalMoves(toMove)
	if len(moves) == 0 {
		return s.minimax(b, depth, toMove.Other(), me)
	}
	if toMove == me {
		value := math.Inf(-1)
		for _, m := range moves {
			value = max(value, s.minimax(b.MustApply(m, toMove), depth-1, toMove.Other(), me))
		}
		return value
	}
	value := math.Inf(1)
	for _, m := range moves {
		value = min(value, s.minimax(b.MustApply(m, toMove), depth-1, toMove.Other(), me))
	}
	return value
}

func (fixedDepthStrategy) sealed() {}

// simpleEvaluate is the fixed-depth tier's evaluation: discs, corners,
// edges and mobility.
func simpleEvaluate(b board.Board, c board.Color) float64 {
	own, opp := b.Discs(c), b.Discs(c.Other())
	innerEdges := board.Edges &^ board.Corners

	discs := own.PopCount() - opp.PopCount()
	corners := (own & board.Corners).PopCount() - (opp & board.Corners).PopCount()
	edges := (own & innerEdges).PopCount() - (opp & innerEdges).PopCount()
	mobility := b.MoveMask(c).PopCount() - b.MoveMask(c.Other()).PopCount()

	// Corners count once as corners and once as stable discs.
	return float64(discs + corners*10 + edges*2 + corners*5 + mobility)
}

// engineStrategy drives a full Engine.
type engineStrategy struct {
	kind   Kind
	engine *Engine
}

func (s *engineStrategy) Kind() Kind { return s.kind }

func (s *engineStrategy) Move(b board.Board, c board.Color, budget time.Duration) (board.Square, bool) {
	return s.engine.GetMove(b, c, budget)
}

// Engine returns the engine behind the strategy.
func (s *engineStrategy) Engine() *Engine { return s.engine }

func (*engineStrategy) sealed() {}
