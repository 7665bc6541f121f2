package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/othelloplay/internal/board"
	"github.com/hailam/othelloplay/internal/book"
)

// Source tells how a move was chosen.
type Source int

const (
	SourcePass     Source = iota // No legal move
	SourceOnly                   // Single legal move, no search
	SourceBook                   // Opening book
	SourceEndgame                // Exact endgame solver
	SourceSearch                 // Iterative deepening
	SourceFallback               // No depth completed; best one-ply evaluation
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourcePass:
		return "pass"
	case SourceOnly:
		return "only"
	case SourceBook:
		return "book"
	case SourceEndgame:
		return "endgame"
	case SourceSearch:
		return "search"
	default:
		return "fallback"
	}
}

// SearchInfo contains information about a completed iteration.
type SearchInfo struct {
	Depth    int
	Score    float64
	Move     board.Square
	Nodes    uint64
	Time     time.Duration
	HashFull int // Permille of the table limit in use
}

// Analysis is the full result of a move decision.
type Analysis struct {
	Move    board.Square // NoSquare means pass
	Score   float64      // Evaluator score, or disc margin when Exact
	Depth   int          // Last completed depth (remaining empties when Exact)
	Nodes   uint64
	Exact   bool
	Source  Source
	Elapsed time.Duration
}

// Pass reports whether the analysis found no legal move.
func (a Analysis) Pass() bool {
	return a.Move == board.NoSquare
}

// Engine is the Othello AI engine. It owns the transposition table and runs
// one search at a time; concurrent calls are serialized.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	tt       *TranspositionTable
	eval     *Evaluator
	searcher *Searcher
	book     *book.Book

	// Cancel flag of the running search, if any.
	cancel atomic.Pointer[atomic.Bool]

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	tt := NewTranspositionTable(cfg.TTMaxEntries)
	eval := NewEvaluator()
	return &Engine{
		cfg:      cfg,
		tt:       tt,
		eval:     eval,
		searcher: NewSearcher(cfg, tt, eval),
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluator returns the evaluator used by the search.
func (e *Engine) Evaluator() *Evaluator {
	return e.eval
}

// TT returns the engine's transposition table.
func (e *Engine) TT() *TranspositionTable {
	return e.tt
}

// SetBook installs an opening book. It is only consulted when Config.UseBook is set.
func (e *Engine) SetBook(b *book.Book) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.book = b
}

// SetUseBook turns the opening book on or off.
func (e *Engine) SetUseBook(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.UseBook = on
}

// SetEndgameThreshold sets how many empties the exact solver takes over at.
func (e *Engine) SetEndgameThreshold(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.EndgameThreshold = n
}

// GetMove returns the move for c on b within budget. ok is false when c must pass.
func (e *Engine) GetMove(b board.Board, c board.Color, budget time.Duration) (board.Square, bool) {
	a := e.Analyze(b, c, budget)
	return a.Move, !a.Pass()
}

// Analyze chooses a move and reports how it was found.
func (e *Engine) Analyze(b board.Board, c board.Color, budget time.Duration) Analysis {
	return e.AnalyzeWithCancel(b, c, budget, new(atomic.Bool))
}

// AnalyzeWithCancel is Analyze with a caller-owned cancel flag. Raising the
// flag stops the search at its next checkpoint; the best result so far is returned.
func (e *Engine) AnalyzeWithCancel(b board.Board, c board.Color, budget time.Duration, cancel *atomic.Bool) Analysis {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cancel.Store(cancel)
	defer e.cancel.Store(nil)

	start := time.Now()
	a := e.analyze(b, c, e.cfg.clampBudget(budget), cancel)
	a.Elapsed = time.Since(start)
	return a
}

// Stop cancels the running search, if any.
func (e *Engine) Stop() {
	if flag := e.cancel.Load(); flag != nil {
		flag.Store(true)
	}
}

// Clear clears the transposition table and killer moves.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Clear()
	e.searcher.orderer.Clear()
}

func (e *Engine) analyze(b board.Board, c board.Color, budget time.Duration, cancel *atomic.Bool) Analysis {
	e.tt.MaybeClear()
	e.searcher.Reset(budget, cancel)

	moves := b.LegalMoves(c)
	switch len(moves) {
	case 0:
		return Analysis{Move: board.NoSquare, Source: SourcePass}
	case 1:
		return Analysis{Move: moves[0], Source: SourceOnly}
	}

	if e.cfg.UseBook && e.book != nil && b.DiscCount() <= e.cfg.BookMaxDiscs {
		if sq, ok := e.book.Probe(b, c); ok {
			log.Debug().Str("move", sq.String()).Msg("book move")
			return Analysis{Move: sq, Source: SourceBook}
		}
	}

	if b.Empties() <= e.cfg.EndgameThreshold {
		if a, ok := e.solveEndgame(b, c, cancel); ok {
			return a
		}
		// Canceled: fall through to the one-ply fallback.
		return e.fallback(b, c)
	}

	return e.iterativeDeepening(b, c)
}

func (e *Engine) solveEndgame(b board.Board, c board.Color, cancel *atomic.Bool) (Analysis, bool) {
	solver := NewEndgameSolver(cancel)
	sq, margin, ok := solver.Solve(b, c)
	if !ok {
		return Analysis{}, false
	}
	log.Info().
		Str("move", sq.String()).
		Int("margin", margin).
		Int("empties", b.Empties()).
		Uint64("nodes", solver.Nodes()).
		Msg("endgame solved")
	return Analysis{
		Move:   sq,
		Score:  float64(margin),
		Depth:  b.Empties(),
		Nodes:  solver.Nodes(),
		Exact:  true,
		Source: SourceEndgame,
	}, true
}

func (e *Engine) iterativeDeepening(b board.Board, c board.Color) Analysis {
	s := e.searcher
	result := Analysis{Move: board.NoSquare, Source: SourceSearch}

	for depth := e.cfg.MinDepth; depth <= e.cfg.MaxDepth; depth++ {
		// Check time before starting new iteration
		if s.tm.ShouldStop() {
			break
		}

		move, score, ok := s.SearchRoot(b, c, depth)
		if !ok {
			log.Debug().Int("depth", depth).Uint64("nodes", s.Nodes()).Msg("iteration aborted")
			break
		}

		result.Move = move
		result.Score = score
		result.Depth = depth
		result.Nodes = s.Nodes()

		// Seed the next iteration's root ordering.
		e.tt.Store(ttKey(b, c, true), depth, score, TTExact, move)

		log.Debug().
			Int("depth", depth).
			Str("move", move.String()).
			Float64("score", score).
			Uint64("nodes", s.Nodes()).
			Dur("elapsed", s.tm.Elapsed()).
			Msg("iteration complete")

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Move:     move,
				Nodes:    s.Nodes(),
				Time:     s.tm.Elapsed(),
				HashFull: e.tt.HashFull(),
			})
		}

		// Every line reaches the end of the game within this depth.
		if depth >= b.Empties() {
			break
		}
	}

	if result.Move == board.NoSquare {
		return e.fallback(b, c)
	}
	return result
}

func (e *Engine) fallback(b board.Board, c board.Color) Analysis {
	sq, score := e.searcher.bestByEvaluation(b, c)
	log.Debug().Str("move", sq.String()).Msg("no depth completed, using one-ply evaluation")
	return Analysis{
		Move:   sq,
		Score:  score,
		Depth:  1,
		Nodes:  e.searcher.Nodes(),
		Source: SourceFallback,
	}
}
