// Package arena plays strategies against each other and tallies the results.
package arena

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/hailam/othelloplay/internal/board"
	"github.com/hailam/othelloplay/internal/engine"
	"github.com/hailam/othelloplay/internal/storage"
)

// ErrIllegalMove is returned when a strategy plays an illegal move.
var ErrIllegalMove = errors.New("strategy played an illegal move")

// Config describes a match between two strategies.
type Config struct {
	PlayerA, PlayerB engine.Kind
	Games            int
	Workers          int           // concurrent games; 0 means one per CPU
	Budget           time.Duration // per move
	RandomPlies      int           // random moves played before the strategies take over
	Engine           engine.Config // configuration of engine-backed strategies
}

// DefaultConfig returns a short heuristic-vs-random match.
func DefaultConfig() Config {
	return Config{
		PlayerA:     engine.KindHeuristic,
		PlayerB:     engine.KindRandom,
		Games:       10,
		Budget:      100 * time.Millisecond,
		RandomPlies: 2,
		Engine:      engine.DefaultConfig(),
	}
}

// names returns distinct display names for the two players.
func (c Config) names() (string, string) {
	a, b := c.PlayerA.String(), c.PlayerB.String()
	if a == b {
		return a + "/1", b + "/2"
	}
	return a, b
}

// GameResult is the record of one finished game.
type GameResult struct {
	Index    int
	Black    string
	White    string
	Moves    []board.Square // placed discs in order; passes are implied
	Final    board.Board
	Margin   int // final disc margin from Black's point of view
	Duration time.Duration
}

// Winner returns the name of the winner, or "" for a draw.
func (r GameResult) Winner() string {
	switch {
	case r.Margin > 0:
		return r.Black
	case r.Margin < 0:
		return r.White
	}
	return ""
}

// Transcript returns the moves as one string, e.g. "f5d6c3".
func (r GameResult) Transcript() string {
	return strings.Join(lo.Map(r.Moves, func(sq board.Square, _ int) string {
		return sq.String()
	}), "")
}

// Run plays cfg.Games games, alternating colors, with up to cfg.Workers
// games in flight. Results are returned in game order.
func Run(ctx context.Context, cfg Config) ([]GameResult, error) {
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("arena: invalid game count %d", cfg.Games)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	nameA, nameB := cfg.names()
	results := make([]GameResult, cfg.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < cfg.Games; i++ {
		g.Go(func() error {
			a, err := engine.NewStrategy(cfg.PlayerA, cfg.Engine)
			if err != nil {
				return err
			}
			b, err := engine.NewStrategy(cfg.PlayerB, cfg.Engine)
			if err != nil {
				return err
			}

			black, white := a, b
			blackName, whiteName := nameA, nameB
			if i%2 == 1 {
				black, white = b, a
				blackName, whiteName = nameB, nameA
			}

			res, err := PlayGame(ctx, black, white, cfg.Budget, cfg.RandomPlies)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			res.Index = i
			res.Black, res.White = blackName, whiteName
			results[i] = res

			log.Debug().
				Int("game", i).
				Str("black", blackName).
				Str("white", whiteName).
				Int("margin", res.Margin).
				Dur("duration", res.Duration).
				Msg("game finished")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// PlayGame plays one game from the starting position. The first
// randomPlies moves are chosen uniformly at random.
func PlayGame(ctx context.Context, black, white engine.Strategy, budget time.Duration, randomPlies int) (GameResult, error) {
	start := time.Now()
	b := board.NewBoard()
	c := board.Black
	var moves []board.Square

	for !b.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}

		legal := b.LegalMoves(c)
		if len(legal) == 0 {
			c = c.Other()
			continue
		}

		var sq board.Square
		if len(moves) < randomPlies {
			sq = legal[frand.Intn(len(legal))]
		} else {
			player := black
			if c == board.White {
				player = white
			}
			var ok bool
			sq, ok = player.Move(b, c, budget)
			if !ok || !b.IsLegal(sq, c) {
				return GameResult{}, fmt.Errorf("%w: %v played %v by %s", ErrIllegalMove, c, sq, player.Kind())
			}
		}

		b = b.MustApply(sq, c)
		moves = append(moves, sq)
		c = c.Other()
	}

	return GameResult{
		Moves:    moves,
		Final:    b,
		Margin:   b.Margin(board.Black),
		Duration: time.Since(start),
	}, nil
}

// Standing is one player's line in the match table.
type Standing struct {
	Name       string
	Wins       int
	Losses     int
	Draws      int
	DiscMargin int
}

// Score returns wins plus half the draws.
func (s Standing) Score() float64 {
	return float64(s.Wins) + float64(s.Draws)/2
}

// Summarize tallies results per player, best score first.
func Summarize(results []GameResult) []Standing {
	names := lo.Uniq(lo.FlatMap(results, func(r GameResult, _ int) []string {
		return []string{r.Black, r.White}
	}))

	standings := lo.Map(names, func(name string, _ int) Standing {
		played := lo.Filter(results, func(r GameResult, _ int) bool {
			return r.Black == name || r.White == name
		})
		return Standing{
			Name:  name,
			Wins:  lo.CountBy(played, func(r GameResult) bool { return r.Winner() == name }),
			Draws: lo.CountBy(played, func(r GameResult) bool { return r.Winner() == "" }),
			Losses: lo.CountBy(played, func(r GameResult) bool {
				w := r.Winner()
				return w != "" && w != name
			}),
			DiscMargin: lo.SumBy(played, func(r GameResult) int {
				if r.Black == name {
					return r.Margin
				}
				return -r.Margin
			}),
		}
	})

	slices.SortStableFunc(standings, func(a, b Standing) int {
		switch {
		case a.Score() > b.Score():
			return -1
		case a.Score() < b.Score():
			return 1
		}
		return b.DiscMargin - a.DiscMargin
	})
	return standings
}

// Record stores every result in s. Games are written one at a time.
func Record(s *storage.Storage, results []GameResult) error {
	for _, r := range results {
		err := s.RecordMatch(storage.MatchResult{
			Black:    r.Black,
			White:    r.White,
			Margin:   r.Margin,
			Duration: r.Duration,
		})
		if err != nil {
			return fmt.Errorf("record game %d: %w", r.Index, err)
		}
	}
	return nil
}
