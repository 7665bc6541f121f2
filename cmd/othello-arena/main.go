package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/othelloplay/internal/arena"
	"github.com/hailam/othelloplay/internal/engine"
	"github.com/hailam/othelloplay/internal/storage"
)

func main() {
	playerA := flag.String("a", "heuristic", "first strategy (random, minimax, heuristic, exact)")
	playerB := flag.String("b", "random", "second strategy")
	games := flag.Int("games", 10, "number of games")
	workers := flag.Int("workers", runtime.NumCPU(), "concurrent games")
	moveTime := flag.Duration("movetime", 100*time.Millisecond, "time per move")
	randomPlies := flag.Int("random", 2, "random opening moves per game")
	record := flag.Bool("record", false, "save results to the statistics database")
	showStats := flag.Bool("stats", false, "print the recorded statistics and exit")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *showStats {
		if err := printStats(); err != nil {
			log.Fatal().Err(err).Msg("could not read statistics")
		}
		return
	}

	cfg := arena.DefaultConfig()
	var err error
	if cfg.PlayerA, err = engine.ParseKind(*playerA); err != nil {
		log.Fatal().Err(err).Msg("bad -a")
	}
	if cfg.PlayerB, err = engine.ParseKind(*playerB); err != nil {
		log.Fatal().Err(err).Msg("bad -b")
	}
	cfg.Games = *games
	cfg.Workers = *workers
	cfg.Budget = *moveTime
	cfg.RandomPlies = *randomPlies

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().
		Str("a", cfg.PlayerA.String()).
		Str("b", cfg.PlayerB.String()).
		Int("games", cfg.Games).
		Int("workers", cfg.Workers).
		Msg("starting match")

	start := time.Now()
	results, err := arena.Run(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("match failed")
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("match finished")

	fmt.Printf("%-14s %5s %5s %5s %7s %8s\n", "player", "win", "loss", "draw", "score", "discs")
	for _, s := range arena.Summarize(results) {
		fmt.Printf("%-14s %5d %5d %5d %7.1f %+8d\n", s.Name, s.Wins, s.Losses, s.Draws, s.Score(), s.DiscMargin)
	}

	if *record {
		store, err := storage.NewStorage()
		if err != nil {
			log.Fatal().Err(err).Msg("could not open statistics database")
		}
		defer store.Close()
		if err := arena.Record(store, results); err != nil {
			log.Error().Err(err).Msg("could not record results")
			return
		}
		log.Info().Int("games", len(results)).Msg("results recorded")
	}
}

// printStats prints every player in the statistics database, best first.
func printStats() error {
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	all, err := store.AllStats()
	if err != nil {
		return err
	}
	fmt.Printf("%-14s %5s %5s %5s %5s %7s %7s %8s\n", "player", "games", "win", "loss", "draw", "score", "win%", "discs")
	for _, name := range storage.Ranking(all) {
		st := all[name]
		fmt.Printf("%-14s %5d %5d %5d %5d %7.1f %7.1f %+8d\n",
			name, st.GamesPlayed, st.Wins, st.Losses, st.Draws, st.Score(), st.GetWinRate(), st.DiscMargin)
	}
	return nil
}
