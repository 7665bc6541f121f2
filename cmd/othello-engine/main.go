package main

import (
	"flag"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/othelloplay/internal/book"
	"github.com/hailam/othelloplay/internal/engine"
	"github.com/hailam/othelloplay/internal/protocol"
	"github.com/hailam/othelloplay/internal/storage"
)

// Default compiled book file name
const defaultBookFile = "book.bin"

var (
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to file")
	verbose     = flag.Bool("v", false, "debug logging")
	tier        = flag.Int("tier", 0, "default strength tier (1-3); 0 uses the saved preference")
	strategy    = flag.String("strategy", "", "strategy kind (random, minimax, heuristic, exact); empty uses the saved preference")
	bookPath    = flag.String("book", "", "opening book file (text, or .bin for compiled)")
	compileBook = flag.String("compile-book", "", "write the loaded book in compiled form to this file and exit")
	noStore     = flag.Bool("nostore", false, "do not load or save preferences")
	replace     = flag.Bool("replace", false, "a new go cancels the running search instead of being rejected")
)

func main() {
	flag.Parse()

	// Log to stderr; stdout belongs to the protocol.
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	bk, err := loadBook(*bookPath)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load opening book")
	}
	log.Debug().Int("positions", bk.Size()).Msg("opening book loaded")

	if *compileBook != "" {
		if err := writeBook(bk, *compileBook); err != nil {
			log.Fatal().Err(err).Msg("could not write book")
		}
		log.Info().Str("path", *compileBook).Int("positions", bk.Size()).Msg("book compiled")
		return
	}

	cfg := engine.DefaultConfig()
	prefs := storage.DefaultPreferences()

	var store *storage.Storage
	if !*noStore {
		store, err = storage.NewStorage()
		if err != nil {
			log.Warn().Err(err).Msg("preferences unavailable")
		} else {
			defer store.Close()
			if prefs, err = store.LoadPreferences(); err != nil {
				log.Warn().Err(err).Msg("could not load preferences")
			}
		}
	}
	cfg.UseBook = prefs.UseBook

	eng := engine.NewEngine(cfg)

	// Create and run protocol handler
	p := protocol.New(eng, os.Stdin, os.Stdout)
	p.SetBook(bk)
	if store != nil {
		p.SetStorage(store)
	}
	p.SetTier(engine.Tier(prefs.Tier))
	if *tier > 0 {
		p.SetTier(engine.Tier(*tier))
	}
	if *replace {
		p.SetBusyPolicy(protocol.BusyReplace)
	}

	kindName := prefs.Strategy
	if *strategy != "" {
		kindName = *strategy
	}
	kind, err := engine.ParseKind(kindName)
	if err != nil {
		log.Warn().Err(err).Msg("using the heuristic strategy")
		kind = engine.KindHeuristic
	}
	if err := p.SetStrategy(kind); err != nil {
		log.Fatal().Err(err).Msg("could not select strategy")
	}
	log.Debug().Str("strategy", kind.String()).Int("tier", prefs.Tier).Msg("preferences applied")

	if err := p.Run(); err != nil {
		log.Error().Err(err).Msg("reading commands")
	}
}

// loadBook loads the book from path, from a compiled book in the data
// directory, or falls back to the built-in book.
func loadBook(path string) (*book.Book, error) {
	if path != "" {
		return openBook(path)
	}

	// Try multiple locations in order of preference
	var searchPaths []string
	if dir, err := storage.GetBookDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(dir, defaultBookFile))
	}
	searchPaths = append(searchPaths, defaultBookFile)

	for _, p := range searchPaths {
		if !fileExists(p) {
			continue
		}
		bk, err := openBook(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("skipping book")
			continue
		}
		return bk, nil
	}

	return book.Default(), nil
}

func openBook(path string) (*book.Book, error) {
	if !strings.HasSuffix(path, ".bin") {
		return book.Load(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return book.LoadBinaryReader(f)
}

func writeBook(bk *book.Book, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bk.WriteBinary(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
