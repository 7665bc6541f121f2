// Package protocol implements a line-based text protocol for driving the
// engine from another program or a terminal.
package protocol

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hailam/othelloplay/internal/board"
	"github.com/hailam/othelloplay/internal/book"
	"github.com/hailam/othelloplay/internal/diagram"
	"github.com/hailam/othelloplay/internal/engine"
	"github.com/hailam/othelloplay/internal/storage"
)

// BusyPolicy decides what "go" does while a search is running.
type BusyPolicy int

const (
	BusyReject  BusyPolicy = iota // Answer "info string busy"
	BusyReplace                   // Cancel the running search and start over
)

// Protocol is one session of the text protocol.
type Protocol struct {
	engine  *engine.Engine
	thinker *engine.Thinker
	book    *book.Book
	store   *storage.Storage

	board  board.Board
	toMove board.Color
	moves  []board.Square // moves played since the last position command

	tier   engine.Tier
	policy BusyPolicy

	kind        engine.Kind
	strategy    engine.Strategy // set for kinds the engine does not play
	baseEndgame int             // engine solver window before strategy tuning

	in    io.Reader
	out   io.Writer
	outMu sync.Mutex

	// Search state
	searchDone chan struct{}
}

// New creates a protocol session reading commands from in and writing
// responses to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *Protocol {
	p := &Protocol{
		engine:  eng,
		thinker: engine.NewThinker(eng),
		board:   board.NewBoard(),
		toMove:  board.Black,
		tier:    2,
		kind:    engine.KindHeuristic,
		in:      in,
		out:     out,
	}
	p.baseEndgame = eng.Config().EndgameThreshold
	eng.OnInfo = p.sendInfo
	return p
}

// SetBook installs the opening book used by the engine and the "book" command.
func (p *Protocol) SetBook(b *book.Book) {
	p.book = b
	p.engine.SetBook(b)
}

// SetStorage enables persisting options changed with setoption.
func (p *Protocol) SetStorage(s *storage.Storage) {
	p.store = s
}

// SetTier sets the default strength tier for "go".
func (p *Protocol) SetTier(t engine.Tier) {
	p.tier = t
}

// SetStrategy selects the strategy kind "go" plays with. Random and
// fixed-depth kinds bypass the engine; exact widens its solver window.
func (p *Protocol) SetStrategy(kind engine.Kind) error {
	if p.searching() {
		return engine.ErrBusy
	}
	var s engine.Strategy
	if !kind.EngineBacked() {
		var err error
		if s, err = engine.NewStrategy(kind, p.engine.Config()); err != nil {
			return err
		}
	}
	p.engine.SetEndgameThreshold(kind.EndgameThreshold(p.baseEndgame))
	p.kind, p.strategy = kind, s
	return nil
}

// SetBusyPolicy sets what "go" does while a search is running.
func (p *Protocol) SetBusyPolicy(policy BusyPolicy) {
	p.policy = policy
}

// Run reads commands until "quit" or end of input.
func (p *Protocol) Run() error {
	scanner := bufio.NewScanner(p.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]
		log.Debug().Str("cmd", cmd).Strs("args", args).Msg("command")

		var err error
		switch cmd {
		case "newgame":
			p.handleNewGame()
		case "position":
			err = p.handlePosition(args)
		case "play":
			err = p.handlePlay(args)
		case "go":
			err = p.handleGo(args)
		case "hint":
			err = p.handleHint(args)
		case "stop":
			p.handleStop()
		case "setoption":
			err = p.handleSetOption(args)
		case "book":
			p.handleBook()
		case "moves":
			p.handleMoves()
		case "d":
			p.handleDisplay()
		case "perft":
			err = p.handlePerft(args)
		case "stats":
			err = p.handleStats(args)
		case "quit":
			p.handleStop()
			return nil
		default:
			err = fmt.Errorf("unknown command %q", cmd)
		}

		if err != nil {
			log.Warn().Err(err).Str("cmd", cmd).Msg("command failed")
			p.printf("info string error: %v\n", err)
		}
	}

	p.handleStop()
	return scanner.Err()
}

func (p *Protocol) printf(format string, args ...any) {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	fmt.Fprintf(p.out, format, args...)
}

// handleNewGame resets the engine for a new game.
func (p *Protocol) handleNewGame() {
	p.handleStop()
	p.engine.Clear()
	p.board = board.NewBoard()
	p.toMove = board.Black
	p.moves = nil
}

// handlePosition parses and sets up a position.
// Formats:
//   - position start
//   - position start moves f5 d6 c3
//   - position board <64 cells> <b|w>
//   - position board <64 cells> <b|w> moves f5d6
func (p *Protocol) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("position: missing argument")
	}
	if p.searching() {
		return engine.ErrBusy
	}

	var (
		b    board.Board
		c    board.Color
		rest []string
	)
	switch args[0] {
	case "start", "startpos":
		b, c, rest = board.NewBoard(), board.Black, args[1:]
	case "board":
		if len(args) < 3 {
			return errors.New("position board: want <cells> <b|w>")
		}
		var err error
		if b, err = board.Parse(args[1]); err != nil {
			return err
		}
		var ok bool
		if c, ok = board.ParseColor(args[2]); !ok {
			return fmt.Errorf("position board: bad color %q", args[2])
		}
		rest = args[3:]
	default:
		return fmt.Errorf("position: unknown form %q", args[0])
	}

	p.board, p.toMove, p.moves = b, c, nil
	p.skipForcedPass()

	if len(rest) > 0 && rest[0] == "moves" {
		for _, sq := range splitMoves(rest[1:]) {
			if err := p.play(sq); err != nil {
				return err
			}
		}
	}
	return nil
}

// splitMoves accepts both "f5 d6" and "f5d6".
func splitMoves(args []string) []string {
	var moves []string
	for _, a := range args {
		if strings.EqualFold(a, "pass") {
			moves = append(moves, a)
			continue
		}
		for i := 0; i+1 < len(a); i += 2 {
			moves = append(moves, a[i:i+2])
		}
	}
	return moves
}

func (p *Protocol) handlePlay(args []string) error {
	if len(args) != 1 {
		return errors.New("play: want one move")
	}
	if p.searching() {
		return engine.ErrBusy
	}
	return p.play(args[0])
}

func (p *Protocol) play(s string) error {
	sq, err := board.ParseSquare(strings.ToLower(s))
	if err != nil {
		return err
	}
	if sq == board.NoSquare {
		if p.board.HasMoves(p.toMove) {
			return fmt.Errorf("%v cannot pass with legal moves", p.toMove)
		}
		return nil
	}

	next, err := p.board.Apply(sq, p.toMove)
	if err != nil {
		return err
	}
	p.board = next
	p.toMove = p.toMove.Other()
	p.moves = append(p.moves, sq)
	p.skipForcedPass()
	return nil
}

// skipForcedPass hands the move to the opponent when the side to move has none.
func (p *Protocol) skipForcedPass() {
	if !p.board.HasMoves(p.toMove) && p.board.HasMoves(p.toMove.Other()) {
		p.toMove = p.toMove.Other()
	}
}

// GoOptions are the parsed arguments of "go".
type GoOptions struct {
	Tier   engine.Tier
	Budget time.Duration
}

func (p *Protocol) parseGoOptions(args []string) (GoOptions, error) {
	opts := GoOptions{Tier: p.tier}

	for i := 0; i < len(args); i++ {
		if i+1 >= len(args) {
			return opts, fmt.Errorf("go: %s needs a value", args[i])
		}
		switch args[i] {
		case "tier":
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return opts, fmt.Errorf("go: bad tier: %w", err)
			}
			opts.Tier = engine.Tier(n)
		case "time":
			secs, err := strconv.ParseFloat(args[i+1], 64)
			if err != nil {
				return opts, fmt.Errorf("go: bad time: %w", err)
			}
			opts.Budget = time.Duration(secs * float64(time.Second))
		case "movetime":
			ms, err := strconv.Atoi(args[i+1])
			if err != nil {
				return opts, fmt.Errorf("go: bad movetime: %w", err)
			}
			opts.Budget = time.Duration(ms) * time.Millisecond
		default:
			return opts, fmt.Errorf("go: unknown option %q", args[i])
		}
		i++
	}

	if opts.Budget <= 0 {
		opts.Budget = engine.BudgetForTier(opts.Tier)
	}
	return opts, nil
}

func (p *Protocol) handleGo(args []string) error {
	opts, err := p.parseGoOptions(args)
	if err != nil {
		return err
	}
	if p.strategy != nil {
		p.goStrategy(opts)
		return nil
	}

	var job *engine.Job
	switch p.policy {
	case BusyReplace:
		job = p.thinker.ThinkReplace(context.Background(), p.board, p.toMove, opts.Budget)
		if p.searchDone != nil {
			// Let the replaced search report its bestmove first.
			<-p.searchDone
		}
	default:
		job, err = p.thinker.Think(context.Background(), p.board, p.toMove, opts.Budget)
		if errors.Is(err, engine.ErrBusy) {
			p.printf("info string busy\n")
			return nil
		}
		if err != nil {
			return err
		}
	}

	done := make(chan struct{})
	p.searchDone = done
	b, c := p.board, p.toMove

	go func() {
		defer close(done)
		a := job.Wait()
		if !a.Pass() && !b.IsLegal(a.Move, c) {
			log.Error().Str("move", a.Move.String()).Msg("search returned illegal move")
		}
		p.printf("info string source %s depth %d score %.2f nodes %d time %d\n",
			a.Source, a.Depth, a.Score, a.Nodes, a.Elapsed.Milliseconds())
		p.printf("bestmove %s\n", moveString(a.Move))
	}()
	return nil
}

// goStrategy answers "go" with a strategy that runs without the engine.
func (p *Protocol) goStrategy(opts GoOptions) {
	if p.searching() {
		if p.policy == BusyReject {
			p.printf("info string busy\n")
			return
		}
		<-p.searchDone
	}

	done := make(chan struct{})
	p.searchDone = done
	b, c, s := p.board, p.toMove, p.strategy

	go func() {
		defer close(done)
		start := time.Now()
		sq, ok := s.Move(b, c, opts.Budget)
		if !ok {
			sq = board.NoSquare
		}
		p.printf("info string source %s time %d\n", s.Kind(), time.Since(start).Milliseconds())
		p.printf("bestmove %s\n", moveString(sq))
	}()
}

func (p *Protocol) searching() bool {
	if p.searchDone == nil {
		return false
	}
	select {
	case <-p.searchDone:
		return false
	default:
		return true
	}
}

// handleStop cancels the running search and waits for its bestmove.
func (p *Protocol) handleStop() {
	if p.searchDone == nil {
		return
	}
	p.thinker.Cancel()
	<-p.searchDone
	p.searchDone = nil
}

// handleHint analyzes the position in the background without playing.
// "hint png <file> [size]" also writes a diagram with the advice marker.
// Like "go", the answer arrives when the search ends and "stop" cuts it short.
func (p *Protocol) handleHint(args []string) error {
	var (
		path string
		size = 400
	)
	if len(args) >= 2 && args[0] == "png" {
		path = args[1]
		if len(args) >= 3 {
			n, err := strconv.Atoi(args[2])
			if err != nil || n <= 0 {
				return fmt.Errorf("hint: bad size %q", args[2])
			}
			size = n
		}
	}
	if p.searching() {
		return engine.ErrBusy
	}

	job, err := p.thinker.Think(context.Background(), p.board, p.toMove, engine.BudgetForTier(p.tier))
	if err != nil {
		return err
	}

	done := make(chan struct{})
	p.searchDone = done
	b, c := p.board, p.toMove

	go func() {
		defer close(done)
		a := job.Wait()
		p.printf("hint %s score %.2f source %s\n", moveString(a.Move), a.Score, a.Source)
		if path == "" {
			return
		}
		if err := writeDiagram(path, b, c, a.Move, size); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("hint diagram failed")
			p.printf("info string error: %v\n", err)
		}
	}()
	return nil
}

func writeDiagram(path string, b board.Board, toMove board.Color, hint board.Square, size int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	opts := diagram.Options{Hint: hint, ShowMoves: true, ToMove: toMove}
	if err := diagram.WritePNG(f, b, opts, size); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (p *Protocol) sendInfo(info engine.SearchInfo) {
	var nps uint64
	if info.Time > 0 {
		nps = uint64(float64(info.Nodes) / info.Time.Seconds())
	}
	p.printf("info depth %d score %.2f nodes %d time %d nps %d hashfull %d pv %s\n",
		info.Depth, info.Score, info.Nodes, info.Time.Milliseconds(), nps, info.HashFull, moveString(info.Move))
}

func (p *Protocol) handleSetOption(args []string) error {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	var save func(*storage.UserPreferences)
	switch strings.ToLower(name) {
	case "tier":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("setoption tier: bad value %q", value)
		}
		p.tier = engine.Tier(n)
		save = func(prefs *storage.UserPreferences) { prefs.Tier = n }
	case "strategy":
		kind, err := engine.ParseKind(value)
		if err != nil {
			return fmt.Errorf("setoption strategy: %w", err)
		}
		if err := p.SetStrategy(kind); err != nil {
			return err
		}
		save = func(prefs *storage.UserPreferences) { prefs.Strategy = kind.String() }
	case "usebook":
		on := strings.EqualFold(value, "true")
		p.engine.SetUseBook(on)
		save = func(prefs *storage.UserPreferences) { prefs.UseBook = on }
	case "busy":
		switch strings.ToLower(value) {
		case "reject":
			p.policy = BusyReject
		case "replace":
			p.policy = BusyReplace
		default:
			return fmt.Errorf("setoption busy: want reject or replace, got %q", value)
		}
	case "clear hash":
		p.engine.Clear()
	default:
		return fmt.Errorf("unknown option %q", name)
	}

	if save != nil && p.store != nil {
		prefs, err := p.store.LoadPreferences()
		if err != nil {
			return err
		}
		save(prefs)
		return p.store.SavePreferences(prefs)
	}
	return nil
}

// handleStats prints recorded match statistics, best first.
// "stats <player>" limits the output to one player.
func (p *Protocol) handleStats(args []string) error {
	if p.store == nil {
		return errors.New("stats: no statistics database")
	}

	all := make(map[string]*storage.PlayerStats)
	if len(args) > 0 {
		st, err := p.store.LoadStats(args[0])
		if err != nil {
			return err
		}
		all[args[0]] = st
	} else {
		var err error
		if all, err = p.store.AllStats(); err != nil {
			return err
		}
	}

	names := storage.Ranking(all)
	if len(names) == 0 {
		p.printf("stats none\n")
		return nil
	}
	for _, name := range names {
		st := all[name]
		p.printf("stats %s games %d wins %d losses %d draws %d score %.1f winrate %.1f margin %d\n",
			name, st.GamesPlayed, st.Wins, st.Losses, st.Draws, st.Score(), st.GetWinRate(), st.DiscMargin)
	}
	return nil
}

func (p *Protocol) handleBook() {
	entries := p.book.ProbeAll(p.board, p.toMove)
	if len(entries) == 0 {
		p.printf("book none\n")
		return
	}
	p.printf("book %s\n", strings.Join(lo.Map(entries, func(e book.BookEntry, _ int) string {
		return fmt.Sprintf("%s:%d", e.Move, e.Weight)
	}), " "))
}

func (p *Protocol) handleMoves() {
	moves := p.board.LegalMoves(p.toMove)
	if len(moves) == 0 {
		p.printf("moves none\n")
		return
	}
	p.printf("moves %s\n", strings.Join(lo.Map(moves, func(sq board.Square, _ int) string {
		return sq.String()
	}), " "))
}

func (p *Protocol) handleDisplay() {
	p.printf("%s\n", p.board)
	p.printf("Text: %s\n", p.board.Text())
	if p.board.IsTerminal() {
		p.printf("Game over, winner: %v\n", p.board.Winner())
	} else {
		p.printf("To move: %v\n", p.toMove)
	}
	p.printf("Strategy: %v\n", p.kind)
	if len(p.moves) > 0 {
		p.printf("Moves: %s\n", strings.Join(lo.Map(p.moves, func(sq board.Square, _ int) string {
			return sq.String()
		}), ""))
	}
}

func (p *Protocol) handlePerft(args []string) error {
	if len(args) == 0 {
		return errors.New("perft: missing depth")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		return fmt.Errorf("perft: bad depth %q", args[0])
	}

	start := time.Now()
	nodes := board.Perft(p.board, p.toMove, depth)
	p.printf("perft %d nodes %d time %d\n", depth, nodes, time.Since(start).Milliseconds())
	return nil
}

func moveString(sq board.Square) string {
	if sq == board.NoSquare {
		return "pass"
	}
	return sq.String()
}
