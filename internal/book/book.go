// Package book implements an Othello opening book.
package book

import (
	"bufio"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"lukechampine.com/frand"

	"github.com/hailam/othelloplay/internal/board"
)

//go:embed openings.txt
var defaultLines string

// BookEntry represents a single book entry.
type BookEntry struct {
	Move   board.Square
	Weight uint16
}

// Book maps positions (board plus side to move) to candidate moves.
type Book struct {
	entries map[uint64][]BookEntry
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]BookEntry),
	}
}

// Default returns the built-in book.
func Default() *Book {
	b, err := LoadReader(strings.NewReader(defaultLines))
	if err != nil {
		panic(fmt.Sprintf("built-in opening book: %v", err))
	}
	return b
}

// Load loads a text book from a file.
func Load(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadReader(file)
}

// LoadReader loads a text book. Each line is a move sequence from the start
// position, optionally followed by a weight and a name; '#' starts a comment.
// Every line is added together with its three symmetric variants.
func LoadReader(r io.Reader) (*Book, error) {
	book := New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var moves []board.Square
		weight := uint16(1)
		for _, f := range fields {
			sq, err := board.ParseSquare(f)
			if err == nil && sq != board.NoSquare {
				moves = append(moves, sq)
				continue
			}
			if w, err := strconv.ParseUint(f, 10, 16); err == nil {
				weight = uint16(w)
			}
			// Anything after the moves and weight is the line's name.
			break
		}

		for _, sym := range symmetries {
			if err := book.AddLine(transformAll(moves, sym), weight); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return book, nil
}

// key combines the board fingerprint with the side to move.
func key(b board.Board, c board.Color) uint64 {
	return b.Hash() ^ board.ZobristSideToMove(c)
}

// Add records a candidate move. Weights of repeated entries accumulate.
func (b *Book) Add(bd board.Board, c board.Color, sq board.Square, weight uint16) {
	k := key(bd, c)
	for i, e := range b.entries[k] {
		if e.Move == sq {
			w := uint32(e.Weight) + uint32(weight)
			if w > 0xFFFF {
				w = 0xFFFF
			}
			b.entries[k][i].Weight = uint16(w)
			return
		}
	}
	b.entries[k] = append(b.entries[k], BookEntry{Move: sq, Weight: weight})
}

// AddLine replays a move sequence from the start position and adds every
// move to the book. Forced passes are applied automatically.
func (b *Book) AddLine(moves []board.Square, weight uint16) error {
	bd := board.NewBoard()
	c := board.Black
	for i, sq := range moves {
		if !bd.HasMoves(c) {
			c = c.Other()
		}
		next, err := bd.Apply(sq, c)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		b.Add(bd, c, sq, weight)
		bd, c = next, c.Other()
	}
	return nil
}

// Probe looks up a position in the book and returns a legal move using
// weighted random selection.
func (b *Book) Probe(bd board.Board, c board.Color) (board.Square, bool) {
	entries := b.ProbeAll(bd, c)
	if len(entries) == 0 {
		return board.NoSquare, false
	}

	totalWeight := uint64(0)
	for _, e := range entries {
		totalWeight += uint64(e.Weight)
	}

	if totalWeight == 0 {
		// All weights are 0, just pick the first
		return entries[0].Move, true
	}

	r := frand.Uint64n(totalWeight)
	cumulative := uint64(0)
	for _, e := range entries {
		cumulative += uint64(e.Weight)
		if r < cumulative {
			return e.Move, true
		}
	}

	return entries[0].Move, true
}

// ProbeAll returns the legal book moves for the position, sorted by weight.
func (b *Book) ProbeAll(bd board.Board, c board.Color) []BookEntry {
	if b == nil {
		return nil
	}

	entries, ok := b.entries[key(bd, c)]
	if !ok {
		return nil
	}

	result := make([]BookEntry, 0, len(entries))
	for _, e := range entries {
		if bd.IsLegal(e.Move, c) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Weight > result[j].Weight
	})

	return result
}

// Size returns the number of positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Binary format, one record per entry:
// 8 bytes: position key (big-endian)
// 1 byte: move square
// 2 bytes: weight (big-endian)
const recordSize = 11

// WriteBinary writes the book in the compact binary format.
func (b *Book) WriteBinary(w io.Writer) error {
	keys := make([]uint64, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var rec [recordSize]byte
	for _, k := range keys {
		for _, e := range b.entries[k] {
			binary.BigEndian.PutUint64(rec[0:8], k)
			rec[8] = byte(e.Move)
			binary.BigEndian.PutUint16(rec[9:11], e.Weight)
			if _, err := w.Write(rec[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadBinaryReader loads a book written by WriteBinary.
func LoadBinaryReader(r io.Reader) (*Book, error) {
	book := New()

	var rec [recordSize]byte
	for {
		_, err := io.ReadFull(r, rec[:])
		if err == io.EOF {
			break
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated book record")
		}
		if err != nil {
			return nil, err
		}

		k := binary.BigEndian.Uint64(rec[0:8])
		sq := board.Square(rec[8])
		if !sq.IsValid() {
			return nil, fmt.Errorf("invalid move square %d in book", rec[8])
		}
		book.entries[k] = append(book.entries[k], BookEntry{
			Move:   sq,
			Weight: binary.BigEndian.Uint16(rec[9:11]),
		})
	}

	return book, nil
}
