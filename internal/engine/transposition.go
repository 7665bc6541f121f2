package engine

import (
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/hailam/othelloplay/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

// debugChecks turns malformed cache entries into panics instead of misses.
const debugChecks = false

func (f TTFlag) valid() bool {
	return f <= TTUpperBound
}

// String returns the bound name.
func (f TTFlag) String() string {
	switch f {
	case TTExact:
		return "exact"
	case TTLowerBound:
		return "lower"
	case TTUpperBound:
		return "upper"
	default:
		return "invalid"
	}
}

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	Key      uint64       // Full key for verification
	BestMove board.Square // Best move found, NoSquare if none
	Score    float64      // Score (bounded by flag), from the root mover's view
	Depth    int8         // Remaining depth the score was searched to
	Flag     TTFlag       // Type of bound
}

// TranspositionTable caches search results by position key.
// It is map-backed and cleared wholesale once it outgrows maxEntries.
// Not safe for concurrent use; the engine runs one search at a time.
type TranspositionTable struct {
	entries    map[uint64]TTEntry
	maxEntries int

	// Statistics (atomic so they can be read while a search runs)
	hits   atomic.Uint64
	probes atomic.Uint64
	size   atomic.Int64
}

// NewTranspositionTable creates a table that is cleared above maxEntries.
func NewTranspositionTable(maxEntries int) *TranspositionTable {
	if maxEntries <= 0 {
		maxEntries = DefaultConfig().TTMaxEntries
	}
	return &TranspositionTable{
		entries:    make(map[uint64]TTEntry),
		maxEntries: maxEntries,
	}
}

// ttKey mixes the side to move and the maximizing flag into the board hash,
// so a stored score is always relative to the same root perspective.
func ttKey(b board.Board, c board.Color, maximizing bool) uint64 {
	key := b.Hash() ^ board.ZobristSideToMove(c)
	if maximizing {
		key ^= maximizerKey
	}
	return key
}

const maximizerKey = 0x9E3779B97F4A7C15

// Probe looks up a key in the transposition table.
// An entry with an unknown bound is reported as a miss.
func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	tt.probes.Add(1)

	entry, ok := tt.entries[key]
	if !ok || entry.Key != key {
		return TTEntry{}, false
	}
	if !entry.Flag.valid() {
		if debugChecks {
			panic("transposition table: malformed bound " + entry.Flag.String())
		}
		log.Debug().Uint64("key", key).Uint8("flag", uint8(entry.Flag)).Msg("ignoring malformed tt entry")
		return TTEntry{}, false
	}

	tt.hits.Add(1)
	return entry, true
}

// Store saves a result. An existing entry is only replaced by one of equal
// or greater depth.
func (tt *TranspositionTable) Store(key uint64, depth int, score float64, flag TTFlag, bestMove board.Square) {
	if old, ok := tt.entries[key]; ok && int(old.Depth) > depth {
		return
	}
	tt.entries[key] = TTEntry{
		Key:      key,
		BestMove: bestMove,
		Score:    score,
		Depth:    int8(depth),
		Flag:     flag,
	}
	tt.size.Store(int64(len(tt.entries)))
}

// MaybeClear empties the table if it has grown past its limit.
// It reports whether the table was cleared.
func (tt *TranspositionTable) MaybeClear() bool {
	if len(tt.entries) <= tt.maxEntries {
		return false
	}
	log.Debug().Int("entries", len(tt.entries)).Int("limit", tt.maxEntries).Msg("clearing transposition table")
	tt.Clear()
	return true
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.hits.Store(0)
	tt.probes.Store(0)
	tt.size.Store(0)
}

// Len returns the number of stored entries.
func (tt *TranspositionTable) Len() int {
	return int(tt.size.Load())
}

// HashFull returns the permille of the entry limit that is in use.
func (tt *TranspositionTable) HashFull() int {
	used := tt.Len() * 1000 / tt.maxEntries
	if used > 1000 {
		used = 1000
	}
	return used
}

// HitRate returns the percentage of probes that found a usable entry.
func (tt *TranspositionTable) HitRate() float64 {
	probes := tt.probes.Load()
	if probes == 0 {
		return 0
	}
	return float64(tt.hits.Load()) / float64(probes) * 100
}
