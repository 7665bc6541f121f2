package engine

import (
	"testing"

	"github.com/hailam/othelloplay/internal/board"
)

func TestTranspositionTable(t *testing.T) {
	tt := NewTranspositionTable(100)
	key := ttKey(board.NewBoard(), board.Black, true)

	// First probe should miss
	if _, found := tt.Probe(key); found {
		t.Error("Expected cache miss on first probe")
	}

	tt.Store(key, 4, 12.5, TTExact, board.F5)
	e, found := tt.Probe(key)
	if !found {
		t.Fatal("Expected cache hit after store")
	}
	if e.Score != 12.5 || e.Depth != 4 || e.Flag != TTExact || e.BestMove != board.F5 {
		t.Errorf("Wrong entry: %+v", e)
	}

	// A shallower result does not replace a deeper one.
	tt.Store(key, 2, -3, TTLowerBound, board.D3)
	if e, _ := tt.Probe(key); e.Depth != 4 || e.BestMove != board.F5 {
		t.Errorf("shallower store replaced entry: %+v", e)
	}

	// Equal depth replaces.
	tt.Store(key, 4, 1, TTUpperBound, board.C4)
	if e, _ := tt.Probe(key); e.Flag != TTUpperBound || e.BestMove != board.C4 {
		t.Errorf("equal-depth store did not replace entry: %+v", e)
	}

	if tt.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tt.Len())
	}
	t.Logf("Hit rate: %.1f%%", tt.HitRate())
}

func TestTTKeyIncludesMover(t *testing.T) {
	b := board.NewBoard()
	keys := map[uint64]bool{
		ttKey(b, board.Black, true):  true,
		ttKey(b, board.Black, false): true,
		ttKey(b, board.White, true):  true,
		ttKey(b, board.White, false): true,
	}
	if len(keys) != 4 {
		t.Errorf("ttKey collides across mover/maximizing: %d distinct keys", len(keys))
	}
}

func TestMalformedEntryIsMiss(t *testing.T) {
	tt := NewTranspositionTable(100)
	key := uint64(42)
	tt.entries[key] = TTEntry{Key: key, Score: 1, Depth: 3, Flag: TTFlag(9)}

	if _, found := tt.Probe(key); found {
		t.Error("malformed entry reported as a hit")
	}
}

func TestMaybeClear(t *testing.T) {
	tt := NewTranspositionTable(3)
	for i := uint64(1); i <= 3; i++ {
		tt.Store(i, 1, 0, TTExact, board.NoSquare)
	}
	if tt.MaybeClear() {
		t.Fatal("table cleared at its limit")
	}

	tt.Store(4, 1, 0, TTExact, board.NoSquare)
	if !tt.MaybeClear() {
		t.Fatal("table not cleared above its limit")
	}
	if tt.Len() != 0 {
		t.Errorf("Len() = %d after clear, want 0", tt.Len())
	}
	if _, found := tt.Probe(1); found {
		t.Error("entry survived clear")
	}
}
