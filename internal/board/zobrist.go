package board

// Zobrist hash keys for board fingerprints.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristDisc       [2][64]uint64 // [Color][Square]
	zobristSideToMove [2]uint64     // one per color, mixed in by callers that key on the mover
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	for c := Black; c <= White; c++ {
		for sq := A1; sq <= H8; sq++ {
			zobristDisc[c][sq] = rng.next()
		}
	}

	zobristSideToMove[Black] = rng.next()
	zobristSideToMove[White] = rng.next()
}

// ZobristSideToMove returns the Zobrist key for the color to move.
func ZobristSideToMove(c Color) uint64 {
	return zobristSideToMove[c]
}

// Hash returns the Zobrist fingerprint of the disc placement.
// Equal boards always produce equal hashes.
func (b Board) Hash() uint64 {
	var h uint64
	for c := Black; c <= White; c++ {
		bb := b.discs[c]
		for bb != 0 {
			h ^= zobristDisc[c][bb.PopLSB()]
		}
	}
	return h
}
