package board

// Perft counts the leaf nodes of the move tree to the given depth.
// A forced pass counts as one ply; a finished game is a single leaf.
func Perft(b Board, c Color, depth int) uint64 {
	return perft(b, c, depth, false)
}

func perft(b Board, c Color, depth int, passed bool) uint64 {
	if depth == 0 {
		return 1
	}

	moves := b.MoveMask(c)
	if moves == 0 {
		if passed {
			return 1
		}
		return perft(b, c.Other(), depth-1, true)
	}

	if depth == 1 {
		return uint64(moves.PopCount())
	}

	var nodes uint64
	for moves != 0 {
		sq := moves.PopLSB()
		nodes += perft(b.apply(sq, c, b.Flips(sq, c)), c.Other(), depth-1, false)
	}
	return nodes
}
