package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/camelup/board"
	"github.com/domino14/camelup/camel"
)

const bignum = 1<<63 - 2

// Zobrist hashes a leg position: where every camel stands, including its
// height in the stack, plus which dice are still to be rolled.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	// posTable[sq][level][color]
	posTable    [board.MaxSquares][camel.NumColors][camel.NumColors]uint64
	unrolled    [camel.NumColors]uint64
	trackLength [board.MaxSquares + 1]uint64
}

func (z *Zobrist) Initialize() {
	for sq := range z.posTable {
		for lvl := range z.posTable[sq] {
			for c := range z.posTable[sq][lvl] {
				z.posTable[sq][lvl][c] = frand.Uint64n(bignum) + 1
			}
		}
	}
	for c := range z.unrolled {
		z.unrolled[c] = frand.Uint64n(bignum) + 1
	}
	for i := range z.trackLength {
		z.trackLength[i] = frand.Uint64n(bignum) + 1
	}
}

func (z *Zobrist) Hash(b *board.Board, unrolled []camel.Color) uint64 {
	key := z.trackLength[b.NumSquares()]
	for sq := 0; sq < b.NumSquares(); sq++ {
		for lvl := 0; lvl < b.Height(sq); lvl++ {
			key ^= z.posTable[sq][lvl][b.At(sq, lvl)]
		}
	}
	for _, c := range unrolled {
		key ^= z.unrolled[c]
	}
	return key
}
