package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/board"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for a board position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	posTable [bitboard.Cells][board.MaxColors]uint64
}

func (z *Zobrist) Initialize() {
	for i := range z.posTable {
		for j := range z.posTable[i] {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
}

// InitializeFrom draws the keys from rng instead of the global generator, so
// that hashes are stable across runs.
func (z *Zobrist) InitializeFrom(rng *frand.RNG) {
	for i := range z.posTable {
		for j := range z.posTable[i] {
			z.posTable[i][j] = rng.Uint64n(bignum) + 1
		}
	}
}

func (z *Zobrist) Hash(b *board.Board) uint64 {
	key := uint64(0)
	for c := 0; c < b.NColors(); c++ {
		b.Plane(c).Each(func(x, y int) {
			key ^= z.posTable[y*bitboard.Size+x][c]
		})
	}
	return key
}

// Toggle adds or removes a single colored cell.
func (z *Zobrist) Toggle(key uint64, x, y, color int) uint64 {
	return key ^ z.posTable[y*bitboard.Size+x][color]
}

// ClearCells removes cells from key. b must still hold the cells' colors.
func (z *Zobrist) ClearCells(key uint64, b *board.Board, cells bitboard.BitBoard) uint64 {
	cells.And(b.Mask()).Each(func(x, y int) {
		key = z.Toggle(key, x, y, b.Color(x, y))
	})
	return key
}
