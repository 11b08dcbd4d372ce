package bitboard

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"
)

// Oriented is a board together with the transform that produced it.
type Oriented struct {
	BB        BitBoard
	Transform ShiftRotate
}

// Bytes returns the little-endian encoding of the four words.
func (b BitBoard) Bytes() []byte {
	buf := make([]byte, 8*len(b))
	for i, w := range b {
		binary.LittleEndian.PutUint64(buf[8*i:], w)
	}
	return buf
}

// Hash is a content hash of the raw bits.
func (b BitBoard) Hash() uint64 {
	return xxhash.Sum64(b.Bytes())
}

// tieBreaker returns a deterministic RNG seeded from the content of b, so
// tie-breaks among symmetric orientations are reproducible and independent of
// call order.
func tieBreaker(b BitBoard) *frand.RNG {
	seed := make([]byte, 32)
	binary.LittleEndian.PutUint64(seed, b.Hash())
	return frand.NewCustom(seed, 64, 8)
}

// Orientations returns b in each of the four rotations, each aligned to the
// origin, indexed by rotation.
func Orientations(b BitBoard) [4]Oriented {
	var o [4]Oriented
	for r := range o {
		t := Normalizer(b, r)
		o[r] = Oriented{BB: t.Apply(b), Transform: t}
	}
	return o
}

// Canonicalise returns the smallest of the four origin-aligned rotations of
// b. When several rotations give the same board (symmetric shapes), which
// transform is reported is decided by a shuffle seeded from b, rather than
// always favouring the lowest rotation.
func Canonicalise(b BitBoard) Oriented {
	cands := Orientations(b)
	tieBreaker(b).Shuffle(len(cands), func(i, j int) {
		cands[i], cands[j] = cands[j], cands[i]
	})
	best := cands[0]
	for _, c := range cands[1:] {
		if c.BB.Less(best.BB) {
			best = c
		}
	}
	return best
}
