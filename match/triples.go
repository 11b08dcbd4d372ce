package match

import (
	"slices"

	"github.com/samber/lo"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/board"
)

var (
	// three cells in a row: (0,0) (1,0) (2,0)
	straightTriple = bitboard.FromStrings("###")
	// a right-angle bend: (0,1) (0,0) (1,0)
	lTriple = bitboard.FromStrings("##", "#.")
)

// An occurrence is a triple found on the board, with the transform that
// carries its template onto it.
type occurrence struct {
	bb        bitboard.BitBoard
	placement bitboard.ShiftRotate
}

// buckets groups occurrences of one template by color signature.
type buckets map[int][]occurrence

type tripleSet struct {
	straight buckets
	l        buckets
}

func signature(c0, c1, c2 int) int {
	return c0 + board.MaxColors*c1 + board.MaxColors*board.MaxColors*c2
}

// placement of a template at (x, y) in the board rotated r quarter turns.
func placement(template bitboard.BitBoard, r, x, y int) occurrence {
	t := bitboard.CenterRotation(r).Inverse().Compose(bitboard.Translation(x, y))
	return occurrence{bb: t.Apply(template), placement: t}
}

// enumerateTriples finds every straight and L triple in every orientation,
// bucketed by the colors read along the template.
func enumerateTriples(p *Prerotated) tripleSet {
	var colors [4][bitboard.Size][bitboard.Size]int8
	for r := range colors {
		rb := p.rots[r]
		for y := 0; y < bitboard.Size; y++ {
			for x := 0; x < bitboard.Size; x++ {
				colors[r][y][x] = int8(rb.Color(x, y))
			}
		}
	}

	ts := tripleSet{straight: buckets{}, l: buckets{}}
	for r := range colors {
		c := &colors[r]
		for y := 0; y < bitboard.Size; y++ {
			for x := 0; x+2 < bitboard.Size; x++ {
				c0, c1, c2 := c[y][x], c[y][x+1], c[y][x+2]
				if c0 == board.None || c1 == board.None || c2 == board.None {
					continue
				}
				// Turning a straight triple half way round gives the same
				// cells read backwards, so keep one reading of each: the one
				// with the smaller end first, or for equal ends the one in
				// the first two rotations.
				if c0 > c2 || (c0 == c2 && r >= 2) {
					continue
				}
				key := signature(int(c0), int(c1), int(c2))
				ts.straight[key] = append(ts.straight[key], placement(straightTriple, r, x, y))
			}
		}
		for y := 0; y+1 < bitboard.Size; y++ {
			for x := 0; x+1 < bitboard.Size; x++ {
				c0, c1, c2 := c[y+1][x], c[y][x], c[y][x+1]
				if c0 == board.None || c1 == board.None || c2 == board.None {
					continue
				}
				key := signature(int(c0), int(c1), int(c2))
				ts.l[key] = append(ts.l[key], placement(lTriple, r, x, y))
			}
		}
	}
	return ts
}

func (ts tripleSet) largestBucket() int {
	largest := 0
	for _, bs := range []buckets{ts.straight, ts.l} {
		for _, occs := range bs {
			largest = max(largest, len(occs))
		}
	}
	return largest
}

// eachPair calls fn for every unordered pair of occurrences sharing a bucket,
// walking buckets in key order. It stops at the first error.
func (ts tripleSet) eachPair(fn func(a, b occurrence) error) error {
	for _, bs := range []buckets{ts.straight, ts.l} {
		keys := lo.Keys(bs)
		slices.Sort(keys)
		for _, k := range keys {
			occs := bs[k]
			for i := range occs {
				for j := i + 1; j < len(occs); j++ {
					if err := fn(occs[i], occs[j]); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
