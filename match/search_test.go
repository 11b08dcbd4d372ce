package match

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"lukechampine.com/frand"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/board"
)

func seededRNG(seed uint64) *frand.RNG {
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}

// randomBoard draws a board from a fresh seed and logs the seed, so a failing
// board can be rebuilt with randomBoardFrom.
func randomBoard(tb testing.TB, nColors, width, height, holes int) *board.Board {
	tb.Helper()
	seed := frand.Uint64n(1<<63) + 1
	tb.Logf("random board seed %d", seed)
	return randomBoardFrom(tb, seededRNG(seed), nColors, width, height, holes)
}

func randomBoardFrom(tb testing.TB, rng *frand.RNG, nColors, width, height, holes int) *board.Board {
	tb.Helper()
	b, err := board.New(nColors)
	if err != nil {
		tb.Fatal(err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if rng.Intn(100) < holes {
				continue
			}
			if err := b.Set(x, y, rng.Intn(nColors)); err != nil {
				tb.Fatal(err)
			}
		}
	}
	return b
}

func TestRandomBoardIsReproducible(t *testing.T) {
	is := is.New(t)
	b1 := randomBoardFrom(t, seededRNG(42), 4, 8, 8, 10)
	b2 := randomBoardFrom(t, seededRNG(42), 4, 8, 8, 10)
	is.True(b1.Equal(b2))
	b3 := randomBoardFrom(t, seededRNG(43), 4, 8, 8, 10)
	is.True(!b1.Equal(b3))
}

// checkResults verifies the search output directly against the predicate.
func checkResults(t *testing.T, b *board.Board, pairs PairSet) {
	t.Helper()
	p := NewPrerotated(b)
	mask := b.Mask()
	frontier := func(bb bitboard.BitBoard) bitboard.BitBoard {
		return bb.NHood4().AndNot(bb).And(mask)
	}
	for pair := range pairs {
		a, c := pair[0], pair[1]
		assert.False(t, a.Intersects(c), "overlapping pair")
		assert.True(t, a.Less(c), "pair out of order")
		assert.True(t, p.Congruent(a, c), "pair not congruent")
		assert.True(t, mask.Contains(a) && mask.Contains(c), "pair covers empty cells")

		frontier(a).Each(func(x1, y1 int) {
			ga := a.Set(x1, y1)
			frontier(c).Each(func(x2, y2 int) {
				gc := c.Set(x2, y2)
				if ga.Intersects(gc) {
					return
				}
				assert.False(t, p.Congruent(ga, gc), "pair %v can grow to %v", pair, Pair{ga, gc})
			})
		})
	}
}

func TestQuadrantPairIsMaximal(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 2,
		"RR..",
		"GG..",
		"..RR",
		"..GG",
	)
	pairs := FindMatchingPairs(b)
	want := Pair{
		bitboard.FromStrings("##", "##"),
		bitboard.FromStrings("", "", "..##", "..##"),
	}
	is.Equal(pairs, PairSet{want: {}})
	checkResults(t, b, pairs)
}

func TestSeedSizedLTriples(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 3,
		"RG.....",
		"B......",
		".......",
		".....BR",
		"......G",
	)
	pairs := FindMatchingPairs(b)
	want := Pair{
		bitboard.FromStrings("##", "#."),
		bitboard.FromStrings("", "", "", ".....##", "......#"),
	}
	is.Equal(pairs, PairSet{want: {}})
}

func TestSeparatedBars(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 1,
		"RRR...",
		"......",
		".....R",
		".....R",
		".....R",
	)
	pairs := FindMatchingPairs(b)
	is.Equal(len(pairs), 1)
	checkResults(t, b, pairs)
}

func TestMonochromeBlock(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 1,
		"RRRR",
		"RRRR",
	)
	pairs := FindMatchingPairs(b)
	is.True(len(pairs) > 0)
	checkResults(t, b, pairs)

	halves := Pair{bitboard.FromStrings("##", "##"), bitboard.FromStrings("..##", "..##")}
	rows := Pair{bitboard.FromStrings("####"), bitboard.FromStrings("", "####")}
	_, ok := pairs[halves]
	is.True(ok)
	_, ok = pairs[rows]
	is.True(ok)
	for pair := range pairs {
		// a side of more than half the block cannot have a disjoint twin
		is.True(pair[0].Count() <= 4)
	}
}

func TestNoMatchesOnDistinctColors(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 5,
		"RGB",
		"PY.",
	)
	is.Equal(len(FindMatchingPairs(b)), 0)
	empty, err := board.New(3)
	is.NoErr(err)
	is.Equal(len(FindMatchingPairs(empty)), 0)
}

func TestRandomBoardsSatisfyInvariants(t *testing.T) {
	for i := 0; i < 6; i++ {
		b := randomBoard(t, 4+i%2, 8, 8, 10)
		pairs, stats, err := NewSearcher(DefaultOptions()).Search(context.Background(), b)
		if err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, stats.Returned, len(pairs))
		checkResults(t, b, pairs)
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	is := is.New(t)
	b := randomBoard(t, 5, 10, 10, 0)
	first := FindMatchingPairs(b)
	for i := 0; i < 3; i++ {
		is.Equal(FindMatchingPairs(b), first)
	}
}

func TestSearchIsRotationInvariant(t *testing.T) {
	is := is.New(t)
	b := randomBoard(t, 4, 8, 8, 5)
	pairs := FindMatchingPairs(b)
	rotated := FindMatchingPairs(b.RotL())
	is.Equal(len(rotated), len(pairs))
	for pair := range pairs {
		a, c := pair[0].RotL(), pair[1].RotL()
		if c.Less(a) {
			a, c = c, a
		}
		_, ok := rotated[Pair{a, c}]
		is.True(ok)
	}
}

func TestMemoLimit(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 1,
		"RRRR",
		"RRRR",
	)
	_, _, err := NewSearcher(Options{MaxMemoEntries: 2}).Search(context.Background(), b)
	is.True(errors.Is(err, ErrMemoLimit))
	is.True(MemoLimitFromMemory(0.01) > 0)
	is.Equal(MemoLimitFromMemory(0), 0)
}

func TestSearchCancelled(t *testing.T) {
	is := is.New(t)
	b := randomBoard(t, 3, 8, 8, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pairs, _, err := NewSearcher(DefaultOptions()).Search(ctx, b)
	is.True(errors.Is(err, context.Canceled))
	is.Equal(pairs, nil)
}

func BenchmarkFindMatchingPairs(b *testing.B) {
	bd := randomBoard(b, 5, 12, 12, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FindMatchingPairs(bd)
	}
}
