package zobrist

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/board"
)

func testBoard(t *testing.T) *board.Board {
	b, err := board.FromRows([]string{
		"RGBPY",
		"YPBGR",
		"..RR.",
	}, 5)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestClearAndRestore(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()

	b := testBoard(t)
	h := z.Hash(b)
	cells := bitboard.FromStrings("###", "", "..#")
	h1 := z.ClearCells(h, b, cells)
	b.ClearCells(cells)
	is.Equal(h1, z.Hash(b))
	// extremely unlikely to collide, but this is not technically always true.
	is.True(h1 != h)

	is.NoErr(b.Set(0, 0, 0))
	is.NoErr(b.Set(1, 0, 1))
	is.NoErr(b.Set(2, 0, 2))
	is.NoErr(b.Set(2, 2, 0))
	h2 := z.Toggle(z.Toggle(z.Toggle(z.Toggle(h1, 0, 0, 0), 1, 0, 1), 2, 0, 2), 2, 2, 0)
	is.Equal(h2, h)
	is.Equal(z.Hash(b), h)
}

func TestClearIgnoresEmptyCells(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	b := testBoard(t)
	h := z.Hash(b)
	is.Equal(z.ClearCells(h, b, bitboard.FromStrings("", "", "##...#")), h)
}

func TestSeededKeysAreStable(t *testing.T) {
	is := is.New(t)
	seed := make([]byte, 32)
	z1, z2 := &Zobrist{}, &Zobrist{}
	z1.InitializeFrom(frand.NewCustom(seed, 64, 8))
	z2.InitializeFrom(frand.NewCustom(seed, 64, 8))
	b := testBoard(t)
	is.Equal(z1.Hash(b), z2.Hash(b))

	empty, err := board.New(3)
	is.NoErr(err)
	is.Equal(z1.Hash(empty), uint64(0))
}
