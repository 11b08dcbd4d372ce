package testhelpers

import (
	"testing"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/board"
	"github.com/domino14/doubledots/config"
)

var DefaultConfig = config.DefaultConfig()

// The three placements of the RGB corner on ThreeLs. The third is rotated a
// quarter turn from the first two.
var (
	L1 = bitboard.FromStrings("##", "#.")
	L2 = L1.ShiftE(5)
	L3 = bitboard.FromStrings("", "", "", ".....##", "......#")
)

// ThreeLs is a small board whose only moves are the pairs of L1, L2 and L3.
func ThreeLs(tb testing.TB) *board.Board {
	tb.Helper()
	return MustBoard(tb, 3,
		"RG...RG",
		"B....B.",
		".......",
		".....BR",
		"......G",
	)
}

// MustBoard builds a board from rows or fails the test.
func MustBoard(tb testing.TB, nColors int, rows ...string) *board.Board {
	tb.Helper()
	b, err := board.FromRows(rows, nColors)
	if err != nil {
		tb.Fatal(err)
	}
	return b
}
