package match

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/doubledots/bitboard"
)

func TestFindOtherMatches(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 3,
		"RG...RG",
		"B....B.",
		".......",
		".....BR",
		"......G",
		".......",
		"RB.....",
		"G......",
	)
	l1 := bitboard.FromStrings("##", "#.")
	l2 := l1.ShiftE(5)
	l3 := bitboard.FromStrings("", "", "", ".....##", "......#")

	is.Equal(FindOtherMatches(b, []bitboard.BitBoard{l1, l2}), []bitboard.BitBoard{l3})
	is.Equal(FindOtherMatches(b, []bitboard.BitBoard{l3, l1}), []bitboard.BitBoard{l2})
	is.Equal(FindOtherMatches(b, []bitboard.BitBoard{l1}), []bitboard.BitBoard{l2, l3})
	is.Equal(len(FindOtherMatches(b, []bitboard.BitBoard{l1, l2, l3})), 0)
	is.Equal(len(FindOtherMatches(b, nil)), 0)
}

func TestFindOtherMatchesSymmetricShape(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 1,
		"RRR.RRR.RRR",
	)
	bar := bitboard.FromStrings("###")
	others := FindOtherMatches(b, []bitboard.BitBoard{bar, bar.ShiftE(4)})
	// one placement, even though a half turn also fits it
	is.Equal(others, []bitboard.BitBoard{bar.ShiftE(8)})
}
