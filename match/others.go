package match

import (
	"slices"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/board"
)

// FindOtherMatches returns every placement of matched[0]'s shape and colors
// on b that avoids all of the matched cell sets. A non-empty result means
// confirming the match now would leave another congruent region behind.
func FindOtherMatches(b *board.Board, matched []bitboard.BitBoard) []bitboard.BitBoard {
	if len(matched) == 0 || matched[0].IsEmpty() {
		return nil
	}
	shape := bitboard.Canonicalise(matched[0])
	pattern := b.Transform(shape.Transform).And(shape.BB)

	free := b.Mask()
	for _, m := range matched {
		free = free.AndNot(m)
	}

	seen := map[bitboard.BitBoard]struct{}{}
	var result []bitboard.BitBoard
	for r := 0; r < 4; r++ {
		orient := bitboard.Normalizer(shape.BB, r)
		base := orient.Apply(shape.BB)
		for y := 0; y <= base.MarginN(); y++ {
			for x := 0; x <= base.MarginE(); x++ {
				place := bitboard.Translation(x, y).Compose(orient)
				candidate := place.Apply(shape.BB)
				if !free.Contains(candidate) {
					continue
				}
				if _, ok := seen[candidate]; ok {
					continue
				}
				if b.And(candidate).Transform(place.Inverse()).Equal(pattern) {
					seen[candidate] = struct{}{}
					result = append(result, candidate)
				}
			}
		}
	}
	slices.SortFunc(result, bitboard.BitBoard.Compare)
	return result
}
