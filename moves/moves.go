// Package moves turns the pairs found by the search into scored, grouped
// candidate moves.
package moves

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/match"
)

// A Match is one scored pair of congruent regions.
type Match struct {
	Shape1 bitboard.BitBoard
	Shape2 bitboard.BitBoard
	Score  int
}

// Size is the number of cells on one side of the match.
func (m Match) Size() int {
	return m.Shape1.Count()
}

// Cells returns both sides of the match.
func (m Match) Cells() bitboard.BitBoard {
	return m.Shape1.Or(m.Shape2)
}

// ShapeMatches groups every match whose shape has the same canonical form.
// Matches are ordered best first. Hinted counts hints already given from
// this group.
type ShapeMatches struct {
	Shape   bitboard.BitBoard
	Matches []Match
	Hinted  int
}

type ScoringPolicy int

const (
	// ScoreBySize scores a match by the size of one side.
	ScoreBySize ScoringPolicy = iota
	// ScoreWithClobberBonus also awards the size of every smaller match that
	// this one would partly destroy.
	ScoreWithClobberBonus
)

var policyNames = map[ScoringPolicy]string{
	ScoreBySize:           "size",
	ScoreWithClobberBonus: "clobber-bonus",
}

func (p ScoringPolicy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("ScoringPolicy(%d)", int(p))
}

// ParsePolicy is the inverse of ScoringPolicy.String.
func ParsePolicy(s string) (ScoringPolicy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown scoring policy %q", s)
}

func comparePairs(a, b match.Pair) int {
	if c := cmp.Compare(a[0].Count(), b[0].Count()); c != 0 {
		return c
	}
	if c := a[0].Compare(b[0]); c != 0 {
		return c
	}
	return a[1].Compare(b[1])
}

// Score converts pairs into matches, smallest first.
func Score(pairs match.PairSet, policy ScoringPolicy) []Match {
	sorted := lo.Keys(pairs)
	slices.SortFunc(sorted, comparePairs)

	matches := make([]Match, 0, len(sorted))
	for _, p := range sorted {
		size := p[0].Count()
		score := size
		if policy == ScoreWithClobberBonus {
			cells := p[0].Or(p[1])
			for _, m := range matches {
				if m.Size() >= size {
					break
				}
				bb := m.Cells()
				diff := bb.AndNot(cells)
				if !diff.IsEmpty() && diff != bb {
					score += m.Size()
				}
			}
		}
		matches = append(matches, Match{Shape1: p[0], Shape2: p[1], Score: score})
	}
	return matches
}

func compareMatches(a, b Match) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := a.Shape1.Compare(b.Shape1); c != 0 {
		return c
	}
	return a.Shape2.Compare(b.Shape2)
}

// compareScoreLists orders higher score lists first; a list that is a
// prefix of another comes first.
func compareScoreLists(a, b []Match) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmp.Compare(b[i].Score, a[i].Score); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareGroups(a, b *ShapeMatches) int {
	if c := compareScoreLists(a.Matches, b.Matches); c != 0 {
		return c
	}
	return b.Shape.Compare(a.Shape)
}

// PossibleMoves scores pairs and groups them by canonical shape, best group
// first.
func PossibleMoves(pairs match.PairSet, policy ScoringPolicy) []*ShapeMatches {
	byShape := lo.GroupBy(Score(pairs, policy), func(m Match) bitboard.BitBoard {
		return bitboard.Canonicalise(m.Shape1).BB
	})
	groups := lo.MapToSlice(byShape, func(shape bitboard.BitBoard, ms []Match) *ShapeMatches {
		slices.SortFunc(ms, compareMatches)
		return &ShapeMatches{Shape: shape, Matches: ms}
	})
	slices.SortFunc(groups, compareGroups)
	log.Debug().Int("pairs", len(pairs)).Int("groups", len(groups)).
		Str("policy", policy.String()).Msg("possible-moves")
	return groups
}

// Filter drops matches that use any cell outside mask, and groups left with
// no matches. A group that loses matches has its hint count reset. Group
// order is preserved.
func Filter(groups []*ShapeMatches, mask bitboard.BitBoard) []*ShapeMatches {
	removed := mask.Not()
	var out []*ShapeMatches
	for _, g := range groups {
		kept := lo.Filter(g.Matches, func(m Match, _ int) bool {
			return !m.Cells().Intersects(removed)
		})
		if len(kept) == 0 {
			continue
		}
		hinted := g.Hinted
		if len(kept) != len(g.Matches) {
			hinted = 0
		}
		out = append(out, &ShapeMatches{Shape: g.Shape, Matches: kept, Hinted: hinted})
	}
	log.Debug().Int("matches", Count(out)).Int("groups", len(out)).Msg("filtered-moves")
	return out
}

// Count returns the number of matches across groups.
func Count(groups []*ShapeMatches) int {
	return lo.SumBy(groups, func(g *ShapeMatches) int { return len(g.Matches) })
}

// Best returns the top match, if there is one.
func Best(groups []*ShapeMatches) (Match, bool) {
	if len(groups) == 0 || len(groups[0].Matches) == 0 {
		return Match{}, false
	}
	return groups[0].Matches[0], true
}

// Histogram counts pairs by the size of one side.
func Histogram(pairs match.PairSet) map[int]int {
	h := map[int]int{}
	for p := range pairs {
		h[p[0].Count()]++
	}
	return h
}
