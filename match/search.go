package match

import (
	"context"
	"errors"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/board"
)

// SeedLevel is the size of the triples that start every growth.
const SeedLevel = 3

// approximate bytes held per memo entry: the pair itself plus map overhead.
const memoEntrySize = 96

var ErrMemoLimit = errors.New("pair search exceeded its memo limit")

// A Pair is two disjoint congruent cell sets, stored with Pair[0] < Pair[1].
type Pair [2]bitboard.BitBoard

// PairSet is a set of pairs.
type PairSet map[Pair]struct{}

// Options tune a Searcher.
type Options struct {
	// VerifyLeaves re-checks every frontier extension of a pair directly
	// before declaring it maximal, instead of trusting only the extensions
	// suggested by the transforms relating the two sides.
	VerifyLeaves bool
	// MaxMemoEntries caps result+discarded. Zero means no limit.
	MaxMemoEntries int
}

func DefaultOptions() Options {
	return Options{VerifyLeaves: true}
}

// MemoLimitFromMemory sizes the memo cap to a fraction of system memory.
func MemoLimitFromMemory(fraction float64) int {
	if fraction <= 0 {
		return 0
	}
	total := memory.TotalMemory()
	n := int(fraction * float64(total) / memoEntrySize)
	log.Debug().Uint64("total-system-memory-bytes", total).
		Float64("fraction", fraction).
		Int("memo-limit", n).Msg("memo-limit-from-memory")
	return n
}

// Stats describes one search pass.
type Stats struct {
	Analyses  int
	Tests     int
	Matches   int
	Overlaps  int
	Returned  int
	Discarded int
	Seeds     int
	MaxLevel  int
	// LargestBucket is the biggest group of same-colored triples.
	LargestBucket int
	Elapsed       time.Duration
}

// Searcher finds maximal congruent pairs. A Searcher holds no state between
// calls and may be used from several goroutines.
type Searcher struct {
	opts Options
}

func NewSearcher(opts Options) *Searcher {
	return &Searcher{opts: opts}
}

// session is the mutable state of one search pass.
type session struct {
	opts      Options
	rots      *Prerotated
	mask      bitboard.BitBoard
	result    PairSet
	discarded PairSet
	stats     Stats
	err       error
}

// FindMatchingPairs returns every maximal congruent pair on b.
func FindMatchingPairs(b *board.Board) PairSet {
	pairs, _, err := NewSearcher(DefaultOptions()).Search(context.Background(), b)
	if err != nil {
		// Neither a memo limit nor a cancellable context is in play.
		panic(err)
	}
	return pairs
}

// Search runs a full pass over b. The board must not change while the
// search runs. Cancellation is checked between seed pairs; a cancelled or
// aborted search returns no pairs.
func (s *Searcher) Search(ctx context.Context, b *board.Board) (PairSet, Stats, error) {
	start := time.Now()
	sess := &session{
		opts:      s.opts,
		rots:      NewPrerotated(b),
		mask:      b.Mask(),
		result:    PairSet{},
		discarded: PairSet{},
	}
	seeds := enumerateTriples(sess.rots)
	sess.stats.LargestBucket = seeds.largestBucket()

	err := seeds.eachPair(func(a, b occurrence) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sess.stats.Seeds++
		sess.analysePair(a.bb, b.bb, b.placement.Compose(a.placement.Inverse()), SeedLevel)
		return sess.err
	})
	sess.stats.Returned = len(sess.result)
	sess.stats.Discarded = len(sess.discarded)
	sess.stats.Elapsed = time.Since(start)

	log.Debug().
		Int("analyses", sess.stats.Analyses).
		Int("tests", sess.stats.Tests).
		Int("matches", sess.stats.Matches).
		Int("overlaps", sess.stats.Overlaps).
		Int("returned", sess.stats.Returned).
		Int("discarded", sess.stats.Discarded).
		Int("max-level", sess.stats.MaxLevel).
		Int("largest-bucket", sess.stats.LargestBucket).
		Dur("elapsed", sess.stats.Elapsed).
		Msg("pair-search-stats")

	if err != nil {
		return nil, sess.stats, err
	}
	return sess.result, sess.stats, nil
}

func (s *session) frontier(bb bitboard.BitBoard) bitboard.BitBoard {
	return bb.NHood4().AndNot(bb).And(s.mask)
}

// analysePair reports whether a and b, or some extension of them, is a
// congruent pair, including pairs already recorded by earlier calls. sr is
// the transform expected to carry a onto b.
func (s *session) analysePair(a, b bitboard.BitBoard, sr bitboard.ShiftRotate, level int) bool {
	s.stats.Analyses++
	if s.err != nil {
		return false
	}
	if a.Intersects(b) || a == b {
		return false
	}
	if b.Less(a) {
		a, b = b, a
		sr = sr.Inverse()
	}
	key := Pair{a, b}
	if _, ok := s.discarded[key]; ok {
		s.stats.Overlaps++
		return true
	}
	if _, ok := s.result[key]; ok {
		s.stats.Overlaps++
		return true
	}

	s.stats.Tests++
	transforms := s.rots.Alignments(a, b)
	if len(transforms) == 0 {
		return false
	}
	s.stats.Matches++
	s.stats.MaxLevel = max(s.stats.MaxLevel, level)
	orderTransforms(transforms, sr)

	foundBigger := false
	hood := s.frontier(a)
	for cells := hood; !cells.IsEmpty(); {
		lo := cells.LS1B()
		cells = cells.AndNot(lo)
		for _, t := range transforms {
			counterpart := t.ApplyToCell(lo)
			if counterpart.IsEmpty() || !s.mask.Contains(counterpart) || b.Contains(counterpart) {
				continue
			}
			if s.analysePair(a.Or(lo), b.Or(counterpart), t, level+1) {
				foundBigger = true
			}
		}
	}

	if !foundBigger && s.opts.VerifyLeaves {
		foundBigger = s.verifyLeaf(a, b, hood, transforms[0], level)
	}

	if s.err != nil {
		return false
	}
	if foundBigger {
		s.discarded[key] = struct{}{}
	} else {
		s.result[key] = struct{}{}
	}
	if s.opts.MaxMemoEntries > 0 && len(s.result)+len(s.discarded) > s.opts.MaxMemoEntries {
		s.err = ErrMemoLimit
	}
	return true
}

// verifyLeaf tries every pairing of frontier cells, catching extensions that
// are congruent under a transform not relating a to b themselves.
func (s *session) verifyLeaf(a, b, hoodA bitboard.BitBoard, sr bitboard.ShiftRotate, level int) bool {
	hoodB := s.frontier(b)
	found := false
	for ca := hoodA; !ca.IsEmpty(); {
		lo1 := ca.LS1B()
		ca = ca.AndNot(lo1)
		for cb := hoodB; !cb.IsEmpty(); {
			lo2 := cb.LS1B()
			cb = cb.AndNot(lo2)
			if s.analysePair(a.Or(lo1), b.Or(lo2), sr, level+1) {
				found = true
			}
		}
	}
	return found
}

// orderTransforms moves sr to the front if the predicate confirmed it.
func orderTransforms(ts []bitboard.ShiftRotate, sr bitboard.ShiftRotate) {
	sr = sr.Normalized()
	for i, t := range ts {
		if t == sr {
			ts[0], ts[i] = ts[i], ts[0]
			return
		}
	}
}
