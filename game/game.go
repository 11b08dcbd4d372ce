// Package game holds a board being played: random setup, confirming
// matches, and the cached list of moves still available.
package game

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/board"
	"github.com/domino14/doubledots/cache"
	"github.com/domino14/doubledots/config"
	"github.com/domino14/doubledots/match"
	"github.com/domino14/doubledots/moves"
	"github.com/domino14/doubledots/zobrist"
)

// MinimumSelection is the fewest cells a matched region may have.
const MinimumSelection = 3

var (
	ErrBadDimensions     = errors.New("board dimensions out of range")
	ErrTooFewSelections  = errors.New("a match needs at least two non-empty selections")
	ErrSelectionTooSmall = fmt.Errorf("a match needs at least %d cells per selection", MinimumSelection)
	ErrEmptyCell         = errors.New("selection includes an empty cell")
	ErrDisconnected      = errors.New("selection is not connected")
	ErrOverlap           = errors.New("selections overlap")
	ErrNotCongruent      = errors.New("selections are not congruent")
)

// Outcome is the result of a match attempt.
type Outcome int

const (
	// Rejected accompanies a validation error.
	Rejected Outcome = iota
	// Incomplete means the selections match but another congruent region
	// remains on the board, so the match was not applied.
	Incomplete
	// Matched means the selected cells were removed.
	Matched
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Incomplete:
		return "incomplete"
	case Matched:
		return "matched"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Keys come from a fixed seed so that hashes, and with them cache keys,
// are stable between runs.
var hasher = func() *zobrist.Zobrist {
	z := &zobrist.Zobrist{}
	z.InitializeFrom(frand.NewCustom(make([]byte, 32), 1024, 12))
	return z
}()

type Game struct {
	board  *board.Board
	seed   uint64
	hash   uint64
	policy moves.ScoringPolicy

	searcher   *match.Searcher
	movesCache *cache.Cache[[]*moves.ShapeMatches]
	// provisional is the last computed move list, filtered down to the
	// cells still on the board.
	provisional []*moves.ShapeMatches
}

func seedRNG(seed uint64) *frand.RNG {
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}

// New fills a width by height region with random colors. A zero seed picks
// one at random; Seed returns the one used.
func New(cfg *config.Config, nColors, width, height int, seed uint64) (*Game, error) {
	if width < 1 || width > bitboard.Size || height < 1 || height > bitboard.Size {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	b, err := board.New(nColors)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = frand.Uint64n(1<<63) + 1
	}
	rng := seedRNG(seed)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if err := b.Set(x, y, rng.Intn(nColors)); err != nil {
				return nil, err
			}
		}
	}
	g, err := FromBoard(cfg, b)
	if err != nil {
		return nil, err
	}
	g.seed = seed
	log.Debug().Int("colors", nColors).Int("width", width).Int("height", height).
		Uint64("seed", seed).Msg("new-game")
	return g, nil
}

// FromBoard starts a game on b. The game takes ownership of b.
func FromBoard(cfg *config.Config, b *board.Board) (*Game, error) {
	policy, err := moves.ParsePolicy(cfg.GetString(config.ConfigScoringPolicy))
	if err != nil {
		return nil, err
	}
	opts := match.Options{
		VerifyLeaves:   cfg.GetBool(config.ConfigExhaustiveLeafCheck),
		MaxMemoEntries: match.MemoLimitFromMemory(cfg.GetFloat64(config.ConfigMemoMemoryFraction)),
	}
	return &Game{
		board:      b,
		hash:       hasher.Hash(b),
		policy:     policy,
		searcher:   match.NewSearcher(opts),
		movesCache: cache.New[[]*moves.ShapeMatches](cfg.GetInt(config.ConfigMovesCacheSize)),
	}, nil
}

// Board returns a copy of the current board.
func (g *Game) Board() *board.Board {
	return g.board.Copy()
}

func (g *Game) Seed() uint64 {
	return g.seed
}

func (g *Game) Hash() uint64 {
	return g.hash
}

// Congruent reports whether the selections could be matched.
func (g *Game) Congruent(selections ...bitboard.BitBoard) bool {
	return match.Congruent(g.board, selections...)
}

// OtherMatches lists the placements of the first selection's pattern that
// avoid every selection.
func (g *Game) OtherMatches(selections ...bitboard.BitBoard) []bitboard.BitBoard {
	return match.FindOtherMatches(g.board, selections)
}

func (g *Game) validate(selections []bitboard.BitBoard) ([]bitboard.BitBoard, error) {
	var sels []bitboard.BitBoard
	for _, s := range selections {
		if !s.IsEmpty() {
			sels = append(sels, s)
		}
	}
	if len(sels) < 2 {
		return nil, ErrTooFewSelections
	}
	if sels[0].Count() < MinimumSelection {
		return nil, ErrSelectionTooSmall
	}
	mask := g.board.Mask()
	var seen bitboard.BitBoard
	for _, s := range sels {
		if !mask.Contains(s) {
			return nil, ErrEmptyCell
		}
		if !s.Connected() {
			return nil, ErrDisconnected
		}
		if seen.Intersects(s) {
			return nil, ErrOverlap
		}
		seen = seen.Or(s)
	}
	if !match.Congruent(g.board, sels...) {
		return nil, ErrNotCongruent
	}
	return sels, nil
}

// TryMatch attempts to match the selections. Empty selections are ignored.
// If another placement of the pattern remains, the outcome is Incomplete
// and those placements are returned; the board is left unchanged.
func (g *Game) TryMatch(selections ...bitboard.BitBoard) (Outcome, []bitboard.BitBoard, error) {
	sels, err := g.validate(selections)
	if err != nil {
		return Rejected, nil, err
	}
	if others := match.FindOtherMatches(g.board, sels); len(others) > 0 {
		log.Debug().Int("others", len(others)).Msg("match-incomplete")
		return Incomplete, others, nil
	}

	var cells bitboard.BitBoard
	for _, s := range sels {
		cells = cells.Or(s)
	}
	g.hash = hasher.ClearCells(g.hash, g.board, cells)
	g.board.ClearCells(cells)
	g.provisional = moves.Filter(g.provisional, g.board.Mask())
	log.Debug().Int("cells", cells.Count()).Uint64("hash", g.hash).Msg("matched")
	return Matched, nil, nil
}

// PossibleMoves runs a full search of the current board, or returns the
// cached result for this position.
func (g *Game) PossibleMoves(ctx context.Context) ([]*moves.ShapeMatches, error) {
	groups, err := g.movesCache.Get(g.hash, func(uint64) ([]*moves.ShapeMatches, error) {
		pairs, _, err := g.searcher.Search(ctx, g.board)
		if err != nil {
			return nil, err
		}
		return moves.PossibleMoves(pairs, g.policy), nil
	})
	if err != nil {
		return nil, err
	}
	hits, misses := g.movesCache.Stats()
	log.Debug().Int("cached", g.movesCache.Len()).Int("hits", hits).Int("misses", misses).
		Msg("moves-cache")
	g.provisional = groups
	return groups, nil
}

// ProvisionalMoves returns the last computed moves that are still on the
// board, without searching. Matches made possible by removing cells are
// missing until PossibleMoves runs again.
func (g *Game) ProvisionalMoves() []*moves.ShapeMatches {
	return g.provisional
}

// Hint returns a match from the best group, cycling through the group on
// repeated calls.
func (g *Game) Hint(ctx context.Context) (moves.Match, bool, error) {
	groups, err := g.PossibleMoves(ctx)
	if err != nil || len(groups) == 0 {
		return moves.Match{}, false, err
	}
	best := groups[0]
	m := best.Matches[best.Hinted%len(best.Matches)]
	best.Hinted++
	return m, true, nil
}

// NoMovesLeft reports whether the game is over.
func (g *Game) NoMovesLeft(ctx context.Context) (bool, error) {
	groups, err := g.PossibleMoves(ctx)
	if err != nil {
		return false, err
	}
	return len(groups) == 0, nil
}
