// bench runs the pair search over a batch of random boards and reports
// timings and the distribution of match sizes.
//
//	bench [-width w] [-height h] [-colors n] [-seed s] [boards]
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/doubledots/config"
	"github.com/domino14/doubledots/game"
	"github.com/domino14/doubledots/match"
	"github.com/domino14/doubledots/moves"
)

const defaultBoards = 20

type result struct {
	seed    uint64
	elapsed time.Duration
	stats   match.Stats
	sizes   map[int]int
	best    moves.Match
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, config.Usage())
		os.Exit(2)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	nBoards := defaultBoards
	if args := cfg.Args(); len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			log.Fatal().Str("arg", args[0]).Msg("number of boards must be a positive integer")
		}
		nBoards = n
	}

	results, err := run(context.Background(), cfg, nBoards)
	if err != nil {
		log.Fatal().Err(err).Msg("bench-failed")
	}
	report(results)
}

func run(ctx context.Context, cfg *config.Config, nBoards int) ([]result, error) {
	searcher := match.NewSearcher(match.Options{
		VerifyLeaves:   cfg.GetBool(config.ConfigExhaustiveLeafCheck),
		MaxMemoEntries: match.MemoLimitFromMemory(cfg.GetFloat64(config.ConfigMemoMemoryFraction)),
	})
	policy, err := moves.ParsePolicy(cfg.GetString(config.ConfigScoringPolicy))
	if err != nil {
		return nil, err
	}
	baseSeed := cfg.GetUint64(config.ConfigSeed)
	nColors := cfg.GetInt(config.ConfigColors)
	width, height := cfg.GetInt(config.ConfigWidth), cfg.GetInt(config.ConfigHeight)

	var mu sync.Mutex
	results := make([]result, 0, nBoards)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < nBoards; i++ {
		seed := uint64(0)
		if baseSeed != 0 {
			seed = baseSeed + uint64(i)
		}
		g.Go(func() error {
			gm, err := game.New(cfg, nColors, width, height, seed)
			if err != nil {
				return err
			}
			ts := time.Now()
			pairs, stats, err := searcher.Search(ctx, gm.Board())
			if err != nil {
				return fmt.Errorf("seed %d: %w", gm.Seed(), err)
			}
			r := result{seed: gm.Seed(), elapsed: time.Since(ts), stats: stats,
				sizes: moves.Histogram(pairs)}
			r.best, _ = moves.Best(moves.PossibleMoves(pairs, policy))
			log.Debug().Uint64("seed", r.seed).Dur("elapsed", r.elapsed).
				Int("pairs", len(pairs)).Msg("searched-board")
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b result) int {
		return cmp.Compare(a.elapsed, b.elapsed)
	})
	return results, nil
}

func report(results []result) {
	secs := lo.Map(results, func(r result, _ int) float64 { return r.elapsed.Seconds() })
	mean, sd := stat.MeanStdDev(secs, nil)
	slowest := results[len(results)-1]

	fmt.Printf("boards searched: %d\n", len(results))
	fmt.Printf("search time: mean %.4fs, stdev %.4fs, slowest %.4fs (seed %d)\n",
		mean, sd, slowest.elapsed.Seconds(), slowest.seed)
	fmt.Printf("analyses: %d, tests: %d, discarded: %d\n",
		lo.SumBy(results, func(r result) int { return r.stats.Analyses }),
		lo.SumBy(results, func(r result) int { return r.stats.Tests }),
		lo.SumBy(results, func(r result) int { return r.stats.Discarded }))

	top := lo.MaxBy(results, func(a, b result) bool { return a.best.Score > b.best.Score })
	fmt.Printf("best move: score %d, size %d (seed %d)\n", top.best.Score, top.best.Size(), top.seed)

	var sizes []float64
	for _, r := range results {
		for size, n := range r.sizes {
			for range n {
				sizes = append(sizes, float64(size))
			}
		}
	}
	if len(sizes) == 0 {
		fmt.Println("no matches found")
		return
	}
	fmt.Printf("matches: %d, mean size %.2f\n", len(sizes), stat.Mean(sizes, nil))
	fmt.Println("match sizes:")
	h := histogram.Hist(10, sizes)
	if err := histogram.Fprint(os.Stdout, h, histogram.Linear(40)); err != nil {
		log.Err(err).Msg("printing-histogram")
	}
}
