package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/board"
	"github.com/domino14/doubledots/config"
	"github.com/domino14/doubledots/game"
	"github.com/domino14/doubledots/moves"
)

const defaultMovesShown = 10

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Uint64Default(key string, defaultU uint64) (uint64, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultU, nil
	}
	return strconv.ParseUint(v[0], 10, 64)
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

// searchContext bounds a search by the -timeout option, if given.
func searchContext(cmd *shellcmd) (context.Context, context.CancelFunc, error) {
	t := cmd.options.String("timeout")
	if t == "" {
		ctx, cancel := context.WithCancel(context.Background())
		return ctx, cancel, nil
	}
	d, err := time.ParseDuration(t)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	return ctx, cancel, nil
}

func (sc *ShellController) display() string {
	return sc.game.Board().DisplaySelections(sc.selections...)
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	nColors, err := cmd.options.IntDefault("colors", sc.config.GetInt(config.ConfigColors))
	if err != nil {
		return nil, err
	}
	width, err := cmd.options.IntDefault("width", sc.config.GetInt(config.ConfigWidth))
	if err != nil {
		return nil, err
	}
	height, err := cmd.options.IntDefault("height", sc.config.GetInt(config.ConfigHeight))
	if err != nil {
		return nil, err
	}
	seed, err := cmd.options.Uint64Default("seed", sc.config.GetUint64(config.ConfigSeed))
	if err != nil {
		return nil, err
	}
	g, err := game.New(sc.config, nColors, width, height, seed)
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.selections = nil
	return msg(fmt.Sprintf("seed %d\n%s", g.Seed(), sc.display())), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) > 0 {
		sels, err := parseSelections(cmd.args)
		if err != nil {
			return nil, err
		}
		sc.selections = sels
	}
	return msg(sc.display()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file.yaml>")
	}
	f, err := os.Open(cmd.args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	b, err := board.LoadYAML(f)
	if err != nil {
		return nil, err
	}
	g, err := game.FromBoard(sc.config, b)
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.selections = nil
	log.Debug().Str("file", cmd.args[0]).Msg("loaded-board")
	return msg(sc.display()), nil
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: save <file.yaml>")
	}
	f, err := os.Create(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.game.Board().WriteYAML(f); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return msg("saved board to " + cmd.args[0]), nil
}

func movesTableHeader() string {
	return "     Size Score Count Shape"
}

func movesTableRow(idx int, g *moves.ShapeMatches) string {
	best := g.Matches[0]
	return fmt.Sprintf("%3d: %-5d%-6d%-6d%s", idx+1, best.Size(), best.Score,
		len(g.Matches), formatSelection(g.Shape))
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	n, err := cmd.options.IntDefault("n", defaultMovesShown)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("-n must be at least 1, got %d", n)
	}
	var groups []*moves.ShapeMatches
	if cmd.options.Bool("quick") {
		groups = sc.game.ProvisionalMoves()
	} else {
		ctx, cancel, err := searchContext(cmd)
		if err != nil {
			return nil, err
		}
		defer cancel()
		groups, err = sc.game.PossibleMoves(ctx)
		if err != nil {
			return nil, err
		}
	}
	if len(groups) == 0 {
		return msg("no moves left"), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d matches in %d shapes\n", moves.Count(groups), len(groups))
	sb.WriteString(movesTableHeader() + "\n")
	for i, g := range groups[:min(n, len(groups))] {
		sb.WriteString(movesTableRow(i, g) + "\n")
	}
	return msg(strings.TrimSuffix(sb.String(), "\n")), nil
}

func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	ctx, cancel, err := searchContext(cmd)
	if err != nil {
		return nil, err
	}
	defer cancel()
	m, ok, err := sc.game.Hint(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return msg("no moves left"), nil
	}
	sc.selections = []bitboard.BitBoard{m.Shape1, m.Shape2}
	return msg(fmt.Sprintf("score %d: %q %q\n%s", m.Score,
		formatSelection(m.Shape1), formatSelection(m.Shape2), sc.display())), nil
}

func (sc *ShellController) congruent(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	sels, err := parseSelections(cmd.args)
	if err != nil {
		return nil, err
	}
	if sc.game.Congruent(sels...) {
		return msg("congruent"), nil
	}
	return msg("not congruent"), nil
}

func (sc *ShellController) others(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	sels, err := parseSelections(cmd.args)
	if err != nil {
		return nil, err
	}
	others := sc.game.OtherMatches(sels...)
	if len(others) == 0 {
		return msg("no other placements"), nil
	}
	sc.selections = append(slices.Clone(sels), others...)
	lines := make([]string, 0, len(others)+1)
	for _, o := range others {
		lines = append(lines, strconv.Quote(formatSelection(o)))
	}
	lines = append(lines, sc.display())
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) match(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	sels, err := parseSelections(cmd.args)
	if err != nil {
		return nil, err
	}
	outcome, others, err := sc.game.TryMatch(sels...)
	if err != nil {
		return nil, err
	}
	switch outcome {
	case game.Incomplete:
		sc.selections = append(slices.Clone(sels), others...)
		return msg(fmt.Sprintf("incomplete: %d other placement(s) remain\n%s",
			len(others), sc.display())), nil
	default:
		sc.selections = nil
		ctx, cancel, err := searchContext(cmd)
		if err != nil {
			return nil, err
		}
		defer cancel()
		over, err := sc.game.NoMovesLeft(ctx)
		if err != nil {
			return nil, err
		}
		text := "matched\n" + sc.display()
		if over {
			text += "\nno moves left; game over"
		}
		return msg(text), nil
	}
}

// settable lists the config keys the set command may change.
var settable = []string{
	config.ConfigColors, config.ConfigWidth, config.ConfigHeight, config.ConfigSeed,
	config.ConfigScoringPolicy, config.ConfigExhaustiveLeafCheck,
	config.ConfigMemoMemoryFraction, config.ConfigMovesCacheSize,
}

func (sc *ShellController) settingsText() string {
	var sb strings.Builder
	sb.WriteString("Settings:\n")
	for _, key := range settable {
		fmt.Fprintf(&sb, "  %s: %v\n", key, sc.config.Get(key))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsText()), nil
	}
	key := cmd.args[0]
	if !slices.Contains(settable, key) {
		return nil, errors.New("no such setting: " + key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%v", sc.config.Get(key))), nil
	}
	value := cmd.args[1]
	if key == config.ConfigScoringPolicy {
		if _, err := moves.ParsePolicy(value); err != nil {
			return nil, err
		}
	}
	sc.config.Set(key, value)
	return msg("set " + key + " to " + value + "; takes effect on the next new or load"), nil
}
