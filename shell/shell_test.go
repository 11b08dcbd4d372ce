package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/config"
	"github.com/domino14/doubledots/game"
	"github.com/domino14/doubledots/testhelpers"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"new -seed 42 -colors 3",
			&shellcmd{"new", nil, CmdOptions{"seed": {"42"}, "colors": {"3"}}},
			nil},
		{`match "0,0 1,0 2,0" "4,0 5,0 6,0"`,
			&shellcmd{"match", []string{"0,0 1,0 2,0", "4,0 5,0 6,0"}, CmdOptions{}},
			nil},
		{`moves -n 5 -quick true `,
			&shellcmd{"moves", nil, CmdOptions{"n": {"5"}, "quick": {"true"}}},
			nil},
		{"moves -n", nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestParseSelection(t *testing.T) {
	is := is.New(t)
	bb, err := parseSelection("0,0 1,0  0,1")
	is.NoErr(err)
	is.Equal(bb, bitboard.FromStrings("##", "#"))
	is.Equal(formatSelection(bb), "0,0 1,0 0,1")

	_, err = parseSelection("0,0 16,0")
	is.True(err != nil)
	_, err = parseSelection("0;0")
	is.True(err != nil)
	_, err = parseSelection("a,1")
	is.True(err != nil)
}

func testController(t *testing.T) *ShellController {
	t.Helper()
	sc := newController(config.DefaultConfig(), ".")
	var err error
	sc.game, err = game.FromBoard(sc.config, testhelpers.ThreeLs(t))
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func run(t *testing.T, sc *ShellController, line string) (string, error) {
	t.Helper()
	cmd, err := extractFields(line)
	if err != nil {
		t.Fatal(err)
	}
	r, err := sc.handle(cmd)
	if err != nil {
		return "", err
	}
	return r.message, nil
}

func TestNoGame(t *testing.T) {
	is := is.New(t)
	sc := newController(config.DefaultConfig(), ".")
	for _, line := range []string{"show", "moves", "hint", "save x.yaml", `match "0,0"`} {
		_, err := run(t, sc, line)
		is.Equal(err, errNoGame)
	}
	_, err := run(t, sc, "frobnicate")
	is.True(err != nil)
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	sc := newController(config.DefaultConfig(), ".")
	out, err := run(t, sc, "new -seed 42 -width 6 -height 5 -colors 3")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "seed 42\n"))
	is.Equal(sc.game.Board().Mask().Count(), 30)
	is.Equal(sc.game.Board().NColors(), 3)

	_, err = run(t, sc, "new -width 20")
	is.True(err != nil)
}

func TestMatchFlow(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	out, err := run(t, sc, `congruent "0,0 1,0 0,1" "5,0 6,0 5,1"`)
	is.NoErr(err)
	is.Equal(out, "congruent")
	out, err = run(t, sc, `congruent "0,0 1,0 0,1" "5,0 6,0 6,1"`)
	is.NoErr(err)
	is.Equal(out, "not congruent")

	out, err = run(t, sc, `others "0,0 1,0 0,1" "5,0 6,0 5,1"`)
	is.NoErr(err)
	is.True(strings.HasPrefix(out, `"5,3 6,3 6,4"`))

	out, err = run(t, sc, `match "0,0 1,0 0,1" "5,0 6,0 5,1"`)
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "incomplete: 1 other placement(s) remain"))
	is.Equal(len(sc.selections), 3)

	out, err = run(t, sc, `match "0,0 1,0 0,1" "5,0 6,0 5,1" "5,3 6,3 6,4"`)
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "matched"))
	is.True(strings.HasSuffix(out, "no moves left; game over"))
	is.True(sc.game.Board().Mask().IsEmpty())

	_, err = run(t, sc, `match "0,0 1,0 0,1" "5,0 6,0 5,1"`)
	is.Equal(err, game.ErrEmptyCell)
}

func TestMovesAndHint(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	out, err := run(t, sc, "moves -timeout 1m")
	is.NoErr(err)
	lines := strings.Split(out, "\n")
	is.Equal(lines[0], "3 matches in 1 shapes")
	is.Equal(lines[1], movesTableHeader())
	is.Equal(len(lines), 3)

	out, err = run(t, sc, "hint")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "score "))
	is.Equal(len(sc.selections), 2)

	_, err = run(t, sc, "hint -timeout forever")
	is.True(err != nil)

	out, err = run(t, sc, "moves -quick true")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "3 matches"))

	_, err = run(t, sc, "moves -n -1")
	is.True(err != nil)
	_, err = run(t, sc, "moves -n 0 -quick true")
	is.True(err != nil)
	out, err = run(t, sc, "moves -n 1")
	is.NoErr(err)
	is.Equal(len(strings.Split(out, "\n")), 3)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc := newController(config.DefaultConfig(), ".")
	out, err := run(t, sc, "set")
	is.NoErr(err)
	is.True(strings.Contains(out, "scoring-policy: clobber-bonus"))

	_, err = run(t, sc, "set scoring-policy size")
	is.NoErr(err)
	out, err = run(t, sc, "set scoring-policy")
	is.NoErr(err)
	is.Equal(out, "size")

	_, err = run(t, sc, "set scoring-policy greedy")
	is.True(err != nil)
	_, err = run(t, sc, "set debug true")
	is.True(err != nil)

	_, err = run(t, sc, "set colors 2")
	is.NoErr(err)
	_, err = run(t, sc, "new -seed 3 -width 4 -height 4")
	is.NoErr(err)
	is.Equal(sc.game.Board().NColors(), 2)
}

func TestSaveAndLoad(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	path := filepath.Join(t.TempDir(), "board.yaml")
	_, err := run(t, sc, "save "+path)
	is.NoErr(err)

	other := newController(config.DefaultConfig(), ".")
	_, err = run(t, other, "load "+path)
	is.NoErr(err)
	is.True(other.game.Board().Equal(sc.game.Board()))
	is.Equal(other.game.Hash(), sc.game.Hash())

	_, err = run(t, other, "load "+filepath.Join(t.TempDir(), "missing.yaml"))
	is.True(err != nil)
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc := newController(config.DefaultConfig(), ".")
	dir := t.TempDir()
	path := filepath.Join(dir, "play.lua")
	saved := filepath.Join(dir, "out.yaml")
	script := `
dd_new("-seed 7 -width 5 -height 5 -colors 2")
local out = dd_moves("-n 3")
if dd_no_moves() then
  error("expected moves on a two-color board")
end
dd_save("` + saved + `")
`
	is.NoErr(os.WriteFile(path, []byte(script), 0644))
	out, err := run(t, sc, "script "+path)
	is.NoErr(err)
	is.Equal(out, "ran script "+path)
	is.Equal(sc.game.Seed(), uint64(7))
	_, err = os.Stat(saved)
	is.NoErr(err)

	is.NoErr(os.WriteFile(path, []byte("error('boom')"), 0644))
	_, err = run(t, sc, "script "+path)
	is.True(err != nil)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := newController(config.DefaultConfig(), ".")
	out, err := run(t, sc, "help")
	is.NoErr(err)
	is.True(strings.HasPrefix(out, "Commands:"))
	out, err = run(t, sc, "help scoring")
	is.NoErr(err)
	is.True(strings.Contains(out, "clobber-bonus"))
	out, err = run(t, sc, "help nothing")
	is.NoErr(err)
	is.Equal(out, "There is no help text for the topic nothing")
}

func TestAutocomplete(t *testing.T) {
	is := is.New(t)
	c := NewShellCompleter(newController(config.DefaultConfig(), "."))
	complete := func(text string) []string {
		m, _ := c.Do([]rune(text), len(text))
		var out []string
		for _, r := range m {
			out = append(out, string(r))
		}
		return out
	}
	is.Equal(complete("mo"), []string{"ves"})
	is.Equal(complete("new -s"), []string{"eed"})
	is.Equal(complete("set scoring-policy "), []string{"size", "clobber-bonus"})
	is.Equal(complete("moves -quick t"), []string{"rue"})
	is.Equal(len(complete("new -seed ")), 0)
}
