package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/doubledots/bitboard"
	"github.com/domino14/doubledots/config"
	"github.com/domino14/doubledots/game"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game loaded; use `new` or `load` first")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l        *readline.Instance
	config   *config.Config
	execPath string

	game *game.Game
	// selections shown with the board; set by hint, match and others.
	selections []bitboard.BitBoard
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func newController(cfg *config.Config, execPath string) *ShellController {
	return &ShellController{config: cfg, execPath: execPath}
}

func NewShellController(cfg *config.Config, execPath string) *ShellController {
	sc := newController(cfg, execPath)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mdoubledots>\033[0m ",
		HistoryFile:     "/tmp/doubledots-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

// extractFields splits a line into a command, its arguments, and its
// -key value options. Quoted arguments keep their spaces.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := fields[i][1:]
			options[key] = append(options[key], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// parseSelection reads a cell list such as "0,0 1,0 2,0".
func parseSelection(s string) (bitboard.BitBoard, error) {
	var bb bitboard.BitBoard
	for _, cell := range strings.Fields(s) {
		xs, ys, ok := strings.Cut(cell, ",")
		if !ok {
			return bb, fmt.Errorf("cell %q is not of the form x,y", cell)
		}
		x, err := strconv.Atoi(xs)
		if err != nil {
			return bb, err
		}
		y, err := strconv.Atoi(ys)
		if err != nil {
			return bb, err
		}
		if !bitboard.InBounds(x, y) {
			return bb, fmt.Errorf("cell %q is off the board", cell)
		}
		bb = bb.Set(x, y)
	}
	return bb, nil
}

func parseSelections(args []string) ([]bitboard.BitBoard, error) {
	sels := make([]bitboard.BitBoard, 0, len(args))
	for _, a := range args {
		bb, err := parseSelection(a)
		if err != nil {
			return nil, err
		}
		sels = append(sels, bb)
	}
	return sels, nil
}

// formatSelection is the inverse of parseSelection.
func formatSelection(bb bitboard.BitBoard) string {
	var cells []string
	bb.Each(func(x, y int) {
		cells = append(cells, fmt.Sprintf("%d,%d", x, y))
	})
	return strings.Join(cells, " ")
}

func (sc *ShellController) handle(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new", "n":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "load":
		return sc.load(cmd)
	case "save":
		return sc.save(cmd)
	case "moves", "m":
		return sc.moves(cmd)
	case "hint", "h":
		return sc.hint(cmd)
	case "congruent", "c":
		return sc.congruent(cmd)
	case "others", "o":
		return sc.others(cmd)
	case "match":
		return sc.match(cmd)
	case "set":
		return sc.set(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single line, as given on the command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	sc.executeLine(sig, line)
}

// executeLine returns true if the shell should exit.
func (sc *ShellController) executeLine(sig chan os.Signal, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if line == "exit" || line == "bye" {
		sig <- syscall.SIGINT
		return true
	}
	cmd, err := extractFields(line)
	if err != nil {
		sc.showError(err)
		return false
	}
	resp, err := sc.handle(cmd)
	if err != nil {
		sc.showError(err)
	} else if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return false
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if sc.executeLine(sig, line) {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	log.Info().Msg("cleaning up shell")
}
