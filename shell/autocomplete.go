package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/doubledots/config"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-seed")
	Args    []string // Possible argument values (for non-option arguments)
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-colors", "-width", "-height", "-seed"},
	},
	"moves": {
		Options: []string{"-n", "-quick", "-timeout"},
	},
	"hint": {
		Options: []string{"-timeout"},
	},
	"match": {
		Options: []string{"-timeout"},
	},
	"set": {
		Args: settable,
	},
	"help": {
		Args: []string{"selections", "scoring", "script"},
	},
}

var commandNames = []string{
	"help", "new", "show", "load", "save", "moves", "hint", "congruent",
	"others", "match", "set", "script", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	// Parse the line using shellquote to handle quoted strings properly
	fields, err := shellquote.Split(text)
	if err != nil {
		// An open quote is a selection being typed.
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-quick":
			completions = boolValues
		case cmdName == "set" && lastCompleteField == config.ConfigScoringPolicy:
			completions = []string{"size", "clobber-bonus"}
		case cmdName == "set" && lastCompleteField == config.ConfigExhaustiveLeafCheck:
			completions = boolValues
		case strings.HasPrefix(lastCompleteField, "-"):
			// a value is expected; nothing to suggest
			return nil, 0
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else if len(fields) <= 2 {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
