package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/sueca/strategy"
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
	Options []string // Available options for this command (e.g., "-n")
	Args    []string // Possible argument values (for non-option arguments)
}

var commandMetadata = map[string]CommandMetadata{
	"show": {
		Args: []string{"text", "raw", "yaml", "json"},
	},
	"play": {
		Options: []string{"-n"},
		Args:    strategy.Names(),
	},
	"set": {
		Args: settingNames,
	},
	"help": {
		Args: []string{"load", "show", "play", "set", "script"},
	},
}

// Common command names for command completion
var commandNames = []string{
	"help", "load", "reload", "show", "play", "strategies", "set", "hash",
	"script", "exit",
}

var settingValues = map[string][]string{
	"strict":   {"on", "off"},
	"dump":     {"off", "yaml", "json"},
	"strategy": strategy.Names(),
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
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
		// position of the argument being completed, 1-based
		argPos := len(fields)
		if !endsWithSpace {
			argPos--
		}

		switch {
		case cmdName == "load" || cmdName == "script":
			completions = fileCompletions(prefix)
		case cmdName == "set" && argPos == 2:
			completions = settingValues[fields[1]]
		default:
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") {
					completions = metadata.Options
				} else if argPos == 1 {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}

// fileCompletions lists the entries of the directory prefix points into.
func fileCompletions(prefix string) []string {
	dir, _ := filepath.Split(prefix)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := dir + e.Name()
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		out = append(out, name)
	}
	return out
}
