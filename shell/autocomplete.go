package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/camelup/camel"
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
	Options []string
	Args    []string
}

var colorNames = func() []string {
	var names []string
	for _, c := range camel.All() {
		names = append(names, c.String())
	}
	return names
}()

var commandMetadata = map[string]CommandMetadata{
	"ev": {
		Options: []string{"-threads", "-cache"},
		Args:    []string{"hist", "log"},
	},
	"bet":  {Args: colorNames},
	"move": {Args: colorNames},
	"set":  {Args: optionKeys},
	"help": {Args: []string{"ev", "load", "script", "set"}},
}

var commandNames = []string{
	"new", "show", "roll", "move", "bet", "ev", "dice", "tickets", "players",
	"load", "save", "set", "script", "help", "exit",
}

var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
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
		case lastCompleteField == "-cache" || (cmdName == "set" && lastCompleteField == "cache"):
			completions = boolValues
		case cmdName == "ev" && lastCompleteField == "hist":
			completions = colorNames
		case cmdName == "ev" && lastCompleteField == "log":
			completions = []string{"off"}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else if len(fields) == 1 || (len(fields) == 2 && !endsWithSpace) {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}
	return matches, len(prefix)
}
