package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	copyFlagTypeName            = "copy"
	invalidCopyFlagValueMessage = "invalid copy flag value '%s'"
	argumentTerminator          = "--"
)

// copyFlagCommandNames lists the snip subcommands and aliases. A word from this
// set following --copy is a command, never the flag's value.
var copyFlagCommandNames = map[string]struct{}{
	"bundle":  {},
	"b":       {},
	"tree":    {},
	"t":       {},
	"session": {},
	"s":       {},
	"init":    {},
}

func isCopyFlagCommand(argument string) bool {
	_, known := copyFlagCommandNames[strings.ToLower(strings.TrimSpace(argument))]
	return known
}

// copyFlagValue backs `snip bundle --copy`. The bundle is still written to
// stdout or --output, and a copy is placed on the system clipboard. The flag
// accepts the same literals as the other boolean flags (`--copy no`,
// `--copy=yes`), and a bare `--copy` means true.
type copyFlagValue struct {
	target *bool
}

func (value *copyFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	parsed, ok := parseBooleanLiteral(input)
	if !ok {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	*value.target = parsed
	return nil
}

func (value *copyFlagValue) String() string {
	return fmt.Sprintf("%t", value != nil && value.target != nil && *value.target)
}

func (value *copyFlagValue) Type() string {
	return copyFlagTypeName
}

// registerCopyFlag adds --copy to flagSet, defaulting target to false.
func registerCopyFlag(flagSet *pflag.FlagSet, target *bool) {
	if flagSet == nil || target == nil {
		return
	}
	*target = false
	flagSet.Var(&copyFlagValue{target: target}, copyFlagName, copyFlagDescription)
	flagSet.Lookup(copyFlagName).NoOptDefVal = "true"
}

// normalizeCopyFlagArguments folds the word after a bare --copy into the flag
// when that word is a boolean literal, so `snip bundle --copy no src` parses.
// Once a subcommand has been seen, a non-literal word after --copy is a path
// and stays positional. Arguments after "--" are left untouched.
func normalizeCopyFlagArguments(arguments []string) []string {
	normalized := make([]string, 0, len(arguments))
	commandSeen := false
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == argumentTerminator {
			return append(normalized, arguments[index:]...)
		}
		if current != "--"+copyFlagName {
			normalized = append(normalized, current)
			if !commandSeen && !strings.HasPrefix(current, "-") && isCopyFlagCommand(current) {
				commandSeen = true
			}
			continue
		}
		replacement, consumed := copyFlagReplacement(arguments[index+1:], commandSeen)
		normalized = append(normalized, replacement)
		index += consumed
	}
	return normalized
}

// copyFlagReplacement rewrites one bare --copy given the arguments after it.
// It reports how many of those arguments the rewritten flag absorbed.
func copyFlagReplacement(following []string, commandSeen bool) (string, int) {
	if len(following) == 0 || strings.HasPrefix(following[0], "-") {
		return fmt.Sprintf("--%s=true", copyFlagName), 0
	}
	next := following[0]
	if parsed, ok := parseBooleanLiteral(next); ok {
		return fmt.Sprintf("--%s=%t", copyFlagName, parsed), 1
	}
	if commandSeen || isCopyFlagCommand(next) {
		return "--" + copyFlagName, 0
	}
	return fmt.Sprintf("--%s=%s", copyFlagName, next), 1
}
