package cli

import (
	"os"

	"golang.org/x/term"
)

// isTerminalStream reports whether stream is an *os.File attached to a terminal.
func isTerminalStream(stream any) bool {
	file, ok := stream.(*os.File)
	if !ok || file == nil {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
