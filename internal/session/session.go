// Package session implements the interactive selection shell.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/snippetbundle/internal/bundle"
	"github.com/temirov/snippetbundle/internal/fsys"
	"github.com/temirov/snippetbundle/internal/output"
	"github.com/temirov/snippetbundle/internal/selection"
	"github.com/temirov/snippetbundle/internal/services/clipboard"
	"github.com/temirov/snippetbundle/internal/tokenizer"
)

const (
	promptText = "snip> "

	commandAdd         = "add"
	commandRemove      = "remove"
	commandRemoveShort = "rm"
	commandClear       = "clear"
	commandList        = "list"
	commandListShort   = "ls"
	commandBundle      = "bundle"
	commandCopy        = "copy"
	commandHelp        = "help"
	commandQuit        = "quit"
	commandExit        = "exit"

	warningSkippingPathFormat = "Warning: skipping %s: %v\n"
	unknownCommandFormat      = "Unknown command %q; type help for a list of commands\n"
	usageFormat               = "Usage: %s\n"
	notSelectedFormat         = "Not selected: %s\n"
	nothingAddedMessage       = "No new paths added"
	nothingSelectedMessage    = "Nothing selected"
	clipboardMissingMessage   = "Clipboard is not configured"
	copyFailedFormat          = "Error: %v\n"

	helpText = `Commands:
  add <paths...>   add files or directories to the selection
  remove <path>    remove a selected file or directory
  clear            remove everything from the selection
  list             show the selection tree
  bundle           print the Markdown bundle of the selection
  copy             copy the Markdown bundle to the clipboard
  help             show this help
  quit             leave the session`
)

var errQuit = errors.New("session closed")

// PathResolver maps a typed path onto a file handle.
type PathResolver func(input string) (fsys.FileHandle, error)

// Options wires a Shell to its collaborators.
type Options struct {
	Store    *selection.Store
	Resolve  PathResolver
	Bundler  *bundle.Bundler
	Copier   clipboard.Copier
	Counter  tokenizer.Counter
	Model    string
	Input    io.Reader
	Output   io.Writer
	Messages io.Writer
	Prompt   bool
	Styles   output.TreeStyles
	Logger   *zap.Logger
}

// Shell reads commands line by line and applies them to a selection store.
// All store mutations happen on the goroutine that called Run.
type Shell struct {
	options Options
	logger  *zap.Logger
}

// NewShell constructs a Shell. Messages default to Output.
func NewShell(options Options) *Shell {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.Messages == nil {
		options.Messages = options.Output
	}
	return &Shell{options: options, logger: logger}
}

// Run processes commands until the input ends, a quit command is read, or ctx is cancelled.
func (shell *Shell) Run(ctx context.Context) error {
	store := shell.options.Store
	listenerID := store.AddListener(func() {
		fmt.Fprintln(shell.options.Messages, output.FormatSelectionLine(len(store.Snapshot()), store.FileCount()))
	})
	defer store.RemoveListener(listenerID)

	group, sessionCtx := errgroup.WithContext(ctx)
	lines := make(chan string)
	group.Go(func() error {
		defer close(lines)
		return readLines(sessionCtx, shell.options.Input, lines)
	})

	loopErr := shell.loop(sessionCtx, lines)
	if ctx.Err() != nil {
		// The reader may stay blocked on input until the process exits.
		return nil
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if loopErr != nil && !errors.Is(loopErr, errQuit) && !errors.Is(loopErr, context.Canceled) {
		return loopErr
	}
	return nil
}

// loop is the single owner of the store. It applies lines until the channel
// closes, a quit command is read, or ctx is done.
func (shell *Shell) loop(ctx context.Context, lines <-chan string) error {
	shell.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := shell.Execute(line); err != nil {
				return err
			}
			shell.prompt()
		}
	}
}

// readLines forwards input lines until EOF. Reading stops after a quit
// command so the reader never blocks on input nobody will consume.
func readLines(ctx context.Context, input io.Reader, lines chan<- string) error {
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		line := scanner.Text()
		select {
		case <-ctx.Done():
			return nil
		case lines <- line:
		}
		if isQuitCommand(line) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read session input: %w", err)
	}
	return nil
}

func isQuitCommand(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name := strings.ToLower(fields[0])
	return name == commandQuit || name == commandExit
}

func (shell *Shell) prompt() {
	if shell.options.Prompt {
		fmt.Fprint(shell.options.Output, promptText)
	}
}

// Execute applies one command line. It returns errQuit for quit commands.
func (shell *Shell) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	command := strings.ToLower(fields[0])
	arguments := fields[1:]
	shell.logger.Debug("session command", zap.String("command", command), zap.Strings("arguments", arguments))

	switch command {
	case commandAdd:
		shell.add(arguments)
	case commandRemove, commandRemoveShort:
		shell.remove(arguments)
	case commandClear:
		shell.options.Store.ClearAll()
	case commandList, commandListShort:
		selectionOutput := output.BuildSelectionOutput(shell.options.Store.Snapshot())
		output.WriteSelectionRaw(shell.options.Output, selectionOutput, true, shell.options.Styles)
	case commandBundle:
		shell.bundle(false)
	case commandCopy:
		shell.bundle(true)
	case commandHelp:
		fmt.Fprintln(shell.options.Output, helpText)
	case commandQuit, commandExit:
		return errQuit
	default:
		fmt.Fprintf(shell.options.Messages, unknownCommandFormat, command)
	}
	return nil
}

func (shell *Shell) add(arguments []string) {
	if len(arguments) == 0 {
		fmt.Fprintf(shell.options.Messages, usageFormat, "add <paths...>")
		return
	}
	handles := make([]fsys.FileHandle, 0, len(arguments))
	for _, argument := range arguments {
		handle, err := shell.options.Resolve(argument)
		if err != nil {
			fmt.Fprintf(shell.options.Messages, warningSkippingPathFormat, argument, err)
			continue
		}
		handles = append(handles, handle)
	}
	if shell.options.Store.AddFiles(handles) == 0 {
		fmt.Fprintln(shell.options.Messages, nothingAddedMessage)
	}
}

func (shell *Shell) remove(arguments []string) {
	if len(arguments) != 1 {
		fmt.Fprintf(shell.options.Messages, usageFormat, "remove <path>")
		return
	}
	handle, err := shell.options.Resolve(arguments[0])
	if err != nil {
		fmt.Fprintf(shell.options.Messages, warningSkippingPathFormat, arguments[0], err)
		return
	}
	node := shell.options.Store.FindByKey(handle.Key())
	if node == nil {
		fmt.Fprintf(shell.options.Messages, notSelectedFormat, arguments[0])
		return
	}
	shell.options.Store.RemoveNode(node)
}

func (shell *Shell) bundle(toClipboard bool) {
	roots := shell.options.Store.Snapshot()
	if len(roots) == 0 {
		fmt.Fprintln(shell.options.Messages, nothingSelectedMessage)
		return
	}
	if toClipboard && shell.options.Copier == nil {
		fmt.Fprintln(shell.options.Messages, clipboardMissingMessage)
		return
	}

	document, result := shell.options.Bundler.Bundle(roots)
	report := output.NewBundleReport(result)
	if shell.options.Counter != nil {
		estimate, err := tokenizer.EstimateDocument(shell.options.Counter, shell.options.Model, document)
		if err != nil {
			shell.logger.Warn("token estimate failed", zap.Error(err))
		} else {
			report.Tokens = estimate.Tokens
			report.Model = estimate.Model
		}
	}

	if toClipboard {
		if err := shell.options.Copier.Copy(document); err != nil {
			fmt.Fprintf(shell.options.Messages, copyFailedFormat, err)
			return
		}
		report.Destination = output.ClipboardDestination
	} else {
		fmt.Fprintln(shell.options.Output, document)
	}
	fmt.Fprintln(shell.options.Messages, output.FormatBundleReport(report))
}
