// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/snippetbundle/internal/config"
	"github.com/temirov/snippetbundle/internal/filter"
	"github.com/temirov/snippetbundle/internal/fsys"
	"github.com/temirov/snippetbundle/internal/selection"
	"github.com/temirov/snippetbundle/internal/services/clipboard"
	"github.com/temirov/snippetbundle/internal/tokenizer"
	"github.com/temirov/snippetbundle/internal/types"
	"github.com/temirov/snippetbundle/internal/utils"
)

const (
	versionFlagName       = "version"
	configFlagName        = "config"
	verboseFlagName       = "verbose"
	formatFlagName        = "format"
	summaryFlagName       = "summary"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	outputFlagName        = "output"
	outputFlagShorthand   = "o"
	maxCharsFlagName      = "max-chars"
	encodingFlagName      = "encoding"
	globalFlagName        = "global"
	forceFlagName         = "force"
	copyFlagName          = "copy"
	versionTemplate       = "snip version: %s\n"
	defaultPath           = "."
	rootUse               = "snip"
	rootShortDescription  = "snip selects source files and bundles them into Markdown"
	rootLongDescription   = `snip builds a filtered selection of files and directories and renders it
as one Markdown document with a fenced code block per file, ready to paste into an LLM chat.
Use bundle for one-shot output, tree to inspect what would be selected, and session for an interactive selection.`
	versionFlagDescription  = "display application version"
	configFlagDescription   = "path to a configuration file used instead of ./" + utils.ConfigFileName
	verboseFlagDescription  = "log per-file filtering decisions"
	formatFlagDescription   = "output format (raw, json, xml)"
	summaryFlagDescription  = "print a summary line"
	tokensFlagDescription   = "estimate the token count of the bundle"
	modelFlagDescription    = "tokenizer model used for the token estimate"
	outputFlagDescription   = "write the bundle to a file instead of stdout"
	maxCharsFlagDescription = "character budget of the bundle"
	encodingFlagDescription = "IANA charset name used to decode files (default utf-8)"
	copyFlagDescription     = "copy the bundle to the system clipboard"

	invalidFormatMessage        = "Invalid format value '%s'"
	warningSkipPathFormat       = "Warning: skipping %s: %v\n"
	warningTokenCountFormat     = "Warning: failed to count tokens: %v\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	loadConfigurationFormat     = "load configuration: %w"
	loadIgnoreFileFormat        = "load %s: %w"
	errorNoValidPaths           = "no valid paths"
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// environment carries the process collaborators shared by all commands.
type environment struct {
	fileSystem       afero.Fs
	input            io.Reader
	copier           clipboard.Copier
	newCounter       func(tokenizer.Config) (tokenizer.Counter, string, error)
	workingDirectory string
	logger           *zap.Logger
	isTerminal       func(any) bool
}

func newEnvironment(logger *zap.Logger) *environment {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &environment{
		fileSystem: afero.NewOsFs(),
		input:      os.Stdin,
		copier:     clipboard.NewService(logger),
		newCounter: tokenizer.NewCounter,
		logger:     logger,
		isTerminal: isTerminalStream,
	}
}

// Execute runs the snip application.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootCommand := createRootCommand(newEnvironment(logger))
	rootCommand.SetArgs(prepareArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// prepareArguments rewrites space-separated boolean flag values into --flag=value form.
func prepareArguments(rootCommand *cobra.Command, arguments []string) []string {
	return normalizeBooleanFlagArguments(rootCommand, normalizeCopyFlagArguments(arguments))
}

// createRootCommand builds the root Cobra command.
func createRootCommand(env *environment) *cobra.Command {
	var showVersion bool
	var verbose bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if !verbose {
				return nil
			}
			verboseLogger, err := utils.NewApplicationLogger(true)
			if err != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, err)
			}
			env.logger = verboseLogger
			return nil
		},
	}
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().String(configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.AddCommand(
		createBundleCommand(env),
		createTreeCommand(env),
		createSessionCommand(env),
		createInitCommand(env),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// settings is the merged configuration a command runs with.
type settings struct {
	configuration config.ApplicationConfiguration
	rules         filter.Rules
}

func (env *environment) resolveWorkingDirectory() (string, error) {
	if env.workingDirectory != "" {
		return env.workingDirectory, nil
	}
	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, err)
	}
	return workingDirectory, nil
}

// loadSettings merges global and local configuration with the working directory ignore file.
func (env *environment) loadSettings(command *cobra.Command) (settings, error) {
	workingDirectory, err := env.resolveWorkingDirectory()
	if err != nil {
		return settings{}, err
	}
	explicitPath, _ := command.Flags().GetString(configFlagName)
	configuration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: explicitPath,
	})
	if err != nil {
		return settings{}, fmt.Errorf(loadConfigurationFormat, err)
	}

	var ignoreFile config.IgnoreFile
	if configuration.Filter.IgnoreFileEnabled() {
		ignoreFile, err = config.LoadIgnoreFile(filepath.Join(workingDirectory, utils.IgnoreFileName))
		if err != nil {
			return settings{}, fmt.Errorf(loadIgnoreFileFormat, utils.IgnoreFileName, err)
		}
	}
	return settings{configuration: configuration, rules: configuration.Filter.Rules(ignoreFile)}, nil
}

// selectionContext is the provider, filter, and store built for one command run.
type selectionContext struct {
	provider *fsys.Provider
	filter   *filter.Filter
	store    *selection.Store
	resolve  func(string) (fsys.FileHandle, error)
}

func (env *environment) newSelectionContext(runSettings settings, encoding string) (*selectionContext, error) {
	workingDirectory, err := env.resolveWorkingDirectory()
	if err != nil {
		return nil, err
	}
	if encoding == "" {
		encoding = runSettings.configuration.Filter.Encoding
	}
	provider := fsys.NewProvider(env.fileSystem, fsys.Options{Encoding: encoding})
	ignoreFilter := filter.New(runSettings.rules)
	return &selectionContext{
		provider: provider,
		filter:   ignoreFilter,
		store:    selection.NewStore(ignoreFilter, env.logger),
		resolve: func(input string) (fsys.FileHandle, error) {
			return provider.Resolve(absolutePath(workingDirectory, input))
		},
	}, nil
}

// addPaths resolves inputs and adds them to the store, reporting unusable
// paths as warnings. It fails only when no path could be resolved.
func (selectionCtx *selectionContext) addPaths(inputs []string, warnings io.Writer) error {
	if len(inputs) == 0 {
		inputs = []string{defaultPath}
	}
	handles := make([]fsys.FileHandle, 0, len(inputs))
	for _, input := range inputs {
		handle, err := selectionCtx.resolve(input)
		if err != nil {
			fmt.Fprintf(warnings, warningSkipPathFormat, input, err)
			continue
		}
		handles = append(handles, handle)
	}
	if len(handles) == 0 {
		return errors.New(errorNoValidPaths)
	}
	selectionCtx.store.AddFiles(handles)
	return nil
}

func absolutePath(workingDirectory string, input string) string {
	if filepath.IsAbs(input) {
		return filepath.Clean(input)
	}
	return filepath.Join(workingDirectory, input)
}

func normalizeFormat(format string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	if normalized == "" {
		normalized = types.FormatRaw
	}
	if !isSupportedFormat(normalized) {
		return "", fmt.Errorf(invalidFormatMessage, normalized)
	}
	return normalized, nil
}

// newTokenCounter builds a token counter when estimation is enabled.
func (env *environment) newTokenCounter(enabled bool, model string, warnings io.Writer) (tokenizer.Counter, string) {
	if !enabled {
		return nil, ""
	}
	counter, resolvedModel, err := env.newCounter(tokenizer.Config{Model: model})
	if err != nil {
		fmt.Fprintf(warnings, warningTokenCountFormat, err)
		return nil, ""
	}
	return counter, resolvedModel
}
