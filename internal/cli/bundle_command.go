package cli

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/snippetbundle/internal/bundle"
	"github.com/temirov/snippetbundle/internal/config"
	"github.com/temirov/snippetbundle/internal/output"
	"github.com/temirov/snippetbundle/internal/tokenizer"
	"github.com/temirov/snippetbundle/internal/types"
)

const (
	bundleUse              = "bundle [paths...]"
	bundleAlias            = "b"
	bundleShortDescription = "bundle files into Markdown (" + bundleAlias + ")"
	// bundleLongDescription provides detailed help for the bundle command.
	bundleLongDescription = `Collect every selectable file under the given paths and render one Markdown
document with a heading and fenced code block per file. Ignored directories, oversized and
binary files are skipped. Output stops with a truncation marker once the character budget is spent.`
	// bundleUsageExample demonstrates bundle command usage.
	bundleUsageExample = `  # Bundle the current directory to stdout
  snip bundle

  # Bundle two packages into the clipboard with a token estimate
  snip bundle --copy --tokens ./internal/fsys ./internal/filter

  # Write the bundle to a file with a smaller budget
  snip bundle -o context.md --max-chars 200000 .`

	outputFilePermissions = 0o644
	writeOutputFormat     = "write bundle to %s: %w"
	copyBundleFormat      = "copy bundle: %w"
)

// bundleOptions holds the flag values of the bundle command.
type bundleOptions struct {
	copyToClipboard bool
	outputPath      string
	summary         bool
	tokens          bool
	model           string
	maxChars        int
	encoding        string
}

// applyConfiguration fills every option whose flag was not given explicitly.
func (options *bundleOptions) applyConfiguration(flagSet *pflag.FlagSet, configuration config.BundleConfiguration) {
	if !flagSet.Changed(copyFlagName) && configuration.Clipboard != nil {
		options.copyToClipboard = *configuration.Clipboard
	}
	if !flagSet.Changed(summaryFlagName) && configuration.Summary != nil {
		options.summary = *configuration.Summary
	}
	if !flagSet.Changed(tokensFlagName) && configuration.Tokens.Enabled != nil {
		options.tokens = *configuration.Tokens.Enabled
	}
	if !flagSet.Changed(modelFlagName) && configuration.Tokens.Model != "" {
		options.model = configuration.Tokens.Model
	}
	if !flagSet.Changed(maxCharsFlagName) && configuration.MaxTotalChars != nil {
		options.maxChars = *configuration.MaxTotalChars
	}
}

// createBundleCommand returns the bundle subcommand.
func createBundleCommand(env *environment) *cobra.Command {
	var options bundleOptions

	bundleCommand := &cobra.Command{
		Use:     bundleUse,
		Aliases: []string{bundleAlias},
		Short:   bundleShortDescription,
		Long:    bundleLongDescription,
		Example: bundleUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			runSettings, err := env.loadSettings(command)
			if err != nil {
				return err
			}
			options.applyConfiguration(command.Flags(), runSettings.configuration.Bundle)
			return env.runBundle(command, arguments, runSettings, options)
		},
	}

	registerCopyFlag(bundleCommand.Flags(), &options.copyToClipboard)
	bundleCommand.Flags().StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, "", outputFlagDescription)
	registerBooleanFlag(bundleCommand.Flags(), &options.summary, summaryFlagName, true, summaryFlagDescription)
	registerBooleanFlag(bundleCommand.Flags(), &options.tokens, tokensFlagName, false, tokensFlagDescription)
	bundleCommand.Flags().StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	bundleCommand.Flags().IntVar(&options.maxChars, maxCharsFlagName, bundle.DefaultMaxTotalChars, maxCharsFlagDescription)
	bundleCommand.Flags().StringVar(&options.encoding, encodingFlagName, "", encodingFlagDescription)
	return bundleCommand
}

func (env *environment) runBundle(command *cobra.Command, paths []string, runSettings settings, options bundleOptions) error {
	stdout := command.OutOrStdout()
	stderr := command.ErrOrStderr()

	selectionCtx, err := env.newSelectionContext(runSettings, options.encoding)
	if err != nil {
		return err
	}
	if err := selectionCtx.addPaths(paths, stderr); err != nil {
		return err
	}

	bundler := bundle.New(bundle.Options{
		MaxTotalChars: options.maxChars,
		Classifier:    selectionCtx.filter,
		Logger:        env.logger,
	})
	document, result := bundler.Bundle(selectionCtx.store.Snapshot())
	env.logger.Debug("bundle produced",
		zap.Int("copied", result.CopiedFiles),
		zap.Int("skippedIgnored", result.SkippedIgnored),
		zap.Int("skippedBinary", result.SkippedBinary),
		zap.Bool("truncated", result.Truncated))

	report := output.NewBundleReport(result)
	if counter, model := env.newTokenCounter(options.tokens, options.model, stderr); counter != nil {
		estimate, estimateErr := tokenizer.EstimateDocument(counter, model, document)
		if estimateErr != nil {
			fmt.Fprintf(stderr, warningTokenCountFormat, estimateErr)
		} else {
			report.Tokens = estimate.Tokens
			report.Model = estimate.Model
		}
	}

	if err := env.deliverBundle(stdout, document, options, &report); err != nil {
		return err
	}
	if options.summary {
		fmt.Fprintln(stderr, output.FormatBundleReport(report))
	}
	return nil
}

// deliverBundle writes the document to the output file or stdout and optionally the clipboard.
func (env *environment) deliverBundle(stdout io.Writer, document string, options bundleOptions, report *types.BundleReport) error {
	if options.outputPath != "" {
		workingDirectory, err := env.resolveWorkingDirectory()
		if err != nil {
			return err
		}
		destination := absolutePath(workingDirectory, options.outputPath)
		if err := afero.WriteFile(env.fileSystem, destination, []byte(document), outputFilePermissions); err != nil {
			return fmt.Errorf(writeOutputFormat, destination, err)
		}
		report.Destination = destination
	} else {
		fmt.Fprintln(stdout, document)
	}

	if options.copyToClipboard {
		if err := env.copier.Copy(document); err != nil {
			return fmt.Errorf(copyBundleFormat, err)
		}
		if report.Destination == "" {
			report.Destination = output.ClipboardDestination
		}
	}
	return nil
}
