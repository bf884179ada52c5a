package cli

import (
	"github.com/spf13/cobra"

	"github.com/temirov/snippetbundle/internal/bundle"
	"github.com/temirov/snippetbundle/internal/output"
	"github.com/temirov/snippetbundle/internal/session"
	"github.com/temirov/snippetbundle/internal/tokenizer"
)

const (
	sessionUse              = "session [paths...]"
	sessionAlias            = "s"
	sessionShortDescription = "interactively build a selection (" + sessionAlias + ")"
	// sessionLongDescription provides detailed help for the session command.
	sessionLongDescription = `Start a line-oriented shell holding a selection of files and directories.
Paths given on the command line are added before the first prompt. Type help for the list of commands.`
	// sessionUsageExample demonstrates session command usage.
	sessionUsageExample = `  # Start with the current directory selected
  snip session .

  # Start empty and count tokens of every bundle
  snip session --tokens`
)

// createSessionCommand returns the session subcommand.
func createSessionCommand(env *environment) *cobra.Command {
	var tokensEnabled bool
	var model string

	sessionCommand := &cobra.Command{
		Use:     sessionUse,
		Aliases: []string{sessionAlias},
		Short:   sessionShortDescription,
		Long:    sessionLongDescription,
		Example: sessionUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			runSettings, err := env.loadSettings(command)
			if err != nil {
				return err
			}
			bundleConfiguration := runSettings.configuration.Bundle
			if !command.Flags().Changed(tokensFlagName) && bundleConfiguration.Tokens.Enabled != nil {
				tokensEnabled = *bundleConfiguration.Tokens.Enabled
			}
			if !command.Flags().Changed(modelFlagName) && bundleConfiguration.Tokens.Model != "" {
				model = bundleConfiguration.Tokens.Model
			}

			selectionCtx, err := env.newSelectionContext(runSettings, "")
			if err != nil {
				return err
			}
			stdout := command.OutOrStdout()
			if len(arguments) > 0 {
				if err := selectionCtx.addPaths(arguments, command.ErrOrStderr()); err != nil {
					return err
				}
			}

			maxChars := 0
			if bundleConfiguration.MaxTotalChars != nil {
				maxChars = *bundleConfiguration.MaxTotalChars
			}
			counter, resolvedModel := env.newTokenCounter(tokensEnabled, model, command.ErrOrStderr())
			shell := session.NewShell(session.Options{
				Store:   selectionCtx.store,
				Resolve: selectionCtx.resolve,
				Bundler: bundle.New(bundle.Options{
					MaxTotalChars: maxChars,
					Classifier:    selectionCtx.filter,
					Logger:        env.logger,
				}),
				Copier:  env.copier,
				Counter: counter,
				Model:   resolvedModel,
				Input:   env.input,
				Output:  stdout,
				Prompt:  env.isTerminal(env.input) && env.isTerminal(stdout),
				Styles:  output.NewTreeStyles(stdout, env.isTerminal(stdout)),
				Logger:  env.logger,
			})
			return shell.Run(command.Context())
		},
	}

	registerBooleanFlag(sessionCommand.Flags(), &tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	sessionCommand.Flags().StringVar(&model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	return sessionCommand
}
