package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/snippetbundle/internal/output"
	"github.com/temirov/snippetbundle/internal/types"
)

const (
	treeUse              = "tree [paths...]"
	treeAlias            = "t"
	treeShortDescription = "display the filtered selection tree (" + treeAlias + ")"
	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Show the files and directories that bundle would select for the given paths.
Use --format to select raw, json, or xml output.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Render the selection tree in XML format
  snip tree --format xml ./cmd

  # Inspect two roots without the summary line
  snip tree --summary=false ./internal ./docs`
)

// createTreeCommand returns the tree subcommand.
func createTreeCommand(env *environment) *cobra.Command {
	var outputFormat string
	var summaryEnabled bool

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			runSettings, err := env.loadSettings(command)
			if err != nil {
				return err
			}
			treeConfiguration := runSettings.configuration.Tree
			if !command.Flags().Changed(formatFlagName) && treeConfiguration.Format != "" {
				outputFormat = treeConfiguration.Format
			}
			if !command.Flags().Changed(summaryFlagName) && treeConfiguration.Summary != nil {
				summaryEnabled = *treeConfiguration.Summary
			}
			format, err := normalizeFormat(outputFormat)
			if err != nil {
				return err
			}

			selectionCtx, err := env.newSelectionContext(runSettings, "")
			if err != nil {
				return err
			}
			if err := selectionCtx.addPaths(arguments, command.ErrOrStderr()); err != nil {
				return err
			}
			return env.renderTree(command, selectionCtx, format, summaryEnabled)
		},
	}

	treeCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerBooleanFlag(treeCommand.Flags(), &summaryEnabled, summaryFlagName, true, summaryFlagDescription)
	return treeCommand
}

func (env *environment) renderTree(command *cobra.Command, selectionCtx *selectionContext, format string, summaryEnabled bool) error {
	stdout := command.OutOrStdout()
	selectionOutput := output.BuildSelectionOutput(selectionCtx.store.Snapshot())
	switch format {
	case types.FormatJSON:
		rendered, err := output.RenderJSON(selectionOutput)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, rendered)
	case types.FormatXML:
		rendered, err := output.RenderXML(selectionOutput)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, rendered)
	default:
		styles := output.NewTreeStyles(stdout, env.isTerminal(stdout))
		output.WriteSelectionRaw(stdout, selectionOutput, summaryEnabled, styles)
	}
	return nil
}
