package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/snippetbundle/internal/config"
)

const (
	initUse                = "init"
	initShortDescription   = "write a default configuration file"
	globalFlagDescription  = "write the global configuration instead of the working directory one"
	forceFlagDescription   = "overwrite an existing configuration file"
	initSuccessMessageText = "Configuration written to %s\n"
)

// createInitCommand returns the init subcommand.
func createInitCommand(env *environment) *cobra.Command {
	var globalTarget bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, err := env.resolveWorkingDirectory()
			if err != nil {
				return err
			}
			target := config.InitTargetLocal
			if globalTarget {
				target = config.InitTargetGlobal
			}
			writtenPath, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(command.OutOrStdout(), initSuccessMessageText, writtenPath)
			return nil
		},
	}

	initCommand.Flags().BoolVar(&globalTarget, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
