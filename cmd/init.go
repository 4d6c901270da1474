package cmd

import (
	"context"

	"github.com/PolarWolf314/envseal/internal/ui"
	"github.com/PolarWolf314/envseal/internal/workflows"

	"github.com/spf13/cobra"
)

var initProjectName string

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .envseal/config.toml in the current directory",
		Long: `Creates the .envseal directory with a default configuration, a project
UUID and a random salt for passphrase-derived keys.

Edit .envseal/config.toml afterwards to choose which keys are sensitive.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
	cmd.Flags().StringVarP(&initProjectName, "name", "n", "", "project name (defaults to the directory name)")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting init command")
	spinner, cleanup := startSpinner(cmd, "Initializing project...")
	defer cleanup()

	result, err := workflows.Init(context.Background(), workflows.InitOptions{ProjectName: initProjectName})
	if err != nil {
		spinner.FinalMSG = formatError(err)
		return reported(err)
	}
	Logger.Debugf("Created %s for project %s (%s)", result.ConfigPath, result.ProjectName, result.ProjectUUID)

	if jsonOutput {
		spinner.FinalMSG = ""
		return printJSON(cmd.OutOrStdout(), result)
	}

	spinner.FinalMSG = ui.Success.Sprint("✓") + " Initialized envseal project " + ui.Highlight.Sprint(result.ProjectName) + "\n" +
		ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal keygen") + " to create a key, then " +
		ui.Code.Sprint("envseal encrypt") + " to encrypt your .env files"
	return nil
}
