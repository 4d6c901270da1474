package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envseal/internal/workflows"

	"github.com/spf13/cobra"
)

var getFile string

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Print one decrypted variable",
		Long: `Prints the value of NAME from an environment file, decrypting it in memory.
The file is not modified. Quotes are interpreted the way dotenv loaders do.

Examples:
  envseal get DB_PASSWORD
  envseal get PORTAL_PASSWORD -f .env.staging`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}
	cmd.Flags().StringVarP(&getFile, "file", "f", "", "environment file (default .env)")
	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting get command")

	keys, err := keyOptions()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatError(err))
		return reported(err)
	}

	result, err := workflows.Get(context.Background(), workflows.GetOptions{
		Name: args[0],
		File: getFile,
		Key:  keys,
	})
	if err != nil {
		// stdout is reserved for the value.
		fmt.Fprintln(cmd.ErrOrStderr(), formatError(err))
		return reported(err)
	}
	Logger.Debugf("Read %s from %s", result.Name, result.File)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{"name": result.Name, "value": result.Value})
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Value)
	return nil
}
