package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/envseal/internal/ui"
	"github.com/PolarWolf314/envseal/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	keygenOutput string
	keygenForce  bool
)

func newKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random encryption key",
		Long: `Prints a new random 32 byte key as base64, or writes it to a file with
--output. Store it somewhere safe: values encrypted with it cannot be
recovered without it.

Examples:
  envseal keygen                          # Print a key
  envseal keygen -o .envseal/dev.key      # Write a key file (0600)
  export ENVSEAL_KEY=$(envseal keygen)`,
		Args: cobra.NoArgs,
		RunE: runKeygen,
	}
	cmd.Flags().StringVarP(&keygenOutput, "output", "o", "", "write the key to this file")
	cmd.Flags().BoolVarP(&keygenForce, "force", "f", false, "overwrite an existing key file")
	return cmd
}

func runKeygen(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting keygen command")

	result, err := workflows.Keygen(context.Background(), workflows.KeygenOptions{
		OutputPath: keygenOutput,
		Force:      keygenForce,
	})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), formatError(err))
		return reported(err)
	}

	switch {
	case jsonOutput:
		return printJSON(cmd.OutOrStdout(), map[string]string{"key": result.Key, "path": result.Path})
	case result.Path != "":
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success.Sprint("✓")+" Key written to "+ui.Path.Sprint(result.Path))
	default:
		fmt.Fprintln(cmd.OutOrStdout(), result.Key)
	}
	return nil
}
