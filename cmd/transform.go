package cmd

import (
	"context"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/secrets"
	"github.com/PolarWolf314/envseal/internal/ui"
	"github.com/PolarWolf314/envseal/internal/utils"
	"github.com/PolarWolf314/envseal/internal/workflows"

	"github.com/spf13/cobra"
)

var transformDryRun bool

func newEncryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt [files...]",
		Short: "Encrypt sensitive values in environment files in place",
		Long: `Encrypts every sensitive plaintext value in the given files, or in every
environment file in the project when none are given. Arguments may be
files, directories or glob patterns.

Values that are already encrypted are left alone, so running encrypt twice
changes nothing. A value that fails does not stop the others; the command
then exits with status 1.

Examples:
  envseal encrypt                         # All environment files
  envseal encrypt .env.production         # One file
  envseal encrypt "services/**/*.env"     # Glob pattern
  envseal encrypt --dry-run               # List files only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, args, secrets.OperationEncrypt)
		},
	}
	cmd.Flags().BoolVar(&transformDryRun, "dry-run", false, "list the files that would be processed")
	return cmd
}

func newDecryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt [files...]",
		Short: "Decrypt encrypted values in environment files in place",
		Long: `Decrypts every envelope in the given files, or in every environment file
in the project when none are given.

A value that cannot be decrypted (wrong key, tampered or unknown format) is
left unchanged and reported; the other values are still decrypted and the
command exits with status 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, args, secrets.OperationDecrypt)
		},
	}
	cmd.Flags().BoolVar(&transformDryRun, "dry-run", false, "list the files that would be processed")
	return cmd
}

func runTransform(cmd *cobra.Command, args []string, op secrets.Operation) error {
	Logger.Infof("Starting %s command", op)

	keys, err := keyOptions()
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), formatError(err))
		return reported(err)
	}

	spinner, cleanup := startSpinner(cmd, strings.ToUpper(op.String()[:1])+op.String()[1:]+"ing environment files...")
	defer cleanup()

	opts := workflows.TransformOptions{FilePatterns: args, DryRun: transformDryRun, Key: keys}

	var result *workflows.TransformResult
	if op == secrets.OperationEncrypt {
		result, err = workflows.Encrypt(context.Background(), opts)
	} else {
		result, err = workflows.Decrypt(context.Background(), opts)
	}
	if err != nil {
		Logger.Errorf("%s failed: %v", op, err)
		spinner.FinalMSG = formatError(err)
		return reported(err)
	}
	Logger.Debugf("Selected %d files", len(result.Files))

	if result.DryRun {
		spinner.FinalMSG = ui.Warning.Sprint("[dry-run]") + " Would " + op.String() + " " +
			ui.Count(len(result.Files), "file") + ":" + utils.FormatPaths(relativeAll(result.ProjectPath, result.Files))
		return nil
	}

	batch := result.Batch
	if jsonOutput {
		spinner.FinalMSG = ""
		if err := printJSON(cmd.OutOrStdout(), batch); err != nil {
			return err
		}
	} else {
		spinner.FinalMSG = renderBatch(batch, result.ProjectPath)
	}

	if !batch.Succeeded() {
		Logger.Debugf("Batch %s failed: %v", batch.RunID, batch.Err())
		return reported(kerrors.ErrBatchFailed)
	}
	return nil
}

// renderBatch summarises a batch for the terminal. Values never appear, only
// keys, line numbers and reasons.
func renderBatch(batch *secrets.BatchResult, root string) string {
	var b strings.Builder

	verb := "Encrypted"
	if batch.Operation == secrets.OperationDecrypt {
		verb = "Decrypted"
	}

	for _, f := range batch.Files {
		path := ui.Path.Sprint(utils.RelativePath(root, f.Path))
		if f.Err != nil && len(f.Outcomes) == 0 {
			fmt.Fprintf(&b, "%s %s: %s\n", ui.Mark(false), path, f.Err)
			continue
		}

		fmt.Fprintf(&b, "%s %s: %s changed", ui.Mark(f.Succeeded()), path, ui.Count(f.Mutations(), "value"))
		if !f.Rewritten {
			b.WriteString(" " + ui.Muted.Sprint("unchanged"))
		}
		b.WriteString("\n")

		for _, o := range f.Outcomes {
			if o.Status == secrets.StatusFailed {
				fmt.Fprintf(&b, "    %s line %d %s: %s\n", ui.Mark(false), o.Line, ui.Highlight.Sprint(o.Key), o.Reason)
			} else if o.Mutated() {
				Logger.Infof("%s %s:%d %s", o.Operation, f.Path, o.Line, o.Key)
			}
		}
	}

	summary := fmt.Sprintf("%s %s in %s", verb, ui.Count(batch.Mutations(), "value"), ui.Count(len(batch.Files), "file"))
	if batch.Succeeded() {
		b.WriteString(ui.Success.Sprint("✓") + " " + summary)
		if batch.Operation == secrets.OperationEncrypt && batch.Mutations() > 0 {
			b.WriteString("\n" + ui.Info.Sprint("→") + " You can now safely commit the encrypted files")
		}
	} else {
		failedFiles := len(batch.Failed())
		b.WriteString(ui.Error.Sprint("✗") + " " + summary + ", " + ui.Count(failedFiles, "file") + " with errors")
	}

	return b.String()
}

func relativeAll(root string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = utils.RelativePath(root, p)
	}
	return out
}
