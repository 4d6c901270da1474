package cmd

import (
	"context"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/ui"
	"github.com/PolarWolf314/envseal/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	statusCheck bool
	statusAll   bool
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [files...]",
		Short: "Show which variables are encrypted",
		Long: `Lists the variables of each environment file and whether they are
encrypted, still plaintext (sensitive but not encrypted) or broken. No key
is needed.

With --check the command exits with status 1 when any sensitive value is in
plaintext, which makes it usable as a pre-commit hook.`,
		RunE: runStatus,
	}
	cmd.Flags().BoolVar(&statusCheck, "check", false, "exit 1 if any sensitive value is not encrypted")
	cmd.Flags().BoolVarP(&statusAll, "all", "a", false, "also list ignored variables")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting status command")
	spinner, cleanup := startSpinner(cmd, "Checking environment files...")
	defer cleanup()

	result, err := workflows.Status(context.Background(), workflows.StatusOptions{FilePatterns: args})
	if err != nil {
		spinner.FinalMSG = formatError(err)
		return reported(err)
	}

	if jsonOutput {
		spinner.FinalMSG = ""
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		spinner.FinalMSG = renderStatus(result)
	}

	if statusCheck && !result.Clean() {
		return reported(kerrors.ErrBatchFailed)
	}
	return nil
}

func renderStatus(result *workflows.StatusResult) string {
	var b strings.Builder

	if result.ProjectName != "" {
		fmt.Fprintf(&b, "Project: %s\n", ui.Highlight.Sprint(result.ProjectName))
	}

	for _, f := range result.Files {
		fmt.Fprintf(&b, "\n%s\n", ui.Path.Sprint(f.Path))
		if f.Error != "" {
			fmt.Fprintf(&b, "  %s %s\n", ui.Mark(false), f.Error)
			continue
		}
		for _, v := range f.Variables {
			if v.State == workflows.StateIgnored && !statusAll {
				continue
			}
			fmt.Fprintf(&b, "  %-4d %-32s %s\n", v.Line, v.Key, ui.State(string(v.State)))
		}
	}

	s := result.Summary
	fmt.Fprintf(&b, "\n%s encrypted, %s plaintext", ui.Count(s.Encrypted, "value"), ui.Count(s.Plaintext, "value"))
	if s.Invalid > 0 {
		fmt.Fprintf(&b, ", %s invalid", ui.Count(s.Invalid, "value"))
	}
	if s.Plaintext > 0 {
		b.WriteString("\n" + ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("envseal encrypt") + " before committing")
	}

	return b.String()
}
