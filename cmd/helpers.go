package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/ui"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner shows a spinner on stderr unless running verbose, debug or
// with --json. FinalMSG does not need a trailing newline; the cleanup
// function prints it to the command's stdout.
func startSpinner(cmd *cobra.Command, message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug && !jsonOutput
	if quiet {
		s.Start()
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(cmd.OutOrStdout(), finalMsg)
		}
	}

	return s, cleanup
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// formatError turns a workflow error into a user-facing message with a hint
// where one helps.
func formatError(err error) string {
	cross := ui.Error.Sprint("✗") + " "
	hint := "\n" + ui.Info.Sprint("→") + " "

	switch {
	case errors.Is(err, kerrors.ErrKeyMissing):
		return cross + "No encryption key found" +
			hint + "Set " + ui.Code.Sprint("ENVSEAL_KEY") + ", pass " + ui.Flag.Sprint("--key-file") +
			" or " + ui.Flag.Sprint("--key-stdin") + ", or create one with " + ui.Code.Sprint("envseal keygen")

	case errors.Is(err, kerrors.ErrCryptoConfiguration):
		return cross + "Encryption key is unusable: " + err.Error() +
			hint + "Keys are 32 bytes, encoded as base64 or hex"

	case errors.Is(err, kerrors.ErrProjectNotInitialized):
		return cross + "envseal has not been initialized" +
			hint + "Run " + ui.Code.Sprint("envseal init") + " first"

	case errors.Is(err, kerrors.ErrProjectAlreadyInitialized):
		return cross + "envseal is already initialized in this directory" +
			hint + "Edit " + ui.Path.Sprint(".envseal/config.toml") + " to change settings"

	case errors.Is(err, kerrors.ErrInvalidConfig):
		return cross + err.Error()

	case errors.Is(err, kerrors.ErrNoFilesFound):
		return cross + "No environment files found"

	default:
		return cross + err.Error()
	}
}
