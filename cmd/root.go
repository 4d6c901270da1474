package cmd

import (
	"errors"
	"fmt"
	"io"

	logger "github.com/PolarWolf314/envseal/internal/logging"
	"github.com/PolarWolf314/envseal/internal/ui"
	"github.com/PolarWolf314/envseal/internal/utils"
	"github.com/PolarWolf314/envseal/internal/workflows"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	debug      bool
	keyFile    string
	keyStdin   bool
	jsonOutput bool
	Logger     logger.Logger

	// canPrompt decides whether a passphrase prompt may be shown.
	canPrompt = utils.CanPrompt
)

// NewRootCmd builds the envseal command tree. Flag variables are reset to
// their defaults each time it is called.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "envseal",
		Short: "Encrypt and decrypt secret values inside .env files",
		Long: `envseal encrypts the sensitive values of KEY=value environment files in
place, so the files can be committed, and decrypts them again on demand.

Only values change: comments, ordering, quoting and line endings are kept.
Every change is recorded, without values, in .envseal/audit.jsonl.

The key is read from --key-stdin, --key-file, the environment variable named
in .envseal/config.toml (ENVSEAL_KEY by default), or a passphrase prompt.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.ErrOrStderr(),
				Err:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Running %s with verbose=%t, debug=%t, json=%t", cmd.Name(), verbose, debug, jsonOutput)
		},
	}

	bindGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newInitCmd(),
		newKeygenCmd(),
		newEncryptCmd(),
		newDecryptCmd(),
		newGetCmd(),
		newStatusCmd(),
		newLogCmd(),
	)

	return root
}

func bindGlobalFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&debug, "debug", "d", false, "enable debug output")
	flags.StringVar(&keyFile, "key-file", "", "read the key from this file")
	flags.BoolVar(&keyStdin, "key-stdin", false, "read the key from stdin")
	flags.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	flags.SortFlags = false
}

// reportedError marks an error whose message the command already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}

	var r *reportedError
	if !errors.As(err, &r) {
		fmt.Fprintln(stderr, ui.Error.Sprint("✗")+" "+err.Error())
	}
	return 1
}

// keyOptions collects the key sources given on the command line.
func keyOptions() (workflows.KeyOptions, error) {
	opts := workflows.KeyOptions{KeyFile: keyFile}
	if canPrompt() {
		opts.Prompt = func() ([]byte, error) {
			return utils.ReadPassphrase("Enter passphrase: ")
		}
	}

	if keyStdin {
		Logger.Debugf("Reading key from stdin")
		data, err := utils.ReadStdin()
		if err != nil {
			return opts, err
		}
		opts.KeyData = data
	}

	return opts, nil
}
