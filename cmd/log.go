package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/envseal/internal/audit"
	"github.com/PolarWolf314/envseal/internal/ui"
	"github.com/PolarWolf314/envseal/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logKey       string
	logFile      string
	logOperation string
	logFailed    bool
	logSince     string
	logUntil     string
	logOneline   bool
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "View the audit log",
		Long: `Displays the audit trail of encrypt and decrypt runs: one entry per
variable, with its file, line, operation and status. Values are never logged.

Examples:
  envseal log                              # Full log
  envseal log -n 10                        # Last 10 entries
  envseal log --reverse                    # Most recent first
  envseal log --key DB_PASSWORD            # One variable
  envseal log --operation decrypted        # Filter by operation
  envseal log --failed --since 2024-01-01  # Failures since a date
  envseal log --json                       # JSON output`,
		Args: cobra.NoArgs,
		RunE: runLog,
	}

	flags := cmd.Flags()
	flags.IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	flags.BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	flags.StringVar(&logKey, "key", "", "filter by variable name")
	flags.StringVar(&logFile, "file", "", "filter by file path")
	flags.StringVar(&logOperation, "operation", "", "filter by operation (encrypted, decrypted, skipped; comma-separated)")
	flags.BoolVar(&logFailed, "failed", false, "show failed outcomes only")
	flags.StringVar(&logSince, "since", "", "show entries after date (YYYY-MM-DD)")
	flags.StringVar(&logUntil, "until", "", "show entries before date (YYYY-MM-DD)")
	flags.BoolVar(&logOneline, "oneline", false, "compact one-line format")
	return cmd
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")

	result, err := workflows.Log(context.Background(), workflows.LogOptions{
		Limit:      logLimit,
		Reverse:    logReverse,
		Key:        logKey,
		File:       logFile,
		Operations: logOperation,
		FailedOnly: logFailed,
		Since:      logSince,
		Until:      logUntil,
	})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), formatError(err))
		return reported(err)
	}

	Logger.Debugf("Parsed %d entries from audit log", result.TotalEntriesBeforeFilter)
	Logger.Debugf("After filtering: %d entries", len(result.Entries))

	out := cmd.OutOrStdout()

	if jsonOutput {
		entries := result.Entries
		if entries == nil {
			entries = []audit.Entry{}
		}
		return printJSON(out, entries)
	}

	if len(result.Entries) == 0 {
		if result.TotalEntriesBeforeFilter == 0 {
			fmt.Fprintln(out, "No audit log entries found.")
		} else {
			fmt.Fprintln(out, "No audit log entries found matching the filters.")
		}
		return nil
	}

	for _, e := range result.Entries {
		if logOneline {
			fmt.Fprintf(out, "%s %s %s:%d %s\n", formatDate(e.Timestamp), e.Operation, e.File, e.Line, e.Key)
			continue
		}
		fmt.Fprintf(out, "%-19s  %-9s  %-7s  %s\n", formatDateTime(e.Timestamp), e.Operation, statusLabel(e.Status), formatLocation(e))
	}
	return nil
}

func statusLabel(status string) string {
	if status == "failed" {
		return ui.Error.Sprint(status)
	}
	return status
}

func formatLocation(e audit.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d %s", e.File, e.Line, e.Key)
	if e.Reason != "" {
		b.WriteString(" " + ui.Muted.Sprint(e.Reason))
	}
	return b.String()
}

func parseTimestamp(ts string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02T15:04:05.000000Z", ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err == nil
}

// formatDateTime renders a timestamp in local time, or returns it unchanged
// if it cannot be parsed.
func formatDateTime(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatDate(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		return ts
	}
	return t.Local().Format("2006-01-02")
}
