package workflows

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/PolarWolf314/envseal/internal/audit"
	"github.com/PolarWolf314/envseal/internal/configs"
	kerrors "github.com/PolarWolf314/envseal/internal/errors"
	"github.com/PolarWolf314/envseal/internal/utils"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Key filters entries by variable name (case-insensitive).
	Key string

	// File filters entries whose file path contains this text.
	File string

	// Operations filters entries by operation (comma-separated).
	Operations string

	// FailedOnly keeps only failed outcomes.
	FailedOnly bool

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

const entryTimeFormat = "2006-01-02T15:04:05.000000Z"

// Log reads and filters the audit log.
//
// Returns ErrProjectNotInitialized outside a project and ErrInvalidDateFormat
// for a malformed date filter. A project without a log yields no entries.
func Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("initializing project settings: %w", err)
	}

	projectPath := configs.ProjectEnvsealSettings.ProjectPath
	if projectPath == "" {
		return nil, kerrors.ErrProjectNotInitialized
	}

	entries, err := audit.ReadEntries(filepath.Join(projectPath, utils.ProjectDirName, audit.LogFileName))
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	result := &LogResult{TotalEntriesBeforeFilter: len(entries)}

	var filters []func(audit.Entry) bool

	if opts.Key != "" {
		filters = append(filters, func(e audit.Entry) bool { return strings.EqualFold(e.Key, opts.Key) })
	}
	if opts.File != "" {
		filters = append(filters, func(e audit.Entry) bool { return strings.Contains(e.File, opts.File) })
	}
	if opts.Operations != "" {
		ops := make(map[string]bool)
		for _, op := range strings.Split(opts.Operations, ",") {
			ops[strings.ToLower(strings.TrimSpace(op))] = true
		}
		filters = append(filters, func(e audit.Entry) bool { return ops[strings.ToLower(e.Operation)] })
	}
	if opts.FailedOnly {
		filters = append(filters, func(e audit.Entry) bool { return e.Status == "failed" })
	}
	if opts.Since != "" {
		since, err := time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		filters = append(filters, func(e audit.Entry) bool {
			t, ok := entryTime(e)
			return ok && !t.Before(since)
		})
	}
	if opts.Until != "" {
		until, err := time.Parse("2006-01-02", opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		// Include the entire day.
		until = until.Add(24*time.Hour - time.Nanosecond)
		filters = append(filters, func(e audit.Entry) bool {
			t, ok := entryTime(e)
			return ok && !t.After(until)
		})
	}

	filtered := make([]audit.Entry, 0, len(entries))
	for _, e := range entries {
		if matchesAll(e, filters) {
			filtered = append(filtered, e)
		}
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	// The limit keeps the most recent entries in either order.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func matchesAll(e audit.Entry, filters []func(audit.Entry) bool) bool {
	for _, keep := range filters {
		if !keep(e) {
			return false
		}
	}
	return true
}

func entryTime(e audit.Entry) (time.Time, bool) {
	t, err := time.Parse(entryTimeFormat, e.Timestamp)
	if err != nil {
		t, err = time.Parse(time.RFC3339, e.Timestamp)
	}
	return t, err == nil
}
