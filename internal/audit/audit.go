package audit

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PolarWolf314/envseal/internal/secrets"
)

// LogFileName is the audit log inside the project's .envseal directory.
const LogFileName = "audit.jsonl"

// Entry represents a single audit log entry. It describes what happened to a
// variable, never its value.
type Entry struct {
	Timestamp string `json:"ts"`            // RFC3339 with microseconds.
	RunID     string `json:"run,omitempty"` // Batch the entry belongs to.
	File      string `json:"file"`
	Line      int    `json:"line,omitempty"`
	Key       string `json:"key"`
	Operation string `json:"op"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// Recorder is a thread-safe, append-only accumulator of audit entries. Each
// entry is kept in memory and, if a sink is set, written to it as one JSON
// line.
type Recorder struct {
	mu      sync.Mutex
	sink    io.Writer
	runID   string
	now     func() time.Time
	entries []Entry
}

// NewRecorder returns a recorder writing to sink. A nil sink keeps entries in
// memory only.
func NewRecorder(sink io.Writer) *Recorder {
	return &Recorder{sink: sink, now: time.Now}
}

// SetRunID tags subsequent entries with a batch id.
func (r *Recorder) SetRunID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runID = id
}

// Record appends one entry for outcome. Sink errors are ignored: operations
// should never fail just because audit logging failed.
func (r *Recorder) Record(path string, outcome secrets.VariableOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := Entry{
		Timestamp: r.now().UTC().Format("2006-01-02T15:04:05.000000Z"),
		RunID:     r.runID,
		File:      path,
		Line:      outcome.Line,
		Key:       outcome.Key,
		Operation: string(outcome.Operation),
		Status:    string(outcome.Status),
		Reason:    outcome.Reason,
	}
	r.entries = append(r.entries, entry)

	if r.sink == nil {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = r.sink.Write(append(data, '\n'))
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// OpenLog opens the project audit log for appending, creating it if needed.
func OpenLog(projectDir string) (*os.File, error) {
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		return nil, err
	}
	// #nosec G302 -- audit log should be readable by team members.
	return os.OpenFile(filepath.Join(projectDir, LogFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// ReadEntries reads all entries from the audit log at path.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
