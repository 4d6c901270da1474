// Package audit provides the audit trail for envseal operations.
//
// Every variable touched by an encrypt or decrypt run, including the ones that
// were skipped or failed, produces one entry. Entries carry the file, key,
// operation, status and failure reason. They never carry a value, so the log
// is safe to share.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	.envseal/audit.jsonl
//
// # Usage
//
// A Recorder is passed explicitly to the pipeline rather than held as global
// state, so tests can inspect it directly:
//
//	rec := audit.NewRecorder(logFile)
//	encryptor := secrets.NewFileEncryptor(resolver, executor, rec)
//
// # Failure Handling
//
// Audit logging is best-effort. If writing fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
