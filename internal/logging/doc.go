// Package logger provides console logging for envseal commands.
//
// Verbosity is controlled by two flags:
//
//   - --verbose: info and warning messages
//   - --debug: everything, including debug details
//
// Without flags only errors and critical warnings are shown.
//
//	Logger.Infof()       // --verbose or --debug
//	Logger.Debugf()      // --debug only
//	Logger.Warnf()       // --verbose or --debug
//	Logger.WarnfAlways() // always
//	Logger.Errorf()      // always
//
// The root command creates the logger in its PersistentPreRun. This is
// separate from the audit trail in package audit, which records every
// variable outcome to .envseal/audit.jsonl.
package logger
