// Package workflows provides the high-level operations behind envseal's
// commands.
//
// Each workflow loads the project (configuration, key, audit log), runs the
// secrets pipeline and returns a result struct. The cmd package stays a thin
// layer that parses flags, calls a workflow and renders its result.
//
//   - Init: creates .envseal/config.toml
//   - Keygen: generates a random key
//   - Encrypt, Decrypt: transform environment files in place
//   - Get: reads one decrypted variable without touching the file
//   - Status: reports encrypted and plaintext variables without a key
//   - Log: reads and filters the audit trail
//
// Workflows return sentinel errors from internal/errors, so the CLI can pick
// a message with errors.Is:
//
//	result, err := workflows.Encrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrCryptoConfiguration) {
//	    // Show key setup hint
//	}
//
// Failures of individual files or variables in Encrypt and Decrypt are not
// errors; they are reported in TransformResult.Batch.
package workflows
