// Package errors provides typed error values for the envseal application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
// Errors are grouped by how far they propagate:
//
//   - Crypto configuration errors: a missing or malformed key. Fatal for the
//     whole batch (ErrCryptoConfiguration, ErrKeyMissing, ErrInvalidKeyLength).
//   - Variable errors: one value failed to decrypt. Recorded as a failed
//     outcome, never raised past the executor (ErrDecryption).
//   - File errors: one file could not be read, parsed or written. Fatal for
//     that file, reported in the batch summary (ErrFileAccess, ErrFileFormat,
//     ErrFileWrite).
//   - Project errors: configuration state (ErrProjectNotInitialized).
//
// # Usage
//
// Wrap a sentinel with context:
//
//	return fmt.Errorf("%w: %s: %v", kerrors.ErrFileAccess, path, err)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrCryptoConfiguration) {
//	    // Show key setup hint
//	}
package errors
