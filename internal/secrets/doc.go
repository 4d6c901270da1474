// Package secrets encrypts and decrypts secret values inside environment
// files.
//
// Unlike whole-file encryption, only the values of sensitive keys are
// replaced, so an encrypted file stays readable, diffable and safe to commit.
//
// # Pipeline
//
// A Coordinator processes a batch of files. For each file a FileEncryptor:
//
//  1. Reads and parses the file into an envfile.Document
//  2. Asks the Resolver to classify every line
//  3. Has the Executor encrypt or decrypt every candidate through the
//     CryptoService, one outcome per variable
//  4. Writes the file atomically, only if something changed
//  5. Records every outcome through an OperationLogger
//
// # Envelopes
//
// An encrypted value is written as
//
//	envseal:v1:<algorithm>:<nonce>:<ciphertext>:<tag>
//
// with binary fields in unpadded URL-safe base64. Each encryption draws a
// fresh random nonce, so the same secret never produces the same envelope.
// Values that already look like envelopes are never encrypted again, which
// makes repeated encrypt runs a no-op.
//
// # Failure Handling
//
// A value that fails to decrypt is reported and left untouched; the rest of
// the file is still processed. A file that cannot be read or written is
// reported in the BatchResult and the rest of the batch continues. Only a
// missing or malformed key aborts a batch.
//
// # Sensitive Keys
//
// Which keys are encrypted is decided by a SensitivityPolicy: an allow-list of
// names, name suffixes, doublestar patterns, and an exclude list. The project
// configures it in .envseal/config.toml.
package secrets
