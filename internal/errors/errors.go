package errors

import "errors"

// Cryptographic configuration errors are fatal for a whole batch: nothing can
// be encrypted or decrypted without a usable key.
var (
	// ErrCryptoConfiguration indicates the key or cipher setup is unusable.
	ErrCryptoConfiguration = errors.New("invalid crypto configuration")

	// ErrKeyMissing indicates no encryption key was supplied.
	ErrKeyMissing = errors.New("encryption key not provided")

	// ErrInvalidKeyLength indicates the symmetric key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")

	// ErrUnknownAlgorithm indicates the configured cipher is not supported.
	ErrUnknownAlgorithm = errors.New("unknown encryption algorithm")
)

// Variable errors are recovered per variable and reported as failed outcomes.
var (
	// ErrDecryption indicates an envelope could not be decrypted: it is
	// malformed, uses an unknown algorithm, or failed authentication.
	ErrDecryption = errors.New("failed to decrypt value")

	// ErrEncryption indicates a value could not be sealed.
	ErrEncryption = errors.New("failed to encrypt value")

	// ErrVariableNotFound indicates the requested variable is not defined.
	ErrVariableNotFound = errors.New("variable not found")
)

// File errors abort the affected file only. Other files in a batch continue.
var (
	// ErrFileAccess indicates a file is missing or unreadable.
	ErrFileAccess = errors.New("cannot access file")

	// ErrFileFormat indicates a file is not valid UTF-8 text.
	ErrFileFormat = errors.New("invalid file encoding")

	// ErrFileWrite indicates the rewritten file could not be persisted.
	ErrFileWrite = errors.New("failed to write file")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrKeyFileExists indicates keygen would overwrite an existing key file.
	ErrKeyFileExists = errors.New("key file already exists")
)

// ErrInvalidDateFormat indicates a date filter is not in YYYY-MM-DD format.
var ErrInvalidDateFormat = errors.New("invalid date format")

// Project state errors indicate issues with project configuration or initialization.
var (
	// ErrProjectNotInitialized indicates the project has no .envseal directory.
	ErrProjectNotInitialized = errors.New("project has not been initialized")

	// ErrProjectAlreadyInitialized indicates the project has already been set up.
	ErrProjectAlreadyInitialized = errors.New("project has already been initialized")

	// ErrInvalidConfig indicates the project configuration is malformed.
	ErrInvalidConfig = errors.New("project configuration is invalid")
)

// ErrBatchFailed indicates at least one file or variable in a batch failed.
// The CLI returns it so the process exits non-zero.
var ErrBatchFailed = errors.New("one or more operations failed")
