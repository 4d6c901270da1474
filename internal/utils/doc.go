// Package utils provides shared helpers for envseal.
//
// # Filesystem
//
//   - FindProjectRoot: walks up directories to find .envseal
//   - WriteFileAtomic: replaces a file through a temporary file and rename
//
// # Terminal and I/O
//
//   - ReadPassphrase, CanPrompt: hidden passphrase prompt
//   - ReadStdin: reads piped key material
//   - FormatPaths, RelativePath: path rendering for CLI output
package utils
