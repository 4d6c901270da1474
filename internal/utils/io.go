package utils

import (
	"fmt"
	"io"
	"os"

	kerrors "github.com/PolarWolf314/envseal/internal/errors"
)

// maxStdinKey bounds what --key-stdin will read. Any key encoding envseal
// accepts fits well inside it.
const maxStdinKey = 4096

// ReadStdin reads key material piped to the process. A terminal on stdin, or
// an empty pipe, is reported as ErrKeyMissing.
func ReadStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return nil, fmt.Errorf("%w: nothing piped to stdin", kerrors.ErrKeyMissing)
	}
	return readAll(os.Stdin)
}

func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxStdinKey+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: stdin is empty", kerrors.ErrKeyMissing)
	}
	if len(data) > maxStdinKey {
		return nil, fmt.Errorf("%w: stdin holds more than %d bytes", kerrors.ErrInvalidKeyLength, maxStdinKey)
	}
	return data, nil
}
