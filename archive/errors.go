package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned if a file is not a recognised or parseable archive.
	ErrInvalidFormat = errors.New("invalid archive format")

	// ErrUnsupportedOperation is returned if a mutation is not supported by the archive's format.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// EntryError is returned if an operation fails on a specific entry of the archive.
type EntryError struct {
	// Op is the operation being performed such as "extract" or "add".
	Op string
	// Path is the archive path of the entry, or the local path of a file being added.
	Path string
	Err  error
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

func (e *EntryError) Error() string {
	return fmt.Sprintf(`%s "%s" error: %v`, e.Op, e.Path, e.Err)
}

// unsupported returns an error wrapping ErrUnsupportedOperation.
func unsupported(op string, f Format) error {
	return fmt.Errorf("%s on %s archive: %w", op, f, ErrUnsupportedOperation)
}
