package database

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDriver is returned by Open for drivers other than sqlite
// and postgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// StorageError reports a failure of the underlying store. Unlike missing
// keys, which yield empty results, a StorageError must be propagated.
type StorageError struct {
	// Op names the IndexDB operation that failed.
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
