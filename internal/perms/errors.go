package perms

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidName       = errors.New("invalid group name")
	ErrInvalidPermission = errors.New("invalid permission string")
	ErrInvalidWeight     = errors.New("invalid group weight")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrProtectedGroup    = errors.New("group is protected")
)

// StorageError wraps a persistence failure so callers can distinguish
// "the mutation did not persist" from a validation failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
