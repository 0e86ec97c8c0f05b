package fmnlib

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed schedule, time or message input.
	ErrValidation = errors.New("invalid reminder")
	// ErrNotFound is returned when an id does not name a stored task.
	ErrNotFound = errors.New("task not found")
	// ErrDuplicateID is returned by Store.Add when the id is already taken.
	ErrDuplicateID = errors.New("duplicate task id")
	// ErrPersistence wraps every failure to read or write the task store.
	ErrPersistence = errors.New("task store unavailable")
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
