package tracker

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionAlreadyRunning is returned by Start when the ticket already has an open session
	ErrSessionAlreadyRunning = errors.New("a session is already running for this ticket")
	// ErrNoRunningSession is returned by Stop when the ticket has no open session
	ErrNoRunningSession = errors.New("no running session for this ticket")
	// ErrSessionNotFound is returned when the open row to close no longer exists
	ErrSessionNotFound = errors.New("open session not found")
	// ErrInvalidInterval is returned when a session would end before it started
	ErrInvalidInterval = errors.New("session end is before its start")
	// ErrEmptyDescription is returned when an incident has nothing to describe it
	ErrEmptyDescription = errors.New("description is required")
	// ErrValueTooLong is returned when a text field does not fit the storage
	ErrValueTooLong = errors.New("text is too long to store")
	// ErrEmptyTicketID is returned when a session request carries no ticket
	ErrEmptyTicketID = errors.New("ticket ID is required")
)

// StorageWriteError means the backing file could not be written,
// usually because another program holds it open.
type StorageWriteError struct {
	Path string
	Err  error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("cannot save %s: %v (close it in other programs and try again)", e.Path, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

// PermissionError means the backing file or its directory is not writable.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied for %s: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error { return e.Err }

// IsStorageError reports whether err is one of the file access errors.
// Callers keep their form state and let the user retry on these.
func IsStorageError(err error) bool {
	var writeErr *StorageWriteError
	var permErr *PermissionError
	return errors.As(err, &writeErr) || errors.As(err, &permErr)
}
