package internal

import "fmt"

// StorageError represents errors accessing the local session database
type StorageError struct {
	Path string
	Op   string // "open", "read", "write"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TransportError represents a failed backend request. Network failures and
// non-2xx statuses are not distinguished; callers treat both as "request
// failed". Status is zero when the request never reached the backend.
type TransportError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport error [%s]: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("transport error [%s]: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError represents a message rejected before any network call
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Reason)
}

// ReconcileError represents errors replaying a session's remote history
type ReconcileError struct {
	SessionID string
	Err       error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconcile error [%s]: %v", e.SessionID, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}
