package explorer

import (
	"errors"
	"fmt"
)

// ErrBroadcastRejected is returned when the backend refuses to relay a
// transaction.
var ErrBroadcastRejected = errors.New("transaction rejected by the network")

// BroadcastError carries the backend's rejection message verbatim.
type BroadcastError struct {
	StatusCode int
	Message    string
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("%s: %s", ErrBroadcastRejected, e.Message)
}

func (e *BroadcastError) Unwrap() error {
	return ErrBroadcastRejected
}

// ErrServiceUnavailable is returned when the explorer can't be reached or
// answers with a server error.
var ErrServiceUnavailable = errors.New("explorer service unavailable")

// ErrTransactionNotFound is returned when the explorer doesn't know the
// requested tx.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrUnknownFeeSpeed ...
var ErrUnknownFeeSpeed = errors.New("unknown fee speed")
