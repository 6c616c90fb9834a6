package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrAlreadyExists       = errors.New("entity already exists")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrIncompleteAggregate = errors.New("aggregate is missing required fields")
	ErrInvalidTransition   = errors.New("operation not allowed in current status")
	ErrNotAvailable        = errors.New("offer is not available")
	ErrSelfReservation     = errors.New("provider cannot reserve their own offer")
	ErrWrongCode           = errors.New("pickup code does not match")
	ErrAdmissionLimit      = errors.New("maximum number of active reservations reached")
	ErrLockHeld            = errors.New("another reservation for this user is in flight")

	// Errors surfaced by storage implementations through the repository ports
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrInvalidExecContext = errors.New("invalid transaction handle")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)
