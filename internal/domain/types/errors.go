package types

import "errors"

// Caller errors.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidArgument = errors.New("invalid argument")

	ErrNotFound            = errors.New("requested item not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrDriverNotFound      = errors.New("driver not found")
)

// Precondition failures.
var (
	ErrDriverBusy              = errors.New("driver already has an active ride")
	ErrDriverUnavailable       = errors.New("driver is no longer available")
	ErrInsufficientBalance     = errors.New("driver balance is below the required minimum")
	ErrInvalidReservationState = errors.New("reservation cannot change from its current status")
)
