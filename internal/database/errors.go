package database

import "errors"

// Sentinel errors surfaced by repositories so handlers can map them to
// precise HTTP statuses instead of a blanket 500.
var (
	// ErrTripFull is returned when a booking insert finds no free seat
	// counter to claim (reserved == seats).
	ErrTripFull = errors.New("trip is fully booked")

	// ErrSeatTaken is returned when the seat is already claimed by a
	// non-cancelled booking on the same trip.
	ErrSeatTaken = errors.New("seat already taken")

	// ErrAlreadyCancelled is returned when cancelling a booking that is
	// already cancelled.
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrAlreadyVerified is returned when verifying a payment record whose
	// verification status was already set.
	ErrAlreadyVerified = errors.New("payment already verified")
)
