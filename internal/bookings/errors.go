package bookings

import "errors"

// Error taxonomy for the reservation engine. Callers match with errors.Is;
// the controller maps each to an HTTP status.
var (
	// ErrSlotTaken means another HELD or CONFIRMED booking already occupies
	// the requested (date, session, time slot) tuple.
	ErrSlotTaken = errors.New("time slot is already taken")

	// ErrInvalidInput covers malformed dates, unknown sessions, custom times
	// outside the operating window and missing customer fields.
	ErrInvalidInput = errors.New("invalid booking input")

	// ErrExpired means the hold lapsed before confirmation; the customer must
	// start a new hold.
	ErrExpired = errors.New("hold has expired")

	// ErrNotFound means no booking exists with the given id.
	ErrNotFound = errors.New("booking not found")

	// ErrAlreadyTerminal guards double confirms/cancels against bookings that
	// already reached a terminal status.
	ErrAlreadyTerminal = errors.New("booking is already finalized")

	// ErrPaymentUnverified means the payment provider rejected the reference.
	// The hold is not released; it lapses naturally or by explicit cancel.
	ErrPaymentUnverified = errors.New("payment could not be verified")
)
