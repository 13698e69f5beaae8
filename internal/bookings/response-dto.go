package bookings

// BookingResponse wraps a booking the way the booking page consumes it:
// {"booking": {...}}.
type BookingResponse struct {
	Booking *Booking `json:"booking"`
}
