package bookings

// CustomerPayload carries customer contact details on a hold request
type CustomerPayload struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// HoldBookingRequest represents the hold request sent by the booking page.
// The date arrives as an ISO timestamp; bookingType uses the wire values
// part|half|full; timeSlot is "custom" when customTime carries the free-text
// time; amount is the client's displayed price, cross-checked server-side.
type HoldBookingRequest struct {
	Date        string          `json:"date" binding:"required"`
	BookingType string          `json:"bookingType" binding:"required,bookingtype"`
	TimeSlot    string          `json:"timeSlot" binding:"required"`
	CustomTime  string          `json:"customTime"`
	Amount      int64           `json:"amount"`
	Customer    CustomerPayload `json:"customer" binding:"required"`
}

// ConfirmBookingRequest carries the payment reference from the checkout
// callback. The reference is re-verified against the provider before the
// booking is confirmed.
type ConfirmBookingRequest struct {
	Reference string `json:"reference" binding:"required"`
}
