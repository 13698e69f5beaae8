package notifications

import (
	"time"

	"github.com/google/uuid"
)

// BookingEvent is the lifecycle record published for every booking
// transition. Downstream consumers (email, ops dashboards) key on Type.
type BookingEvent struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"` // booking.held|confirmed|expired|cancelled
	BookingID   uuid.UUID `json:"booking_id"`
	Date        string    `json:"date"`
	SessionType string    `json:"session_type"`
	TimeSlot    string    `json:"time_slot"`
	Status      string    `json:"status"`
	Amount      int64     `json:"amount"`
	Customer    string    `json:"customer_email"`
	OccurredAt  time.Time `json:"occurred_at"`
}
