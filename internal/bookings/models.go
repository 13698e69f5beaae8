package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Customer holds the contact details captured with a booking. All three
// fields must be non-empty before a hold is created.
type Customer struct {
	Name  string `gorm:"column:customer_name;type:varchar(120);not null" json:"name"`
	Email string `gorm:"column:customer_email;type:varchar(254);not null" json:"email"`
	Phone string `gorm:"column:customer_phone;type:varchar(32);not null" json:"phone"`
}

// Booking is the sole entity of the reservation engine. A row is created as
// HELD and mutated exactly once, by confirmation, cancellation or the expiry
// sweep. Terminal rows are kept for the availability history and audit.
type Booking struct {
	ID               uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Date             time.Time   `gorm:"type:date;index;not null" json:"date"`
	SessionType      SessionType `gorm:"type:varchar(10);not null" json:"sessionType"`
	TimeSlot         string      `gorm:"type:varchar(60);not null" json:"timeSlot"`
	CustomTime       bool        `gorm:"not null;default:false" json:"customTime"`
	Customer         Customer    `gorm:"embedded" json:"customer"`
	Amount           int64       `gorm:"not null" json:"amount"`
	Status           Status      `gorm:"type:varchar(10);index;not null;check:status IN ('HELD', 'CONFIRMED', 'EXPIRED', 'CANCELLED')" json:"status"`
	PaymentReference string      `gorm:"type:varchar(120)" json:"paymentReference,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
	ExpiresAt        time.Time   `gorm:"index;not null" json:"expiresAt"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) IsHeld() bool {
	return b.Status == StatusHeld
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// IsExpiredAt reports whether a HELD booking's window has lapsed as of now.
// Expiry is data, not a timer: this is the authoritative check.
func (b *Booking) IsExpiredAt(now time.Time) bool {
	return b.Status == StatusHeld && !now.Before(b.ExpiresAt)
}

// SlotKey identifies the unique resource a booking occupies.
func (b *Booking) SlotKey() string {
	return SlotKey(b.Date, b.SessionType, b.TimeSlot)
}

// SlotKey builds the canonical key for a (date, session, time slot) tuple.
func SlotKey(date time.Time, session SessionType, timeSlot string) string {
	return date.Format("2006-01-02") + ":" + string(session) + ":" + timeSlot
}
