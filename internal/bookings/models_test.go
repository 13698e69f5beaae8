package bookings_test

import (
	"testing"
	"time"

	"studiobook/internal/bookings"

	"github.com/stretchr/testify/assert"
)

func TestExpiryFrom(t *testing.T) {
	createdAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, createdAt.Add(2*time.Hour), bookings.ExpiryFrom(createdAt))
}

func TestSlotKey(t *testing.T) {
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	key := bookings.SlotKey(date, bookings.SessionPartDay, "1:00 PM–3:00 PM")
	assert.Equal(t, "2026-10-14:part:1:00 PM–3:00 PM", key)
}

func TestBooking_IsExpiredAt(t *testing.T) {
	expiresAt := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	held := bookings.Booking{Status: bookings.StatusHeld, ExpiresAt: expiresAt}

	assert.False(t, held.IsExpiredAt(expiresAt.Add(-time.Second)))
	assert.True(t, held.IsExpiredAt(expiresAt)) // boundary counts as lapsed
	assert.True(t, held.IsExpiredAt(expiresAt.Add(time.Second)))

	// Confirmed bookings never expire, no matter the clock.
	confirmed := bookings.Booking{Status: bookings.StatusConfirmed, ExpiresAt: expiresAt}
	assert.False(t, confirmed.IsExpiredAt(expiresAt.Add(time.Hour)))
}
