package bookings

import "time"

// HoldTTL is the fixed window a customer has to pay for a held slot before
// the hold lapses. Fixed at creation, never extended.
const HoldTTL = 2 * time.Hour

// ExpiryFrom maps a hold-creation time to its expiry time.
func ExpiryFrom(createdAt time.Time) time.Time {
	return createdAt.Add(HoldTTL)
}
