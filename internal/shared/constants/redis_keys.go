package constants

import "time"

// Redis key layout and TTLs for the studiobook service.
// Pattern: studiobook:{concern}:{identifier}

const CachePrefix = "studiobook"

// Availability view cache (derived read model; brief staleness acceptable)
const (
	CacheKeyTakenDates       = CachePrefix + ":availability:taken" // + :from:to
	CacheKeyLockedSlots      = CachePrefix + ":availability:slots" // + :date:session
	CachePatternAvailability = CachePrefix + ":availability:*"

	TTLAvailability = 30 * time.Second
)

// Slot guard keys mirror a hold's lifetime in Redis
const slotGuardPrefix = CachePrefix + ":slot:"

// Rate limiter key prefix
const RateLimitPrefix = CachePrefix + ":ratelimit"

// SlotGuardKey builds the guard key for a slot tuple key.
func SlotGuardKey(slotKey string) string {
	return slotGuardPrefix + slotKey
}

// TakenDatesKey builds the cache key for a taken-dates window.
func TakenDatesKey(from, to string) string {
	return CacheKeyTakenDates + ":" + from + ":" + to
}

// LockedSlotsKey builds the cache key for a date+session slot listing.
func LockedSlotsKey(date, session string) string {
	return CacheKeyLockedSlots + ":" + date + ":" + session
}
