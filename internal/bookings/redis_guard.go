package bookings

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"studiobook/internal/shared/constants"
)

// SlotGuard is a Redis fast-path in front of the booking store. It rejects
// most concurrent grabs for a hot slot before they reach Postgres; the
// partial unique index in the store stays authoritative, so losing the guard
// (Redis down, key evicted) can never cause a double booking.
type SlotGuard struct {
	redis *redis.Client
}

// NewSlotGuard creates a guard over the given Redis client.
func NewSlotGuard(redisClient *redis.Client) *SlotGuard {
	return &SlotGuard{redis: redisClient}
}

// Lua script for atomic slot acquisition - prevents race conditions
const luaAcquireSlot = `
-- KEYS[1] = slot key
-- ARGV[1] = booking_id
-- ARGV[2] = ttl_seconds

local slot_key = KEYS[1]
local booking_id = ARGV[1]
local ttl = tonumber(ARGV[2])

local holder = redis.call("GET", slot_key)
if holder then
    if holder == booking_id then
        return {1, "already_held"}
    end
    return {0, holder}
end

redis.call("SETEX", slot_key, ttl, booking_id)
return {1, "acquired"}
`

// Lua script for slot release - only the holding booking may release
const luaReleaseSlot = `
-- KEYS[1] = slot key
-- ARGV[1] = booking_id

local slot_key = KEYS[1]
local booking_id = ARGV[1]

local holder = redis.call("GET", slot_key)
if not holder then
    return {1, "not_held"}
end
if holder ~= booking_id then
    return {0, holder}
end

redis.call("DEL", slot_key)
return {1, "released"}
`

// Acquire atomically claims a slot key for a booking with the hold TTL.
// Returns false when another booking already holds the slot.
func (g *SlotGuard) Acquire(ctx context.Context, slotKey, bookingID string, ttl time.Duration) (bool, error) {
	if g == nil || g.redis == nil {
		return false, fmt.Errorf("redis client not available")
	}

	keys := []string{constants.SlotGuardKey(slotKey)}
	args := []interface{}{bookingID, strconv.Itoa(int(ttl.Seconds()))}

	result, err := g.redis.EvalSha(ctx, luaAcquireSlot, keys, args...).Result()
	if err != nil {
		// If script is not loaded, try to load and execute
		result, err = g.redis.Eval(ctx, luaAcquireSlot, keys, args...).Result()
		if err != nil {
			return false, fmt.Errorf("failed to execute slot acquire: %w", err)
		}
	}

	success, _, err := parseGuardResult(result)
	if err != nil {
		return false, err
	}
	return success, nil
}

// Release frees a slot key held by the given booking. Releasing a slot held
// by a different booking is a no-op failure, not an error.
func (g *SlotGuard) Release(ctx context.Context, slotKey, bookingID string) error {
	if g == nil || g.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	keys := []string{constants.SlotGuardKey(slotKey)}

	result, err := g.redis.EvalSha(ctx, luaReleaseSlot, keys, bookingID).Result()
	if err != nil {
		result, err = g.redis.Eval(ctx, luaReleaseSlot, keys, bookingID).Result()
		if err != nil {
			return fmt.Errorf("failed to execute slot release: %w", err)
		}
	}

	_, _, err = parseGuardResult(result)
	return err
}

// PreloadScripts loads the Lua scripts into Redis for better performance
func (g *SlotGuard) PreloadScripts(ctx context.Context) error {
	if g == nil || g.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	if _, err := g.redis.ScriptLoad(ctx, luaAcquireSlot).Result(); err != nil {
		return fmt.Errorf("failed to load slot acquire script: %w", err)
	}
	if _, err := g.redis.ScriptLoad(ctx, luaReleaseSlot).Result(); err != nil {
		return fmt.Errorf("failed to load slot release script: %w", err)
	}
	return nil
}

func parseGuardResult(result interface{}) (bool, string, error) {
	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return false, "", fmt.Errorf("unexpected result format from Lua script")
	}

	success, ok := resultArray[0].(int64)
	if !ok {
		return false, "", fmt.Errorf("invalid success flag in Lua script result")
	}

	detail, _ := resultArray[1].(string)
	return success == 1, detail, nil
}
