package bookings

import (
	"context"
	"fmt"
	"time"

	"studiobook/internal/shared/constants"
	"studiobook/pkg/cache"
)

// Availability is the derived read view over the booking store. It answers
// the calendar's two questions — which dates are blacked out, which slots are
// locked — without touching the reservation write path. Reads go through a
// short-TTL cache; the hold conflict check never consults this view.
type Availability struct {
	repo  Repository
	cache cache.Service
}

// NewAvailability creates the read view. cacheService may be nil, in which
// case every read hits the store directly.
func NewAvailability(repo Repository, cacheService cache.Service) *Availability {
	return &Availability{repo: repo, cache: cacheService}
}

// TakenDates returns the ISO dates in [from, to] the calendar should disable.
// A date is taken once it carries an active Full Day booking, or once every
// canonical slot of every session type on it is occupied. Partial-day
// bookings alone leave the date selectable.
func (a *Availability) TakenDates(ctx context.Context, from, to time.Time) ([]string, error) {
	from, to = NormalizeDate(from), NormalizeDate(to)
	key := constants.TakenDatesKey(from.Format("2006-01-02"), to.Format("2006-01-02"))

	var dates []string
	err := a.cached(ctx, key, &dates, func() (interface{}, error) {
		return a.computeTakenDates(ctx, from, to)
	})
	if err != nil {
		return nil, err
	}
	if dates == nil {
		dates = []string{}
	}
	return dates, nil
}

func (a *Availability) computeTakenDates(ctx context.Context, from, to time.Time) ([]string, error) {
	active, err := a.repo.ListActiveInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to scan active bookings: %w", err)
	}

	type occupancy struct {
		fullDay bool
		slots   map[string]bool
	}
	byDate := make(map[string]*occupancy)

	for _, b := range active {
		day := b.Date.Format("2006-01-02")
		occ := byDate[day]
		if occ == nil {
			occ = &occupancy{slots: make(map[string]bool)}
			byDate[day] = occ
		}
		if b.SessionType == SessionFullDay {
			occ.fullDay = true
		}
		if IsCanonicalSlot(b.SessionType, b.TimeSlot) {
			occ.slots[string(b.SessionType)+":"+b.TimeSlot] = true
		}
	}

	taken := []string{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		occ := byDate[day]
		if occ == nil {
			continue
		}
		if occ.fullDay || len(occ.slots) >= TotalCanonicalSlots() {
			taken = append(taken, day)
		}
	}
	return taken, nil
}

// LockedSlots returns the time-slot labels currently held or confirmed for a
// date and session: canonical labels first in catalog order, then any custom
// times in creation order.
func (a *Availability) LockedSlots(ctx context.Context, date time.Time, session SessionType) ([]string, error) {
	date = NormalizeDate(date)
	key := constants.LockedSlotsKey(date.Format("2006-01-02"), string(session))

	var slots []string
	err := a.cached(ctx, key, &slots, func() (interface{}, error) {
		return a.computeLockedSlots(ctx, date, session)
	})
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []string{}
	}
	return slots, nil
}

func (a *Availability) computeLockedSlots(ctx context.Context, date time.Time, session SessionType) ([]string, error) {
	active, err := a.repo.ListActiveByDate(ctx, date, session)
	if err != nil {
		return nil, fmt.Errorf("failed to scan active bookings: %w", err)
	}

	occupied := make(map[string]bool, len(active))
	var custom []string
	for _, b := range active {
		if IsCanonicalSlot(b.SessionType, b.TimeSlot) {
			occupied[b.TimeSlot] = true
		} else {
			custom = append(custom, b.TimeSlot)
		}
	}

	locked := []string{}
	if opt, ok := SessionCatalog(session); ok {
		for _, s := range opt.Slots {
			if occupied[s] {
				locked = append(locked, s)
			}
		}
	}
	return append(locked, custom...), nil
}

// Invalidate drops all cached availability views. Called after every write
// that changes slot occupancy.
func (a *Availability) Invalidate(ctx context.Context) error {
	if a.cache == nil {
		return nil
	}
	return a.cache.DeletePattern(ctx, constants.CachePatternAvailability)
}

// cached runs fetch through the cache-aside helper when a cache is wired,
// straight through otherwise.
func (a *Availability) cached(ctx context.Context, key string, dest *[]string, fetch func() (interface{}, error)) error {
	if a.cache == nil {
		v, err := fetch()
		if err != nil {
			return err
		}
		*dest = v.([]string)
		return nil
	}
	return a.cache.GetOrSet(ctx, key, constants.TTLAvailability, fetch, dest)
}
