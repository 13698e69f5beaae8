package bookings_test

import (
	"context"
	"testing"
	"time"

	"studiobook/internal/bookings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holdSlot(t *testing.T, svc bookings.Service, date time.Time, session bookings.SessionType, slot string) *bookings.Booking {
	t.Helper()
	in := bookings.HoldInput{
		Date:        date,
		SessionType: session,
		TimeSlot:    slot,
		Customer: bookings.Customer{
			Name:  "Adaeze Obi",
			Email: "adaeze@example.com",
			Phone: "+2348012345678",
		},
	}
	b, err := svc.Hold(context.Background(), in)
	require.NoError(t, err)
	return b
}

func TestTakenDates_FullDayBookingBlacksOutDate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, func() time.Time { return baseNow })
	index := bookings.NewAvailability(repo, nil)

	date := bookings.NormalizeDate(baseNow.AddDate(0, 0, 3))
	holdSlot(t, svc, date, bookings.SessionFullDay, "7:00 AM")

	taken, err := index.TakenDates(context.Background(), baseNow, baseNow.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{date.Format("2006-01-02")}, taken)
}

func TestTakenDates_PartialBookingsLeaveDateSelectable(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, func() time.Time { return baseNow })
	index := bookings.NewAvailability(repo, nil)

	date := bookings.NormalizeDate(baseNow.AddDate(0, 0, 3))
	holdSlot(t, svc, date, bookings.SessionPartDay, "10:00 AM–12:00 PM")
	holdSlot(t, svc, date, bookings.SessionHalfDay, "1:00 PM–6:00 PM")

	taken, err := index.TakenDates(context.Background(), baseNow, baseNow.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, taken)
}

func TestTakenDates_AllCanonicalSlotsOccupiedBlacksOutDate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, func() time.Time { return baseNow })
	index := bookings.NewAvailability(repo, nil)

	date := bookings.NormalizeDate(baseNow.AddDate(0, 0, 3))
	for _, session := range bookings.SessionTypes() {
		opt, _ := bookings.SessionCatalog(session)
		for _, slot := range opt.Slots {
			holdSlot(t, svc, date, session, slot)
		}
	}

	taken, err := index.TakenDates(context.Background(), baseNow, baseNow.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, []string{date.Format("2006-01-02")}, taken)
}

func TestTakenDates_ExpiredHoldFreesDate(t *testing.T) {
	repo := newFakeRepo()
	now := baseNow
	svc := newTestService(repo, nil, func() time.Time { return now })
	index := bookings.NewAvailability(repo, nil)
	ctx := context.Background()

	date := bookings.NormalizeDate(baseNow.AddDate(0, 0, 3))
	held := holdSlot(t, svc, date, bookings.SessionFullDay, "7:00 AM")

	now = held.ExpiresAt.Add(time.Second)
	_, err := svc.SweepExpired(ctx, now, 100)
	require.NoError(t, err)

	taken, err := index.TakenDates(ctx, baseNow, baseNow.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, taken)
}

func TestLockedSlots_CanonicalOrderThenCustomTimes(t *testing.T) {
	repo := newFakeRepo()
	now := baseNow
	svc := newTestService(repo, nil, func() time.Time { return now })
	index := bookings.NewAvailability(repo, nil)
	ctx := context.Background()

	date := bookings.NormalizeDate(baseNow.AddDate(0, 0, 3))

	// Hold out of catalog order; the view re-sorts canonicals.
	holdSlot(t, svc, date, bookings.SessionPartDay, "4:00 PM–6:00 PM")
	now = now.Add(time.Minute)
	holdSlot(t, svc, date, bookings.SessionPartDay, "10:00 AM–12:00 PM")

	now = now.Add(time.Minute)
	custom := bookings.HoldInput{
		Date:        date,
		SessionType: bookings.SessionPartDay,
		CustomTime:  "7:00 PM – 8:00 PM",
		Customer: bookings.Customer{
			Name:  "Adaeze Obi",
			Email: "adaeze@example.com",
			Phone: "+2348012345678",
		},
	}
	_, err := svc.Hold(ctx, custom)
	require.NoError(t, err)

	locked, err := index.LockedSlots(ctx, date, bookings.SessionPartDay)
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00 AM–12:00 PM", "4:00 PM–6:00 PM", "7:00 PM – 8:00 PM"}, locked)
}

func TestLockedSlots_EmptyForFreeDate(t *testing.T) {
	repo := newFakeRepo()
	index := bookings.NewAvailability(repo, nil)

	locked, err := index.LockedSlots(context.Background(), baseNow, bookings.SessionPartDay)
	require.NoError(t, err)
	assert.Equal(t, []string{}, locked)
}
