package bookings_test

import (
	"context"
	"testing"
	"time"

	"studiobook/internal/bookings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_ReclaimsLapsedHoldsInBackground(t *testing.T) {
	repo := newFakeRepo()

	// The engine clock sits a day behind the wall clock the sweeper uses, so
	// the hold below is already lapsed when the first sweep fires.
	engineNow := time.Now().UTC().Add(-24 * time.Hour)
	svc := newTestService(repo, nil, func() time.Time { return engineNow })
	ctx := context.Background()

	in := validHoldInput()
	in.Date = engineNow.AddDate(0, 0, 7)
	held, err := svc.Hold(ctx, in)
	require.NoError(t, err)

	sweeper := bookings.NewSweeper(svc, &bookings.SweeperConfig{
		Interval:  10 * time.Millisecond,
		BatchSize: 100,
	})
	sweeper.Start(ctx)
	defer sweeper.Stop()

	assert.Eventually(t, func() bool {
		current, err := svc.GetBooking(ctx, held.ID)
		return err == nil && current.Status == bookings.StatusExpired
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSweeper_StopHaltsTheLoop(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, func() time.Time { return baseNow })

	sweeper := bookings.NewSweeper(svc, &bookings.SweeperConfig{
		Interval:  10 * time.Millisecond,
		BatchSize: 100,
	})
	sweeper.Start(context.Background())
	sweeper.Stop()

	// Holds created after Stop are never swept.
	held, err := svc.Hold(context.Background(), validHoldInput())
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	current, err := svc.GetBooking(context.Background(), held.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusHeld, current.Status)
}
