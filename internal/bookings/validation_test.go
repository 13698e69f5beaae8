package bookings_test

import (
	"testing"
	"time"

	"studiobook/internal/bookings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("iso timestamp from the booking page", func(t *testing.T) {
		got, err := bookings.ParseDate("2026-10-14T18:30:00.000Z")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("bare date", func(t *testing.T) {
		got, err := bookings.ParseDate("2026-10-14")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := bookings.ParseDate("next tuesday")
		require.ErrorIs(t, err, bookings.ErrInvalidInput)
	})
}

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2026, 10, 14, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), bookings.NormalizeDate(in))
}

func TestValidateCustomTime(t *testing.T) {
	valid := []string{
		"7:00 AM",
		"9:00 PM",
		"2:00 PM – 5:00 PM",
		"2:00 PM - 5:00 PM",
		"10:00 AM to 1:00 PM",
		"14:00",
	}
	for _, s := range valid {
		assert.NoError(t, bookings.ValidateCustomTime(s), "expected %q to be accepted", s)
	}

	invalid := []string{
		"",
		"6:30 AM – 9:00 AM",  // starts before opening
		"8:00 PM – 10:00 PM", // ends after closing
		"5:00 PM – 2:00 PM",  // ends before it starts
		"noonish",
	}
	for _, s := range invalid {
		assert.ErrorIs(t, bookings.ValidateCustomTime(s), bookings.ErrInvalidInput, "expected %q to be rejected", s)
	}
}
