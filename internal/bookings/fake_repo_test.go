package bookings_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"studiobook/internal/bookings"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository with the same atomic semantics as the
// Postgres store: reserve-if-free under one lock, guarded status transitions.
type fakeRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookings.Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*bookings.Booking)}
}

func (f *fakeRepo) Reserve(_ context.Context, b *bookings.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.bookings {
		if existing.Status.IsActive() &&
			existing.Date.Equal(b.Date) &&
			existing.SessionType == b.SessionType &&
			existing.TimeSlot == b.TimeSlot {
			return fmt.Errorf("%w: %s", bookings.ErrSlotTaken, b.SlotKey())
		}
	}

	stored := *b
	f.bookings[b.ID] = &stored
	return nil
}

func (f *fakeRepo) Transition(_ context.Context, id uuid.UUID, from, to bookings.Status, paymentRef string) (*bookings.Booking, error) {
	if !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s is not a valid transition", bookings.ErrAlreadyTerminal, from, to)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", bookings.ErrNotFound, id)
	}
	if b.Status != from {
		return nil, fmt.Errorf("%w: status is %s", bookings.ErrAlreadyTerminal, b.Status)
	}

	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	if paymentRef != "" {
		b.PaymentReference = paymentRef
	}

	out := *b
	return &out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", bookings.ErrNotFound, id)
	}
	out := *b
	return &out, nil
}

func (f *fakeRepo) ListActiveByDate(_ context.Context, date time.Time, session bookings.SessionType) ([]bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	date = bookings.NormalizeDate(date)
	var out []bookings.Booking
	for _, b := range f.bookings {
		if !b.Status.IsActive() || !b.Date.Equal(date) {
			continue
		}
		if session != "" && b.SessionType != session {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) ListActiveInRange(_ context.Context, from, to time.Time) ([]bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	from, to = bookings.NormalizeDate(from), bookings.NormalizeDate(to)
	var out []bookings.Booking
	for _, b := range f.bookings {
		if !b.Status.IsActive() {
			continue
		}
		if b.Date.Before(from) || b.Date.After(to) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) ListExpiredHeld(_ context.Context, asOf time.Time, limit int) ([]bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []bookings.Booking
	for _, b := range f.bookings {
		if b.Status == bookings.StatusHeld && !asOf.Before(b.ExpiresAt) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]bookings.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []bookings.Booking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// recordingNotifier captures published lifecycle events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) PublishBookingEvent(_ context.Context, eventType string, _ *bookings.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
	return nil
}

func (n *recordingNotifier) published() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	copy(out, n.events)
	return out
}
