package bookings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Notifier publishes booking lifecycle events for downstream consumers
// (email, ops dashboards). Publish failures never fail the operation.
type Notifier interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking *Booking) error
}

// Lifecycle event types handed to the Notifier.
const (
	EventBookingHeld      = "booking.held"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingExpired   = "booking.expired"
	EventBookingCancelled = "booking.cancelled"
)

// AdvanceWindowMonths bounds how far ahead a session may be booked.
const AdvanceWindowMonths = 3

// HoldInput carries a validated-at-the-edge hold request into the engine.
type HoldInput struct {
	Date        time.Time
	SessionType SessionType
	TimeSlot    string
	CustomTime  string
	Amount      int64 // client-declared; 0 means absent
	Customer    Customer
}

// Service is the reservation engine: the one state machine every booking
// moves through.
type Service interface {
	Hold(ctx context.Context, in HoldInput) (*Booking, error)
	Confirm(ctx context.Context, id uuid.UUID, paymentReference string) (*Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error)

	// SweepExpired transitions every stale hold to EXPIRED and returns how
	// many were reclaimed. Driven by the background sweeper; correctness
	// never depends on it because Confirm checks expiry itself.
	SweepExpired(ctx context.Context, asOf time.Time, batchSize int) (int, error)
}

type service struct {
	repo     Repository
	guard    *SlotGuard    // fast-path conflict rejection; may be nil
	index    *Availability // invalidated on writes; may be nil
	notifier Notifier      // may be nil
	now      func() time.Time
}

// NewService creates the reservation engine. guard, index and notifier are
// optional collaborators.
func NewService(repo Repository, guard *SlotGuard, index *Availability, notifier Notifier) Service {
	return &service{
		repo:     repo,
		guard:    guard,
		index:    index,
		notifier: notifier,
		now:      time.Now,
	}
}

// NewServiceWithClock is NewService with an injectable clock.
func NewServiceWithClock(repo Repository, guard *SlotGuard, index *Availability, notifier Notifier, now func() time.Time) Service {
	s := NewService(repo, guard, index, notifier).(*service)
	s.now = now
	return s
}

// Hold validates the request and atomically reserves the slot. Concurrent
// holds for the same slot yield exactly one HELD booking; losers get
// ErrSlotTaken immediately, no queueing.
func (s *service) Hold(ctx context.Context, in HoldInput) (*Booking, error) {
	opt, ok := SessionCatalog(in.SessionType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown session type %q", ErrInvalidInput, in.SessionType)
	}

	now := s.now().UTC()
	date := NormalizeDate(in.Date)
	today := NormalizeDate(now)
	if date.Before(today) {
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidInput, date.Format("2006-01-02"))
	}
	if date.After(today.AddDate(0, AdvanceWindowMonths, 0)) {
		return nil, fmt.Errorf("%w: date %s is more than %d months ahead", ErrInvalidInput, date.Format("2006-01-02"), AdvanceWindowMonths)
	}

	timeSlot := strings.TrimSpace(in.TimeSlot)
	customTime := strings.TrimSpace(in.CustomTime)
	isCustom := customTime != ""
	if isCustom {
		if err := ValidateCustomTime(customTime); err != nil {
			return nil, err
		}
		timeSlot = customTime
	} else if !IsCanonicalSlot(in.SessionType, timeSlot) {
		return nil, fmt.Errorf("%w: %q is not a %s time slot", ErrInvalidInput, timeSlot, opt.Label)
	}

	if err := validateCustomer(in.Customer); err != nil {
		return nil, err
	}

	// The amount is always derived from the catalog and frozen on the
	// booking. A client-declared amount is only cross-checked.
	if in.Amount != 0 && in.Amount != opt.Amount {
		return nil, fmt.Errorf("%w: amount %d does not match the %s price", ErrInvalidInput, in.Amount, opt.Label)
	}

	booking := &Booking{
		ID:          uuid.New(),
		Date:        date,
		SessionType: in.SessionType,
		TimeSlot:    timeSlot,
		CustomTime:  isCustom,
		Customer:    trimCustomer(in.Customer),
		Amount:      opt.Amount,
		Status:      StatusHeld,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   ExpiryFrom(now),
	}

	// Fast path: a guarded slot means a live hold already exists. Guard
	// errors are advisory only; the store decides.
	if s.guard != nil {
		acquired, err := s.guard.Acquire(ctx, booking.SlotKey(), booking.ID.String(), HoldTTL)
		if err != nil {
			log.Printf("slot guard unavailable, falling through to store: %v", err)
		} else if !acquired {
			return nil, fmt.Errorf("%w: %s", ErrSlotTaken, booking.SlotKey())
		}
	}

	if err := s.repo.Reserve(ctx, booking); err != nil {
		s.releaseGuard(ctx, booking)
		return nil, err
	}

	s.invalidateIndex(ctx)
	s.publish(ctx, EventBookingHeld, booking)
	return booking, nil
}

// Confirm transitions a live hold to CONFIRMED, stamping the verified payment
// reference. The expiry check here is authoritative: a lapsed hold is
// rejected (and reclaimed on the spot) no matter what the sweeper has or
// hasn't done yet.
func (s *service) Confirm(ctx context.Context, id uuid.UUID, paymentReference string) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status.IsTerminal() {
		if booking.Status == StatusExpired {
			return nil, fmt.Errorf("%w: confirm too late", ErrExpired)
		}
		return nil, fmt.Errorf("%w: status is %s", ErrAlreadyTerminal, booking.Status)
	}

	if booking.IsExpiredAt(s.now().UTC()) {
		// Reclaim lazily; losing this race to the sweeper is fine.
		if _, terr := s.repo.Transition(ctx, id, StatusHeld, StatusExpired, ""); terr == nil {
			s.releaseGuard(ctx, booking)
			s.invalidateIndex(ctx)
			s.publish(ctx, EventBookingExpired, booking)
		}
		return nil, fmt.Errorf("%w: hold lapsed at %s", ErrExpired, booking.ExpiresAt.Format(time.RFC3339))
	}

	confirmed, err := s.repo.Transition(ctx, id, StatusHeld, StatusConfirmed, paymentReference)
	if err != nil {
		if errors.Is(err, ErrAlreadyTerminal) {
			// Lost a race; report what actually happened.
			if current, gerr := s.repo.GetByID(ctx, id); gerr == nil && current.Status == StatusExpired {
				return nil, fmt.Errorf("%w: confirm raced expiry", ErrExpired)
			}
		}
		return nil, err
	}

	s.invalidateIndex(ctx)
	s.publish(ctx, EventBookingConfirmed, confirmed)
	return confirmed, nil
}

// Cancel is the customer-initiated release: HELD -> CANCELLED, slot freed
// immediately rather than waiting out the hold window.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*Booking, error) {
	cancelled, err := s.repo.Transition(ctx, id, StatusHeld, StatusCancelled, "")
	if err != nil {
		return nil, err
	}

	s.releaseGuard(ctx, cancelled)
	s.invalidateIndex(ctx)
	s.publish(ctx, EventBookingCancelled, cancelled)
	return cancelled, nil
}

func (s *service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListBookings(ctx context.Context) ([]Booking, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) SweepExpired(ctx context.Context, asOf time.Time, batchSize int) (int, error) {
	stale, err := s.repo.ListExpiredHeld(ctx, asOf, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired holds: %w", err)
	}

	reclaimed := 0
	for i := range stale {
		b := &stale[i]
		expired, err := s.repo.Transition(ctx, b.ID, StatusHeld, StatusExpired, "")
		if err != nil {
			// A concurrent confirm or cancel won; that booking is settled.
			if errors.Is(err, ErrAlreadyTerminal) || errors.Is(err, ErrNotFound) {
				continue
			}
			return reclaimed, fmt.Errorf("failed to expire booking %s: %w", b.ID, err)
		}
		reclaimed++
		s.releaseGuard(ctx, expired)
		s.publish(ctx, EventBookingExpired, expired)
	}

	if reclaimed > 0 {
		s.invalidateIndex(ctx)
	}
	return reclaimed, nil
}

func (s *service) releaseGuard(ctx context.Context, b *Booking) {
	if s.guard == nil || b == nil {
		return
	}
	if err := s.guard.Release(ctx, b.SlotKey(), b.ID.String()); err != nil {
		log.Printf("failed to release slot guard for %s: %v", b.SlotKey(), err)
	}
}

func (s *service) invalidateIndex(ctx context.Context) {
	if s.index == nil {
		return
	}
	if err := s.index.Invalidate(ctx); err != nil {
		log.Printf("failed to invalidate availability cache: %v", err)
	}
}

func (s *service) publish(ctx context.Context, eventType string, b *Booking) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishBookingEvent(ctx, eventType, b); err != nil {
		log.Printf("failed to publish %s for booking %s: %v", eventType, b.ID, err)
	}
}

func validateCustomer(c Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	email := strings.TrimSpace(c.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid customer email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Phone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}
	return nil
}

func trimCustomer(c Customer) Customer {
	return Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
}
