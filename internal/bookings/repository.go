package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the booking store: durable keyed storage with the two atomic
// primitives every correctness property hangs off — reserve-if-free and
// guarded status transition.
type Repository interface {
	// Reserve inserts a new HELD booking if no HELD or CONFIRMED booking
	// occupies the same (date, session, time slot) tuple. Check-and-insert is
	// indivisible: the partial unique index on active bookings makes two
	// concurrent reservations for one slot yield exactly one success.
	Reserve(ctx context.Context, booking *Booking) error

	// Transition moves a booking from an expected current status to a new
	// one, failing with ErrAlreadyTerminal if the status changed underneath
	// the caller. paymentRef is stamped only when non-empty.
	Transition(ctx context.Context, id uuid.UUID, from, to Status, paymentRef string) (*Booking, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Read-only scans feeding the availability index and the admin dashboard.
	ListActiveByDate(ctx context.Context, date time.Time, session SessionType) ([]Booking, error)
	ListActiveInRange(ctx context.Context, from, to time.Time) ([]Booking, error)
	ListExpiredHeld(ctx context.Context, asOf time.Time, limit int) ([]Booking, error)
	ListAll(ctx context.Context) ([]Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Reserve(ctx context.Context, booking *Booking) error {
	if !booking.Status.IsValid() {
		booking.Status = StatusHeld
	}
	err := r.db.WithContext(ctx).Create(booking).Error
	if err != nil {
		// The partial unique index over active bookings rejects the insert
		// when the slot is occupied; that is the conflict signal.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrSlotTaken, booking.SlotKey())
		}
		return fmt.Errorf("failed to reserve slot: %w", err)
	}
	return nil
}

func (r *repository) Transition(ctx context.Context, id uuid.UUID, from, to Status, paymentRef string) (*Booking, error) {
	if !from.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s is not a valid transition", ErrAlreadyTerminal, from, to)
	}

	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	if paymentRef != "" {
		updates["payment_reference"] = paymentRef
	}

	res := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to transition booking: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// Either the booking does not exist or a concurrent transition won.
		// Re-read to tell the two apart.
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: status is %s", ErrAlreadyTerminal, current.Status)
	}

	return r.GetByID(ctx, id)
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) ListActiveByDate(ctx context.Context, date time.Time, session SessionType) ([]Booking, error) {
	var out []Booking
	q := r.db.WithContext(ctx).
		Where("date = ?", NormalizeDate(date)).
		Where("status IN ?", []Status{StatusHeld, StatusConfirmed})
	if session != "" {
		q = q.Where("session_type = ?", session)
	}
	err := q.Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *repository) ListActiveInRange(ctx context.Context, from, to time.Time) ([]Booking, error) {
	var out []Booking
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", NormalizeDate(from), NormalizeDate(to)).
		Where("status IN ?", []Status{StatusHeld, StatusConfirmed}).
		Order("date ASC, created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListExpiredHeld(ctx context.Context, asOf time.Time, limit int) ([]Booking, error) {
	var out []Booking
	q := r.db.WithContext(ctx).
		Where("status = ?", StatusHeld).
		Where("expires_at <= ?", asOf).
		Order("expires_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

func (r *repository) ListAll(ctx context.Context) ([]Booking, error) {
	var out []Booking
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
