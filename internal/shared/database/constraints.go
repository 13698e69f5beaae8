package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// Partial unique index: at most one HELD or CONFIRMED booking may occupy
	// a (date, session_type, time_slot) tuple. This is the authoritative
	// no-double-booking guarantee — two concurrent reservations for the same
	// slot produce exactly one insert and one unique violation.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_slot
		ON bookings (date, session_type, time_slot)
		WHERE status IN ('HELD', 'CONFIRMED');
	`).Error
	if err != nil {
		return err
	}

	// Index for the expiry sweep scan
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_held_expires
		ON bookings (expires_at)
		WHERE status = 'HELD';
	`).Error
	if err != nil {
		return err
	}

	// Index for availability scans over active bookings
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_active_date
		ON bookings (date, session_type)
		WHERE status IN ('HELD', 'CONFIRMED');
	`).Error
	if err != nil {
		return err
	}

	return nil
}
