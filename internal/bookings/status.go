package bookings

type Status string

const (
	StatusHeld      Status = "HELD"
	StatusConfirmed Status = "CONFIRMED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusHeld, StatusConfirmed, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether a booking with this status occupies its slot.
func (s Status) IsActive() bool {
	return s == StatusHeld || s == StatusConfirmed
}

// CanTransitionTo checks whether moving from s to target is a legal
// state-machine transition. Only HELD bookings may move, and only forward.
func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusHeld {
		return false
	}
	switch target {
	case StatusConfirmed, StatusExpired, StatusCancelled:
		return true
	}
	return false
}
