package bookings

// SessionType identifies one of the fixed studio session offerings. The
// values match what the booking page sends on the wire.
type SessionType string

const (
	SessionPartDay SessionType = "part"
	SessionHalfDay SessionType = "half"
	SessionFullDay SessionType = "full"
)

// IsValid checks if the session type is a known offering
func (t SessionType) IsValid() bool {
	_, ok := sessionCatalog[t]
	return ok
}

// String returns the string representation of SessionType
func (t SessionType) String() string {
	return string(t)
}

// Label returns the customer-facing name of the session type
func (t SessionType) Label() string {
	if opt, ok := sessionCatalog[t]; ok {
		return opt.Label
	}
	return string(t)
}

// SessionOption describes one bookable session offering: its price and the
// canonical time slots customers may pick from.
type SessionOption struct {
	Type   SessionType `json:"type"`
	Label  string      `json:"label"`
	Amount int64       `json:"amount"`
	Slots  []string    `json:"slots"`
}

// sessionCatalog is the pricing/slot table. Prices are naira, frozen onto the
// booking at hold time; changing this table never touches existing bookings.
var sessionCatalog = map[SessionType]SessionOption{
	SessionPartDay: {
		Type:   SessionPartDay,
		Label:  "Part Day",
		Amount: 40000,
		Slots:  []string{"10:00 AM–12:00 PM", "1:00 PM–3:00 PM", "4:00 PM–6:00 PM"},
	},
	SessionHalfDay: {
		Type:   SessionHalfDay,
		Label:  "Half Day",
		Amount: 80000,
		Slots:  []string{"7:00 AM–12:00 PM", "1:00 PM–6:00 PM"},
	},
	SessionFullDay: {
		Type:   SessionFullDay,
		Label:  "Full Day",
		Amount: 120000,
		Slots:  []string{"6:00 AM", "7:00 AM", "8:00 AM"},
	},
}

// SessionCatalog returns the offering for a session type.
func SessionCatalog(t SessionType) (SessionOption, bool) {
	opt, ok := sessionCatalog[t]
	return opt, ok
}

// SessionTypes lists all known session types in display order.
func SessionTypes() []SessionType {
	return []SessionType{SessionPartDay, SessionHalfDay, SessionFullDay}
}

// IsCanonicalSlot reports whether label is one of the fixed slots for t.
func IsCanonicalSlot(t SessionType, label string) bool {
	opt, ok := sessionCatalog[t]
	if !ok {
		return false
	}
	for _, s := range opt.Slots {
		if s == label {
			return true
		}
	}
	return false
}

// TotalCanonicalSlots is the number of canonical slots across all session
// types for a single date. Used by the full-occupancy blackout rule.
func TotalCanonicalSlots() int {
	total := 0
	for _, opt := range sessionCatalog {
		total += len(opt.Slots)
	}
	return total
}
