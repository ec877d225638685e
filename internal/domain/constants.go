package domain

// Default configuration values
const (
	DefaultTimezone    = "Australia/Sydney"
	DefaultStartHour   = 10
	DefaultEndHour     = 16
	DefaultSlotMinutes = 5

	DefaultEventType = "Photo Session"
)

// Business validation constants
const (
	MaxRangeDays       = 62
	MaxNotesLength     = 1000
	MaxCustomerNameLen = 200
	SampleSlotsCount   = 3
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses lists statuses whose bookings hold their slot.
// Cancelled and failed bookings never occupy a slot.
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
