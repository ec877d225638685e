package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending           BookingStatus = "pending"
	StatusConfirmed         BookingStatus = "confirmed"
	StatusCancelled         BookingStatus = "cancelled"
	StatusCompleted         BookingStatus = "completed"
	StatusPendingReschedule BookingStatus = "pending_reschedule"
	StatusFailed            BookingStatus = "failed"
)

// Booking represents a photo session booking
type Booking struct {
	ID        int64
	Reference string // idempotency key of the checkout attempt (uuid)

	ClientName  string
	ClientEmail string
	ClientPhone string

	EventType       string
	EventDate       time.Time // calendar date in the operating timezone
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
	Location        string
	Status          BookingStatus
	Notes           *string

	PackageID       string
	PackageName     string
	PackageAmount   *int64 // minor units
	PackageCurrency *string

	DepositPaid bool

	CalendarEventID   *string
	CheckoutSessionID *string
	CheckoutURL       *string
	PaymentIntentID   *string
	PaidAt            *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiesSlot reports whether the booking holds its (date, start time) pair for availability purposes
func (b *Booking) OccupiesSlot() bool {
	return b.Status.OccupiesSlot()
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// CanBeRescheduled returns true if a reschedule request may be filed for the booking
func (b *Booking) CanBeRescheduled() bool {
	return b.Status != StatusCancelled && b.Status != StatusFailed
}

// HasCalendarEvent returns true if an external calendar event is linked
func (b *Booking) HasCalendarEvent() bool {
	return b.CalendarEventID != nil && *b.CalendarEventID != ""
}

// DisplayID returns the customer facing reference, e.g. BK-3F9A1C
func (b *Booking) DisplayID() string {
	ref := strings.ReplaceAll(b.Reference, "-", "")
	if len(ref) > 6 {
		ref = ref[len(ref)-6:]
	}
	return "BK-" + strings.ToUpper(ref)
}

// StartsAt returns the absolute start instant of the session in loc
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return b.StartTime.On(b.EventDate, loc)
}

// OccupiesSlot reports whether a booking in this status blocks its slot
func (s BookingStatus) OccupiesSlot() bool {
	for _, st := range OccupyingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsValid reports whether the status is one of the known values
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusPendingReschedule, StatusFailed:
		return true
	}
	return false
}

// OccupiedSlot is a (date, label) pair held by an internal booking
type OccupiedSlot struct {
	Date  time.Time
	Label types.TimeString
}

// Key returns "2006-01-02 15:04"
func (o OccupiedSlot) Key() string {
	return SlotKey(o.Date, o.Label.String())
}

// SlotKey builds the lookup key used to subtract internal bookings from calendar availability
func SlotKey(date time.Time, label string) string {
	return date.Format(DateFormat) + " " + label
}
