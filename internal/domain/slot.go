package domain

import "time"

// TimeSlot is one bookable slot: the absolute start instant and its HH:MM label in the operating timezone
type TimeSlot struct {
	Key   time.Time
	Label string
}

// BusyInterval is a range during which the calendar owner is unavailable. End is always after Start.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// DayWindow bounds the operating hours of one calendar day and holds the slots generated within it
type DayWindow struct {
	DayStart time.Time
	DayEnd   time.Time
	Slots    []TimeSlot
}

// Date returns the calendar date of the window in its own location
func (w DayWindow) Date() string {
	return w.DayStart.Format(DateFormat)
}

// Labels returns slot labels in order
func (w DayWindow) Labels() []string {
	labels := make([]string, len(w.Slots))
	for i, s := range w.Slots {
		labels[i] = s.Label
	}
	return labels
}

// HasLabel reports whether the window contains a slot with the given label
func (w DayWindow) HasLabel(label string) bool {
	for _, s := range w.Slots {
		if s.Label == label {
			return true
		}
	}
	return false
}

// DayBusy is the provider-neutral free/busy entry for one day.
// AllDay marks the whole operating window busy; otherwise Ranges holds "HH:MM-HH:MM" strings.
type DayBusy struct {
	AllDay bool
	Ranges []string
}

// IsEmpty reports whether the entry carries no busy data
func (d *DayBusy) IsEmpty() bool {
	return d == nil || (!d.AllDay && len(d.Ranges) == 0)
}
