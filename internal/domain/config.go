package domain

import "time"

// OperatingHours describes the daily booking window
type OperatingHours struct {
	Location    *time.Location
	StartHour   int
	EndHour     int
	SlotMinutes int
}

// SlotDuration returns the slot length
func (h OperatingHours) SlotDuration() time.Duration {
	return time.Duration(h.SlotMinutes) * time.Minute
}

// IsOpen reports whether the window can contain at least one slot
func (h OperatingHours) IsOpen() bool {
	return h.EndHour > h.StartHour && h.SlotMinutes > 0
}

// Package is a purchasable session package mapped to a checkout price
type Package struct {
	ID          string
	Name        string
	Description string
	PriceID     string
	Amount      int64 // minor units, 0 when unknown
	Currency    string
}

// IsAvailable returns true if the package can be sold (has a checkout price)
func (p *Package) IsAvailable() bool {
	return p.PriceID != ""
}
