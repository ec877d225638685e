package slots

import (
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

// BuildDayWindow строит окно рабочего дня и сетку слотов для даты date
// Берутся только год/месяц/день даты, время и локация date игнорируются.
// Слот включается, только если целиком помещается в окно (start+slotMinutes <= dayEnd).
// При endHour <= startHour или slotMinutes <= 0 слотов нет.
func BuildDayWindow(date time.Time, hours domain.OperatingHours) domain.DayWindow {
	loc := hours.Location
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, hours.StartHour, 0, 0, 0, loc)
	dayEnd := time.Date(y, m, d, hours.EndHour, 0, 0, 0, loc)

	window := domain.DayWindow{
		DayStart: dayStart,
		DayEnd:   dayEnd,
		Slots:    []domain.TimeSlot{},
	}

	if !hours.IsOpen() {
		return window
	}

	step := hours.SlotDuration()
	for cursor := dayStart; !cursor.Add(step).After(dayEnd); cursor = cursor.Add(step) {
		window.Slots = append(window.Slots, domain.TimeSlot{
			Key:   cursor,
			Label: cursor.Format(domain.TimeFormat),
		})
	}

	return window
}

// DaysInRange возвращает календарные даты от start до end включительно (полночь в loc)
func DaysInRange(start, end time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	cursor := time.Date(sy, sm, sd, 0, 0, 0, 0, loc)
	last := time.Date(ey, em, ed, 0, 0, 0, 0, loc)

	days := make([]time.Time, 0)
	for !cursor.After(last) {
		days = append(days, cursor)
		cursor = cursor.AddDate(0, 0, 1)
	}
	return days
}
