package slots

import (
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

// NormalizeDayBusy переводит free/busy запись одного дня в абсолютные интервалы
//
// - nil/пустая запись: интервалов нет
// - AllDay: один интервал на всё окно [dayStart, dayEnd]
// - "HH:MM-HH:MM": интервал на календарную дату окна в его локации
//
// Некорректные строки пропускаются (skipped считает их), интервалы с end <= start отбрасываются.
func NormalizeDayBusy(window domain.DayWindow, day *domain.DayBusy) (intervals []domain.BusyInterval, skipped int) {
	intervals = make([]domain.BusyInterval, 0)

	if day.IsEmpty() {
		return intervals, 0
	}

	if day.AllDay {
		if window.DayEnd.After(window.DayStart) {
			intervals = append(intervals, domain.BusyInterval{Start: window.DayStart, End: window.DayEnd})
		}
		return intervals, 0
	}

	for _, raw := range day.Ranges {
		interval, ok := parseRange(window.DayStart, raw)
		if !ok {
			skipped++
			continue
		}
		if !interval.End.After(interval.Start) {
			continue
		}
		intervals = append(intervals, interval)
	}

	return intervals, skipped
}

// parseRange разбирает "HH:MM-HH:MM" относительно даты anchor
func parseRange(anchor time.Time, raw string) (domain.BusyInterval, bool) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return domain.BusyInterval{}, false
	}

	startH, startM, ok := parseClock(parts[0])
	if !ok {
		return domain.BusyInterval{}, false
	}
	endH, endM, ok := parseClock(parts[1])
	if !ok {
		return domain.BusyInterval{}, false
	}

	y, m, d := anchor.Date()
	loc := anchor.Location()
	return domain.BusyInterval{
		Start: time.Date(y, m, d, startH, startM, 0, 0, loc),
		End:   time.Date(y, m, d, endH, endM, 0, 0, loc),
	}, true
}

// parseClock разбирает "HH:MM"; допускается 24:00 как конец суток
func parseClock(s string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}

	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, 0, false
	}
	return hour, minute, true
}

// DayKey ключ дня в free/busy ответе календаря (yyyyMMdd)
func DayKey(t time.Time) string {
	return t.Format("20060102")
}
