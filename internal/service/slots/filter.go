package slots

import (
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

// FilterAvailable возвращает метки слотов, не пересекающихся ни с одним занятым интервалом
//
// Пересечение строгое: slotStart < busyEnd && slotEnd > busyStart.
// Интервал, заканчивающийся ровно в начале слота (или начинающийся ровно в его конце), слот не блокирует.
func FilterAvailable(slots []domain.TimeSlot, busy []domain.BusyInterval, slotMinutes int) []string {
	labels := make([]string, 0, len(slots))

	if len(busy) == 0 {
		for _, slot := range slots {
			labels = append(labels, slot.Label)
		}
		return labels
	}

	duration := time.Duration(slotMinutes) * time.Minute
	for _, slot := range slots {
		if !overlapsAny(slot.Key, slot.Key.Add(duration), busy) {
			labels = append(labels, slot.Label)
		}
	}

	return labels
}

func overlapsAny(start, end time.Time, busy []domain.BusyInterval) bool {
	for _, b := range busy {
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}

// SubtractOccupied убирает из labels метки, занятые внутренними бронированиями на дату date
func SubtractOccupied(date time.Time, labels []string, occupied map[string]struct{}) []string {
	if len(occupied) == 0 {
		return labels
	}
	result := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, taken := occupied[domain.SlotKey(date, label)]; taken {
			continue
		}
		result = append(result, label)
	}
	return result
}
