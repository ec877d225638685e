package bookings

import (
	"math"
	"time"
)

// DaysUntil число дней до начала сессии с округлением вверх; отрицательно для прошедших сессий
func DaysUntil(start, now time.Time) int {
	return int(math.Ceil(start.Sub(now).Hours() / 24))
}

// RefundPercent процент возврата при отмене за days дней до сессии
func RefundPercent(days int) int {
	switch {
	case days < 0:
		return 0
	case days >= 21:
		return 90
	case days >= 8:
		return 50
	default:
		return 0
	}
}

// RefundAmount сумма возврата в минимальных единицах с округлением до ближайшего
func RefundAmount(amount int64, percent int) int64 {
	if amount <= 0 || percent <= 0 {
		return 0
	}
	return int64(math.Round(float64(amount) * float64(percent) / 100))
}
