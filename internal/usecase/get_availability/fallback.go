package get_availability

import (
	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

// fallbackLabels доступность без сигнала календаря: полная сетка дня
// Внутренние бронирования вычитаются общим шагом, поэтому результат отражает только их
func fallbackLabels(window domain.DayWindow) []string {
	return window.Labels()
}
