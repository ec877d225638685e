package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

// CalendarClient интерфейс клиента календаря
type CalendarClient interface {
	// FetchFreeBusyWithGracefulDegradation получает занятость за [from, to], индексированную ключом дня yyyyMMdd
	// Любая ошибка означает недоступность календаря
	FetchFreeBusyWithGracefulDegradation(ctx context.Context, from, to time.Time) (map[string]*domain.DayBusy, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// FindOccupiedSlots получает пары (дата, время начала) бронирований в статусах statuses за [from, to]
	FindOccupiedSlots(ctx context.Context, from, to time.Time, statuses []domain.BookingStatus) ([]domain.OccupiedSlot, error)
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	AvailabilityServed(fallback bool)
	MalformedBusySkipped(count int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
