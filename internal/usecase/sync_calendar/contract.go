package sync_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/zohocalendar"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListWithoutCalendarEvent(ctx context.Context, statuses []domain.BookingStatus) ([]*domain.Booking, error)
	SetCalendarEventID(ctx context.Context, id int64, eventID string) error
}

// CalendarClient интерфейс клиента календаря
type CalendarClient interface {
	IsConfigured() bool
	CreateEvent(ctx context.Context, input zohocalendar.EventInput) (string, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
