package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/notify"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Booking, error)
	GetLatestByEmail(ctx context.Context, email string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, note string) error
}

// CalendarClient интерфейс клиента календаря
type CalendarClient interface {
	DeleteEvent(ctx context.Context, eventID string) error
}

// Notifier интерфейс отправки уведомлений клиенту
type Notifier interface {
	Deliver(ctx context.Context, msg notify.Message)
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
