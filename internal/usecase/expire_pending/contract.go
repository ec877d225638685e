package expire_pending

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListExpiredPending(ctx context.Context, createdBefore time.Time) ([]*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	MarkFailed(ctx context.Context, id int64, reason string) error
}

// CheckoutClient интерфейс клиента платежного провайдера
type CheckoutClient interface {
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}

// CalendarClient интерфейс клиента календаря
type CalendarClient interface {
	DeleteEvent(ctx context.Context, eventID string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	PendingExpired(count int)
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
