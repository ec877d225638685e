package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/stripecheckout"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/zohocalendar"
)

// AvailabilityChecker проверка одного слота по обоим источникам занятости
type AvailabilityChecker interface {
	IsSlotAvailable(ctx context.Context, date time.Time, label string) (available bool, fallback bool, err error)
}

// CalendarClient интерфейс клиента календаря
type CalendarClient interface {
	CreateEvent(ctx context.Context, input zohocalendar.EventInput) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// CheckoutClient интерфейс клиента платежного провайдера
type CheckoutClient interface {
	IsConfigured() bool
	CreateCheckoutSession(ctx context.Context, input stripecheckout.CheckoutInput) (*stripecheckout.Session, error)
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	AttachCheckoutSession(ctx context.Context, id int64, sessionID, url string) error
	Delete(ctx context.Context, id int64) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	ReservationOutcome(outcome string)
	CompensationFailed(step string)
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
