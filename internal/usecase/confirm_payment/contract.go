package confirm_payment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/notify"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/stripecheckout"
)

// WebhookParser проверяет подпись вебхука и разбирает событие
type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*stripecheckout.Event, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByCheckoutSession(ctx context.Context, sessionID string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*domain.Booking, error)
	MarkConfirmed(ctx context.Context, id int64, paymentIntentID string, paidAt time.Time, note string) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

// CalendarClient интерфейс клиента календаря
type CalendarClient interface {
	DeleteEvent(ctx context.Context, eventID string) error
}

// Notifier интерфейс отправки уведомлений клиенту
type Notifier interface {
	Deliver(ctx context.Context, msg notify.Message)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	WebhookEvent(eventType, result string)
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
