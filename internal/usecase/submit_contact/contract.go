package submit_contact

import (
	"context"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/notify"
)

// MessageRepository интерфейс репозитория сообщений
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) (*domain.Message, error)
}

// EmailSender интерфейс отправки письма клиенту
type EmailSender interface {
	SendEmail(ctx context.Context, msg notify.Message) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
