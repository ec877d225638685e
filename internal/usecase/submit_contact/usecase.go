package submit_contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/notify"
)

// UseCase use case приема сообщения из контактной формы
type UseCase struct {
	messageRepo MessageRepository
	email       EmailSender
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(messageRepo MessageRepository, email EmailSender, logger Logger) *UseCase {
	return &UseCase{
		messageRepo: messageRepo,
		email:       email,
		logger:      logger,
	}
}

// Execute сохраняет сообщение и отправляет клиенту письмо-подтверждение
// Письмо отправляется по возможности: ошибка отправки не отменяет сохраненное сообщение.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация и нормализация
	msg, err := normalize(req)
	if err != nil {
		return nil, err
	}

	// 2. Сохраняем сообщение
	saved, err := uc.messageRepo.Create(ctx, msg)
	if err != nil {
		uc.logger.Error("SubmitContact: failed to store message from %s: %v", msg.Email, err)
		return nil, fmt.Errorf("%w: failed to store message: %v", ErrInternal, err)
	}

	// 3. Письмо-подтверждение
	emailSent := true
	if err := uc.email.SendEmail(ctx, notify.ContactReceived(saved)); err != nil {
		emailSent = false
		if !errors.Is(err, notify.ErrNotConfigured) {
			uc.logger.Warn("SubmitContact: confirmation for message id=%d not sent: %v", saved.ID, err)
		}
	}

	uc.logger.Info("SubmitContact: message id=%d stored (subject=%q, email_sent=%t)", saved.ID, saved.Subject, emailSent)

	return &Response{
		MessageID: saved.ID,
		DisplayID: saved.DisplayID(),
		EmailSent: emailSent,
	}, nil
}
