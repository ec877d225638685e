package confirm_payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PhotoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/notify"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/stripecheckout"
)

// UseCase use case обработки платежных вебхуков
type UseCase struct {
	parser       WebhookParser
	bookingRepo  BookingRepository
	calendar     CalendarClient
	notifier     Notifier
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	parser WebhookParser,
	bookingRepo BookingRepository,
	calendar CalendarClient,
	notifier Notifier,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		parser:       parser,
		bookingRepo:  bookingRepo,
		calendar:     calendar,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute проверяет вебхук и применяет переход статуса бронирования
// Повторная доставка того же события не меняет состояние.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Проверка подписи
	event, err := uc.parser.ParseWebhook(req.Payload, req.Signature)
	if err != nil {
		if errors.Is(err, stripecheckout.ErrNotConfigured) {
			uc.logger.Warn("ConfirmPayment: webhook secret is not configured")
			return nil, ErrNotConfigured
		}
		uc.logger.Warn("ConfirmPayment: rejected webhook: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	uc.logger.Info("ConfirmPayment: event id=%s type=%s", event.ID, event.Type)
	resp := &Response{EventID: event.ID, EventType: event.Type}

	// 2. Переход статуса по типу события
	var booking *domain.Booking
	switch event.Type {
	case stripecheckout.EventCheckoutCompleted:
		booking, resp.Result, err = uc.confirm(ctx, event)
	case stripecheckout.EventChargeFailed:
		booking, resp.Result, err = uc.chargeFailed(ctx, event)
	case stripecheckout.EventCheckoutExpired:
		booking, resp.Result, err = uc.expired(ctx, event)
	default:
		resp.Result = ResultIgnored
	}

	if booking != nil {
		resp.BookingID = booking.ID
	}
	if err != nil {
		resp.Result = ResultError
		uc.metrics.WebhookEvent(event.Type, resp.Result)
		return resp, err
	}
	uc.metrics.WebhookEvent(event.Type, resp.Result)

	// 3. Побочные эффекты после фиксации перехода
	switch {
	case resp.Result == ResultConfirmed:
		uc.notifier.Deliver(ctx, notify.PaymentConfirmed(booking))
	case resp.Result == ResultExpired && booking.HasCalendarEvent():
		if err := uc.calendar.DeleteEvent(ctx, *booking.CalendarEventID); err != nil {
			uc.logger.Warn("ConfirmPayment: failed to delete calendar event id=%s for expired booking id=%d: %v",
				*booking.CalendarEventID, booking.ID, err)
		}
	}

	uc.logger.Info("ConfirmPayment: event id=%s type=%s result=%s booking id=%d", event.ID, event.Type, resp.Result, resp.BookingID)
	return resp, nil
}

// confirm переводит pending-бронирование в confirmed
func (uc *UseCase) confirm(ctx context.Context, event *stripecheckout.Event) (*domain.Booking, string, error) {
	var (
		booking *domain.Booking
		result  string
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := uc.findBySession(txCtx, event)
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ConfirmPayment: no booking for checkout session %s", event.SessionID)
			result = ResultNotFound
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		booking = b

		if b.Status == domain.StatusConfirmed && b.DepositPaid {
			result = ResultAlreadyProcessed
			return nil
		}
		if b.IsCancelled() {
			uc.logger.Error("ConfirmPayment: payment %s received for cancelled booking id=%d, refund manually",
				event.PaymentIntentID, b.ID)
			result = ResultIgnored
			return nil
		}

		paidAt := uc.timeProvider.Now().UTC()
		note := fmt.Sprintf("Payment confirmed via Stripe on %s", paidAt.Format(time.RFC3339))

		err = uc.bookingRepo.MarkConfirmed(txCtx, b.ID, event.PaymentIntentID, paidAt, note)
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			uc.logger.Error("ConfirmPayment: booking id=%d paid (%s) but its slot %s %s now belongs to another booking",
				b.ID, event.PaymentIntentID, b.EventDate.Format(domain.DateFormat), b.StartTime)
			return ErrSlotReleased
		}
		if err != nil {
			return fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
		}

		b.Status = domain.StatusConfirmed
		b.DepositPaid = true
		b.PaidAt = &paidAt
		if event.PaymentIntentID != "" {
			b.PaymentIntentID = &event.PaymentIntentID
		}
		result = ResultConfirmed
		return nil
	})
	if err != nil {
		uc.logger.Error("ConfirmPayment: session %s: %v", event.SessionID, err)
		return booking, "", err
	}

	return booking, result, nil
}

// chargeFailed помечает бронирование неоплаченным
func (uc *UseCase) chargeFailed(ctx context.Context, event *stripecheckout.Event) (*domain.Booking, string, error) {
	if event.PaymentIntentID == "" {
		uc.logger.Warn("ConfirmPayment: charge.failed event %s has no payment intent", event.ID)
		return nil, ResultNotFound, nil
	}

	var (
		booking *domain.Booking
		result  string
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := uc.bookingRepo.GetByPaymentIntent(txCtx, event.PaymentIntentID)
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ConfirmPayment: no booking for payment intent %s", event.PaymentIntentID)
			result = ResultNotFound
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		booking = b

		if b.Status != domain.StatusPending {
			result = ResultAlreadyProcessed
			return nil
		}

		reason := "Payment failed"
		if event.FailureMessage != "" {
			reason += ": " + event.FailureMessage
		}
		if err := uc.bookingRepo.MarkFailed(txCtx, b.ID, reason); err != nil {
			return fmt.Errorf("%w: failed to mark booking failed: %v", ErrInternal, err)
		}

		b.Status = domain.StatusFailed
		result = ResultFailed
		return nil
	})
	if err != nil {
		uc.logger.Error("ConfirmPayment: payment intent %s: %v", event.PaymentIntentID, err)
		return booking, "", err
	}

	return booking, result, nil
}

// expired освобождает слот брошенной checkout-сессии
func (uc *UseCase) expired(ctx context.Context, event *stripecheckout.Event) (*domain.Booking, string, error) {
	var (
		booking *domain.Booking
		result  string
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		b, err := uc.findBySession(txCtx, event)
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			result = ResultNotFound
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}
		booking = b

		if b.Status != domain.StatusPending {
			result = ResultAlreadyProcessed
			return nil
		}

		if err := uc.bookingRepo.MarkFailed(txCtx, b.ID, "Checkout session expired without payment"); err != nil {
			return fmt.Errorf("%w: failed to mark booking failed: %v", ErrInternal, err)
		}

		b.Status = domain.StatusFailed
		result = ResultExpired
		return nil
	})
	if err != nil {
		uc.logger.Error("ConfirmPayment: expired session %s: %v", event.SessionID, err)
		return booking, "", err
	}

	return booking, result, nil
}

// findBySession ищет бронирование по checkout-сессии, затем по client_reference_id
func (uc *UseCase) findBySession(ctx context.Context, event *stripecheckout.Event) (*domain.Booking, error) {
	if event.SessionID != "" {
		b, err := uc.bookingRepo.GetByCheckoutSession(ctx, event.SessionID)
		if !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return b, err
		}
	}
	if event.ClientReferenceID != "" {
		return uc.bookingRepo.GetByReference(ctx, event.ClientReferenceID)
	}
	return nil, bookingRepo.ErrBookingNotFound
}
