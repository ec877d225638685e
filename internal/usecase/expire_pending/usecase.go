package expire_pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PhotoBookingService/internal/infra/storage/booking"
)

const expiredNote = "Checkout abandoned: pending booking expired without payment"

// UseCase use case очистки брошенных pending-бронирований
type UseCase struct {
	bookingRepo  BookingRepository
	checkout     CheckoutClient
	calendar     CalendarClient
	txManager    TransactionManager
	ttl          time.Duration
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	checkout CheckoutClient,
	calendar CalendarClient,
	txManager TransactionManager,
	ttl time.Duration,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		checkout:     checkout,
		calendar:     calendar,
		txManager:    txManager,
		ttl:          ttl,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переводит неоплаченные pending-бронирования старше TTL в failed и освобождает их слоты
// Checkout-сессия закрывается до смены статуса и вне транзакции: если закрыть не удалось
// (например, оплата уже прошла), бронирование не трогается.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	cutoff := uc.timeProvider.Now().Add(-uc.ttl)
	resp := &Response{}

	// 1. Кандидаты без блокировок
	stale, err := uc.bookingRepo.ListExpiredPending(ctx, cutoff)
	if err != nil {
		uc.logger.Error("ExpirePending: failed to list expired pending bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list expired pending bookings: %v", ErrInternal, err)
	}
	resp.Found = len(stale)

	var (
		released []*domain.Booking
		markErr  error
	)
	for _, b := range stale {
		// 2. Закрываем checkout-сессию у провайдера
		if b.CheckoutSessionID != nil && *b.CheckoutSessionID != "" {
			if err := uc.checkout.ExpireCheckoutSession(ctx, *b.CheckoutSessionID); err != nil {
				uc.logger.Warn("ExpirePending: failed to expire checkout session %s of booking id=%d, skipping: %v",
					*b.CheckoutSessionID, b.ID, err)
				resp.Skipped++
				continue
			}
		}

		// 3. Короткая транзакция на одно бронирование с повторной проверкой статуса
		expired, err := uc.expireOne(ctx, b.ID)
		if err != nil {
			markErr = err
			break
		}
		if !expired {
			resp.Skipped++
			continue
		}
		released = append(released, b)
	}
	resp.Expired = len(released)

	// 4. После фиксации удаляем события календаря
	for _, b := range released {
		if !b.HasCalendarEvent() {
			continue
		}
		if err := uc.calendar.DeleteEvent(ctx, *b.CalendarEventID); err != nil {
			uc.logger.Warn("ExpirePending: failed to delete calendar event id=%s of booking id=%d: %v",
				*b.CalendarEventID, b.ID, err)
		}
	}

	uc.metrics.PendingExpired(resp.Expired)

	if markErr != nil {
		uc.logger.Error("ExpirePending: %v", markErr)
		return nil, markErr
	}

	if resp.Found > 0 {
		uc.logger.Info("ExpirePending: found=%d expired=%d skipped=%d (cutoff %s)",
			resp.Found, resp.Expired, resp.Skipped, cutoff.UTC().Format(time.RFC3339))
	}
	return resp, nil
}

// expireOne помечает бронирование failed, если оно все еще ждет оплаты
// false означает, что статус сменился параллельно (например, вебхук подтвердил оплату)
func (uc *UseCase) expireOne(ctx context.Context, id int64) (bool, error) {
	expired := false
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := uc.bookingRepo.GetByID(txCtx, id)
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Info("ExpirePending: booking id=%d was removed during sweep", id)
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking id=%d: %v", ErrInternal, id, err)
		}
		if current.Status != domain.StatusPending || current.PaidAt != nil {
			uc.logger.Info("ExpirePending: booking id=%d changed to %s during sweep, leaving it", id, current.Status)
			return nil
		}

		if err := uc.bookingRepo.MarkFailed(txCtx, id, expiredNote); err != nil {
			return fmt.Errorf("%w: failed to mark booking id=%d failed: %v", ErrInternal, id, err)
		}
		expired = true
		return nil
	})
	return expired, err
}
