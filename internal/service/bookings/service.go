package bookings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PhotoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/notify"
	"github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/types"
)

// Service сервис клиентских операций с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	calendar     CalendarClient
	notifier     Notifier
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	calendar CalendarClient,
	notifier Notifier,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo:  bookingRepo,
		calendar:     calendar,
		notifier:     notifier,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Lookup находит бронирование клиента по email и, опционально, по идентификатору
// Без идентификатора возвращается последнее бронирование на этот email.
func (s *Service) Lookup(ctx context.Context, req *models.LookupRequest) (*models.BookingResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.BookingID) == "" {
		s.logger.Info("Lookup: latest booking by email")
		booking, err := s.bookingRepo.GetLatestByEmail(ctx, email)
		if err != nil {
			return nil, s.mapRepoError("Lookup", err)
		}
		return models.FromDomainBooking(booking), nil
	}

	booking, err := s.getOwned(ctx, "Lookup", req.BookingID, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lookup: found booking id=%d", booking.ID)
	return models.FromDomainBooking(booking), nil
}

// GetByCheckoutSession возвращает бронирование для страницы подтверждения оплаты
func (s *Service) GetByCheckoutSession(ctx context.Context, sessionID string) (*models.BookingResponse, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, s.mapRepoError("GetByCheckoutSession", err)
	}

	s.logger.Info("GetByCheckoutSession: found booking id=%d status=%s", booking.ID, booking.Status)
	return models.FromDomainBooking(booking), nil
}

// Cancel отменяет бронирование по запросу клиента
// Возврат считается по числу дней до сессии; событие календаря удаляется, чтобы слот освободился в обоих источниках.
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.CancelResponse, error) {
	booking, err := s.getOwned(ctx, "Cancel", req.BookingID, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	// Проверяем, можно ли отменить бронирование
	if booking.IsCancelled() {
		s.logger.Warn("Cancel: booking id=%d is already cancelled", booking.ID)
		return nil, ErrAlreadyCancelled
	}
	if booking.Status == domain.StatusFailed {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", booking.ID, booking.Status)
		return nil, ErrCannotCancel
	}

	// Рассчитываем возврат
	now := s.timeProvider.Now()
	start, err := booking.StartsAt(s.location)
	if err != nil {
		s.logger.Error("Cancel: booking id=%d has invalid start time: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: Cancel - invalid start time: %v", ErrInternal, err)
	}

	days := DaysUntil(start, now)
	percent := RefundPercent(days)
	var amount int64
	if booking.PackageAmount != nil {
		amount = RefundAmount(*booking.PackageAmount, percent)
	}

	note := fmt.Sprintf("Cancelled by customer on %s (%d day(s) before the session). Refund: %d%%",
		now.UTC().Format(time.RFC3339), days, percent)
	if amount > 0 {
		note += fmt.Sprintf(" (%d minor units)", amount)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.StatusCancelled, note); err != nil {
		return nil, s.mapRepoError("Cancel", err)
	}
	booking.Status = domain.StatusCancelled

	// Освобождаем слот в календаре
	if booking.HasCalendarEvent() {
		if err := s.calendar.DeleteEvent(ctx, *booking.CalendarEventID); err != nil {
			s.logger.Warn("Cancel: failed to delete calendar event id=%s for booking id=%d: %v",
				*booking.CalendarEventID, booking.ID, err)
		}
	}

	s.notifier.Deliver(ctx, notify.BookingCancelled(booking, percent, amount))

	s.logger.Info("Cancel: cancelled booking id=%d, days=%d, refund=%d%%", booking.ID, days, percent)
	return &models.CancelResponse{
		Booking:       *models.FromDomainBooking(booking),
		DaysUntil:     days,
		RefundPercent: percent,
		RefundAmount:  amount,
	}, nil
}

// RequestReschedule фиксирует запрос клиента на перенос; новое время подтверждается вручную
func (s *Service) RequestReschedule(ctx context.Context, req *models.RescheduleRequest) (*models.BookingResponse, error) {
	newDate, newTime, err := s.parseNewSlot(req)
	if err != nil {
		s.logger.Warn("RequestReschedule: invalid new slot: %v", err)
		return nil, err
	}

	booking, err := s.getOwned(ctx, "RequestReschedule", req.BookingID, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	if !booking.CanBeRescheduled() {
		s.logger.Warn("RequestReschedule: booking id=%d cannot be rescheduled, status=%s", booking.ID, booking.Status)
		return nil, ErrCannotReschedule
	}

	now := s.timeProvider.Now()
	start, err := booking.StartsAt(s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: RequestReschedule - invalid start time: %v", ErrInternal, err)
	}
	if start.Before(now) {
		s.logger.Warn("RequestReschedule: booking id=%d is in the past", booking.ID)
		return nil, ErrBookingInPast
	}

	note := fmt.Sprintf("Reschedule requested on %s to %s %s", now.UTC().Format(time.RFC3339), newDate, newTime)
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		note += ". Reason: " + reason
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.StatusPendingReschedule, note); err != nil {
		return nil, s.mapRepoError("RequestReschedule", err)
	}
	booking.Status = domain.StatusPendingReschedule

	s.notifier.Deliver(ctx, notify.RescheduleRequested(booking, newDate, newTime.String()))

	s.logger.Info("RequestReschedule: booking id=%d -> %s %s", booking.ID, newDate, newTime)
	return models.FromDomainBooking(booking), nil
}

// Вспомогательные методы

// getOwned получает бронирование по идентификатору и проверяет совпадение email
func (s *Service) getOwned(ctx context.Context, op, bookingID, email string) (*domain.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	var (
		booking *domain.Booking
		err     error
	)
	if id, convErr := strconv.ParseInt(bookingID, 10, 64); convErr == nil {
		booking, err = s.bookingRepo.GetByID(ctx, id)
	} else {
		booking, err = s.bookingRepo.GetByReference(ctx, bookingID)
	}
	if err != nil {
		return nil, s.mapRepoError(op, err)
	}

	if normalizeEmail(booking.ClientEmail) != email {
		s.logger.Warn("%s: email does not match booking id=%d", op, booking.ID)
		return nil, ErrAccessDenied
	}
	return booking, nil
}

func (s *Service) parseNewSlot(req *models.RescheduleRequest) (string, types.TimeString, error) {
	date, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(req.NewDate), s.location)
	if err != nil {
		return "", "", fmt.Errorf("%w: newDate must be YYYY-MM-DD", ErrInvalidInput)
	}
	label, err := types.NewTimeStringFromString(req.NewTime)
	if err != nil {
		return "", "", fmt.Errorf("%w: newTime must be HH:MM", ErrInvalidInput)
	}

	start, err := label.On(date, s.location)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if start.Before(s.timeProvider.Now()) {
		return "", "", fmt.Errorf("%w: new time is in the past", ErrInvalidInput)
	}
	return date.Format(domain.DateFormat), label, nil
}

func (s *Service) mapRepoError(op string, err error) error {
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		s.logger.Warn("%s: booking not found", op)
		return ErrBookingNotFound
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
