package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-PhotoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/stripecheckout"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/zohocalendar"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/ptr"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/types"
)

const compensationTimeout = 15 * time.Second

// UseCase use case резервирования слота: событие в календаре, pending-бронирование, checkout-сессия
type UseCase struct {
	availability AvailabilityChecker
	calendar     CalendarClient
	checkout     CheckoutClient
	bookingRepo  BookingRepository
	catalog      []domain.Package
	hours        domain.OperatingHours
	eventType    string
	storeTimeout time.Duration
	metrics      Metrics
	timeProvider TimeProvider
	newReference func() string
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// storeTimeout ограничивает каждый запрос к хранилищу бронирований
func NewUseCase(
	availability AvailabilityChecker,
	calendar CalendarClient,
	checkout CheckoutClient,
	bookingRepo BookingRepository,
	catalog []domain.Package,
	hours domain.OperatingHours,
	eventType string,
	storeTimeout time.Duration,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if hours.Location == nil {
		hours.Location = time.UTC
	}
	if eventType == "" {
		eventType = domain.DefaultEventType
	}
	return &UseCase{
		availability: availability,
		calendar:     calendar,
		checkout:     checkout,
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		hours:        hours,
		eventType:    eventType,
		storeTimeout: storeTimeout,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		newReference: uuid.NewString,
		logger:       logger,
	}
}

// Execute выполняет резервирование
// При сбое после создания внешнего события созданные ресурсы откатываются в обратном порядке.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	date := req.Date.Format(domain.DateFormat)
	label := req.StartTime.String()
	uc.logger.Info("CreateReservation: date=%s, time=%s, package=%s", date, label, req.PackageID)

	pkg, err := findPackage(uc.catalog, req.PackageID)
	if err != nil {
		uc.logger.Warn("CreateReservation: package %q rejected: %v", req.PackageID, err)
		return nil, err
	}

	if !uc.checkout.IsConfigured() {
		uc.logger.Warn("CreateReservation: checkout is not configured")
		return nil, ErrCheckoutNotConfigured
	}

	start, err := slotStart(req, uc.hours, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("CreateReservation: slot %s %s rejected: %v", date, label, err)
		return nil, err
	}

	res := &reservation{reference: referenceFromKey(req.IdempotencyKey), stage: stageStart}
	keyed := res.reference != ""
	if !keyed {
		res.reference = uc.newReference()
	}

	// 2. Повтор запроса с тем же ключом
	if keyed {
		resp, err := uc.replay(ctx, res.reference)
		if err != nil || resp != nil {
			return resp, err
		}
	}

	// 3. Повторная проверка слота по календарю и внутреннему хранилищу
	available, fallback, err := uc.availability.IsSlotAvailable(ctx, req.Date, label)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to revalidate slot %s %s: %v", date, label, err)
		uc.metrics.ReservationOutcome(OutcomeFailed)
		return nil, fmt.Errorf("%w: failed to revalidate slot: %v", ErrInternal, err)
	}
	if !available {
		uc.logger.Warn("CreateReservation: slot %s %s is taken", date, label)
		uc.metrics.ReservationOutcome(OutcomeConflict)
		return nil, ErrSlotConflict
	}
	if fallback {
		uc.logger.Warn("CreateReservation: calendar unavailable, slot %s %s checked against internal bookings only", date, label)
	}
	res.stage = stageSlotRevalidated

	// 4. Событие в календаре
	eventID, err := uc.calendar.CreateEvent(ctx, zohocalendar.EventInput{
		Start:       start,
		Duration:    uc.hours.SlotDuration(),
		Title:       fmt.Sprintf("%s - %s", pkg.Name, uc.eventType),
		Description: eventDescription(req, pkg, res.reference),
		Location:    req.Location,
	})
	switch {
	case errors.Is(err, zohocalendar.ErrNotConfigured):
		uc.logger.Warn("CreateReservation: calendar is not configured, booking %s will be synced later", res.reference)
	case err != nil:
		uc.logger.Error("CreateReservation: failed to create calendar event for %s %s: %v", date, label, err)
		uc.metrics.ReservationOutcome(OutcomeFailed)
		return nil, fmt.Errorf("%w: failed to create calendar event: %v", ErrReservationFailed, err)
	default:
		res.eventID = eventID
		res.stage = stageEventCreated
	}

	// 5. Pending-бронирование; уникальный индекс по активному слоту закрывает гонку
	storeCtx, cancel := uc.storeContext(ctx)
	created, err := uc.bookingRepo.Create(storeCtx, newPendingBooking(req, pkg, res, uc.eventType, uc.hours.SlotMinutes))
	cancel()
	if err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			uc.logger.Warn("CreateReservation: slot %s %s was taken concurrently", date, label)
			uc.compensate(ctx, res)
			uc.metrics.ReservationOutcome(OutcomeConflict)
			return nil, ErrSlotConflict
		}
		return nil, uc.fail(ctx, res, "failed to create booking", err)
	}
	res.bookingID = created.ID
	res.stage = stageRecordCreated

	// 6. Checkout-сессия
	session, err := uc.checkout.CreateCheckoutSession(ctx, stripecheckout.CheckoutInput{
		Reference:     res.reference,
		PriceID:       pkg.PriceID,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Metadata:      checkoutMetadata(req, pkg, created, res),
	})
	if err != nil {
		return nil, uc.fail(ctx, res, "failed to create checkout session", err)
	}
	res.sessionID = session.ID

	// 7. Привязка сессии к бронированию; с этого момента бронирование находит вебхук
	storeCtx, cancel = uc.storeContext(ctx)
	err = uc.bookingRepo.AttachCheckoutSession(storeCtx, created.ID, session.ID, session.URL)
	cancel()
	if err != nil {
		return nil, uc.fail(ctx, res, "failed to attach checkout session", err)
	}
	res.stage = stageSessionLinked

	uc.metrics.ReservationOutcome(OutcomeCreated)
	uc.logger.Info("CreateReservation: booking id=%d (%s) reserved %s %s, stage=%s",
		created.ID, created.DisplayID(), date, label, res.stage)

	return &Response{
		BookingID:   created.ID,
		Reference:   res.reference,
		DisplayID:   created.DisplayID(),
		SessionID:   session.ID,
		RedirectURL: session.URL,
	}, nil
}

// replay возвращает результат ранее выполненного запроса с тем же ключом
// (nil, nil) означает, что запрос новый
func (uc *UseCase) replay(ctx context.Context, reference string) (*Response, error) {
	ctx, cancel := uc.storeContext(ctx)
	defer cancel()

	existing, err := uc.bookingRepo.GetByReference(ctx, reference)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, nil
	}
	if err != nil {
		uc.logger.Error("CreateReservation: failed to look up reference %s: %v", reference, err)
		return nil, fmt.Errorf("%w: failed to look up reference: %v", ErrInternal, err)
	}

	if existing.CheckoutSessionID == nil || existing.CheckoutURL == nil || !existing.OccupiesSlot() {
		uc.logger.Warn("CreateReservation: reference %s exists without a usable checkout (status=%s)", reference, existing.Status)
		return nil, ErrDuplicateRequest
	}

	uc.logger.Info("CreateReservation: replaying booking id=%d for reference %s", existing.ID, reference)
	uc.metrics.ReservationOutcome(OutcomeReplayed)
	return &Response{
		BookingID:   existing.ID,
		Reference:   existing.Reference,
		DisplayID:   existing.DisplayID(),
		SessionID:   *existing.CheckoutSessionID,
		RedirectURL: *existing.CheckoutURL,
		Replayed:    true,
	}, nil
}

// storeContext ограничивает обращение к хранилищу storeTimeout
func (uc *UseCase) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, uc.storeTimeout)
}

// fail откатывает резервирование и возвращает исходную ошибку, обернутую в ErrReservationFailed
func (uc *UseCase) fail(ctx context.Context, res *reservation, action string, cause error) error {
	uc.logger.Error("CreateReservation: %s (reference=%s, stage=%s): %v", action, res.reference, res.stage, cause)
	uc.compensate(ctx, res)
	uc.metrics.ReservationOutcome(OutcomeFailed)
	return fmt.Errorf("%w: %s: %w", ErrReservationFailed, action, cause)
}

// compensate удаляет созданные ресурсы в обратном порядке
// Каждый шаг выполняется ровно один раз; ошибки логируются с идентификатором осиротевшего ресурса.
// Отмена исходного запроса не прерывает откат.
func (uc *UseCase) compensate(ctx context.Context, res *reservation) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if res.sessionID != "" {
		if err := uc.checkout.ExpireCheckoutSession(ctx, res.sessionID); err != nil {
			uc.logger.Error("CreateReservation: compensation failed, orphaned checkout session id=%s: %v", res.sessionID, err)
			uc.metrics.CompensationFailed("checkout_session")
		}
	}

	if res.bookingID != 0 {
		if err := uc.bookingRepo.Delete(ctx, res.bookingID); err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Error("CreateReservation: compensation failed, orphaned booking id=%d: %v", res.bookingID, err)
			uc.metrics.CompensationFailed("booking")
		}
	}

	if res.eventID != "" {
		if err := uc.calendar.DeleteEvent(ctx, res.eventID); err != nil {
			uc.logger.Error("CreateReservation: compensation failed, orphaned calendar event id=%s booking id=%d: %v",
				res.eventID, res.bookingID, err)
			uc.metrics.CompensationFailed("calendar_event")
		}
	}

	uc.logger.Warn("CreateReservation: reference %s rolled back from stage %s", res.reference, res.stage)
	res.stage = stageRolledBack
}

// newPendingBooking собирает pending-бронирование с денормализованными данными пакета
func newPendingBooking(req *Request, pkg domain.Package, res *reservation, eventType string, slotMinutes int) *domain.Booking {
	booking := &domain.Booking{
		Reference:       res.reference,
		ClientName:      strings.TrimSpace(req.CustomerName),
		ClientEmail:     strings.TrimSpace(req.CustomerEmail),
		ClientPhone:     strings.TrimSpace(req.CustomerPhone),
		EventType:       eventType,
		EventDate:       req.Date,
		StartTime:       req.StartTime,
		EndTime:         endLabel(req.StartTime, slotMinutes),
		DurationMinutes: slotMinutes,
		Location:        strings.TrimSpace(req.Location),
		Status:          domain.StatusPending,
		PackageID:       pkg.ID,
		PackageName:     pkg.Name,
	}
	if pkg.Amount > 0 {
		booking.PackageAmount = ptr.Ptr(pkg.Amount)
		booking.PackageCurrency = ptr.Ptr(pkg.Currency)
	}
	if res.eventID != "" {
		booking.CalendarEventID = ptr.Ptr(res.eventID)
	}
	return booking
}

func endLabel(start types.TimeString, slotMinutes int) types.TimeString {
	minutes, err := start.Minutes()
	if err != nil {
		return start
	}
	end := minutes + slotMinutes
	return types.TimeString(fmt.Sprintf("%02d:%02d", end/60, end%60))
}

func checkoutMetadata(req *Request, pkg domain.Package, booking *domain.Booking, res *reservation) map[string]string {
	return map[string]string{
		"selectedDate":  req.Date.Format(domain.DateFormat),
		"selectedTime":  req.StartTime.String(),
		"packageId":     pkg.ID,
		"packageName":   pkg.Name,
		"zohoEventId":   res.eventID,
		"bookingId":     strconv.FormatInt(booking.ID, 10),
		"reference":     res.reference,
		"customerName":  booking.ClientName,
		"customerEmail": booking.ClientEmail,
		"customerPhone": booking.ClientPhone,
		"location":      booking.Location,
	}
}

func eventDescription(req *Request, pkg domain.Package, reference string) string {
	lines := []string{
		"Package: " + pkg.Name,
		"Client: " + strings.TrimSpace(req.CustomerName),
		"Reference: " + reference,
		"Status: awaiting payment",
	}
	return strings.Join(lines, "\n")
}
