package sync_calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/zohocalendar"
)

// UseCase use case переноса активных бронирований без события в календарь
type UseCase struct {
	bookingRepo  BookingRepository
	calendar     CalendarClient
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, calendar CalendarClient, location *time.Location, logger Logger) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		calendar:     calendar,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает события для pending и confirmed бронирований без calendar_event_id
// Ошибка по одному бронированию не останавливает обработку остальных.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	if !uc.calendar.IsConfigured() {
		return nil, ErrNotConfigured
	}

	bookings, err := uc.bookingRepo.ListWithoutCalendarEvent(ctx, domain.OccupyingStatuses)
	if err != nil {
		uc.logger.Error("SyncCalendar: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	resp := &Response{}

	for _, b := range bookings {
		resp.Processed++

		start, err := b.StartsAt(uc.location)
		if err != nil {
			uc.recordFailure(resp, b, fmt.Errorf("invalid start time: %w", err))
			continue
		}
		if start.Before(now) {
			resp.Skipped++
			continue
		}

		eventID, err := uc.calendar.CreateEvent(ctx, zohocalendar.EventInput{
			Start:       start,
			Duration:    time.Duration(b.DurationMinutes) * time.Minute,
			Title:       eventTitle(b),
			Description: fmt.Sprintf("Booking: %s\nClient: %s\nStatus: %s", b.DisplayID(), b.ClientName, b.Status),
			Location:    b.Location,
		})
		if err != nil {
			uc.recordFailure(resp, b, err)
			continue
		}

		if err := uc.bookingRepo.SetCalendarEventID(ctx, b.ID, eventID); err != nil {
			uc.logger.Error("SyncCalendar: event id=%s created but not stored for booking id=%d", eventID, b.ID)
			uc.recordFailure(resp, b, err)
			continue
		}

		resp.Created++
		uc.logger.Info("SyncCalendar: booking id=%d -> event id=%s", b.ID, eventID)
	}

	uc.logger.Info("SyncCalendar: processed=%d created=%d skipped=%d failed=%d",
		resp.Processed, resp.Created, resp.Skipped, resp.Failed)
	return resp, nil
}

func (uc *UseCase) recordFailure(resp *Response, b *domain.Booking, err error) {
	resp.Failed++
	resp.Errors = append(resp.Errors, fmt.Sprintf("booking %d: %v", b.ID, err))
	uc.logger.Warn("SyncCalendar: booking id=%d: %v", b.ID, err)
}

func eventTitle(b *domain.Booking) string {
	eventType := b.EventType
	if eventType == "" {
		eventType = domain.DefaultEventType
	}
	if b.PackageName == "" {
		return eventType
	}
	return b.PackageName + " - " + eventType
}
