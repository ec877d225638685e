package get_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/service/slots"
)

// UseCase use case для получения свободных слотов на день или диапазон дней
type UseCase struct {
	calendar       CalendarClient
	bookingRepo    BookingRepository
	hours          domain.OperatingHours
	freeBusyBudget time.Duration
	storeTimeout   time.Duration
	metrics        Metrics
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// freeBusyBudget ограничивает ожидание календаря; по истечении строится fallback
// storeTimeout ограничивает запрос к хранилищу; по истечении запрос завершается ErrStoreUnavailable
func NewUseCase(
	calendar CalendarClient,
	bookingRepo BookingRepository,
	hours domain.OperatingHours,
	freeBusyBudget time.Duration,
	storeTimeout time.Duration,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if hours.Location == nil {
		hours.Location = time.UTC
	}
	return &UseCase{
		calendar:       calendar,
		bookingRepo:    bookingRepo,
		hours:          hours,
		freeBusyBudget: freeBusyBudget,
		storeTimeout:   storeTimeout,
		metrics:        metrics,
		logger:         logger,
	}
}

// SlotMinutes длительность слота
func (uc *UseCase) SlotMinutes() int {
	return uc.hours.SlotMinutes
}

// Location таймзона рабочих часов
func (uc *UseCase) Location() *time.Location {
	return uc.hours.Location
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация и список дней
	days, err := requestedDays(req, uc.hours.Location)
	if err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	first := days[0].Format(domain.DateFormat)
	last := days[len(days)-1].Format(domain.DateFormat)
	uc.logger.Info("GetAvailability: %s..%s (%d day(s))", first, last, len(days))

	// 2. Сетка слотов на каждый день
	windows := make([]domain.DayWindow, len(days))
	totalSlots := 0
	for i, day := range days {
		windows[i] = slots.BuildDayWindow(day, uc.hours)
		totalSlots += len(windows[i].Slots)
	}

	resp := &Response{
		Dates:       make([]string, len(windows)),
		Days:        make(map[string][]string, len(windows)),
		SlotMinutes: uc.hours.SlotMinutes,
	}
	for i, w := range windows {
		resp.Dates[i] = w.Date()
		resp.Days[w.Date()] = []string{}
	}

	if totalSlots == 0 {
		uc.logger.Info("GetAvailability: operating window is empty, nothing to offer")
		return resp, nil
	}

	// 3. Занятость из календаря одним запросом на весь период
	busy, calendarErr := uc.fetchBusy(ctx, windows[0].DayStart, windows[len(windows)-1].DayEnd)
	resp.Fallback = calendarErr != nil

	// 4. Занятые слоты из внутреннего хранилища (ошибка фатальна)
	occupied, err := uc.occupiedSlots(ctx, days[0], days[len(days)-1])
	if err != nil {
		uc.logger.Error("GetAvailability: failed to load internal bookings for %s..%s: %v", first, last, err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// 5. Фильтрация: календарь (или fallback-сетка), затем вычитание внутренних бронирований
	skippedTotal := 0
	for i, window := range windows {
		var labels []string
		if resp.Fallback {
			labels = fallbackLabels(window)
		} else {
			intervals, skipped := slots.NormalizeDayBusy(window, busy[slots.DayKey(window.DayStart)])
			skippedTotal += skipped
			labels = slots.FilterAvailable(window.Slots, intervals, uc.hours.SlotMinutes)
		}
		resp.Days[window.Date()] = slots.SubtractOccupied(days[i], labels, occupied)
	}

	if skippedTotal > 0 {
		uc.logger.Warn("GetAvailability: skipped %d malformed busy range(s) for %s..%s", skippedTotal, first, last)
		uc.metrics.MalformedBusySkipped(skippedTotal)
	}
	uc.metrics.AvailabilityServed(resp.Fallback)

	if resp.Fallback {
		uc.logger.Warn("GetAvailability: calendar unavailable, serving fallback availability for %s..%s", first, last)
	}
	uc.logger.Info("GetAvailability: served %s..%s, internal bookings=%d, fallback=%t", first, last, len(occupied), resp.Fallback)

	return resp, nil
}

// IsSlotAvailable проверяет один слот по той же логике, что и Execute для одного дня
// fallback=true означает, что проверка выполнена без сигнала календаря
func (uc *UseCase) IsSlotAvailable(ctx context.Context, date time.Time, label string) (available bool, fallback bool, err error) {
	resp, err := uc.Execute(ctx, &Request{Date: &date})
	if err != nil {
		return false, false, err
	}

	for _, l := range resp.Slots() {
		if l == label {
			return true, resp.Fallback, nil
		}
	}
	return false, resp.Fallback, nil
}

// fetchBusy получает занятость, ограничивая ожидание бюджетом
func (uc *UseCase) fetchBusy(ctx context.Context, from, to time.Time) (map[string]*domain.DayBusy, error) {
	if uc.freeBusyBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.freeBusyBudget)
		defer cancel()
	}

	busy, err := uc.calendar.FetchFreeBusyWithGracefulDegradation(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if busy == nil {
		busy = map[string]*domain.DayBusy{}
	}
	return busy, nil
}

// occupiedSlots множество ключей "дата метка", занятых активными внутренними бронированиями
func (uc *UseCase) occupiedSlots(ctx context.Context, from, to time.Time) (map[string]struct{}, error) {
	if uc.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.storeTimeout)
		defer cancel()
	}

	found, err := uc.bookingRepo.FindOccupiedSlots(ctx, from, to, domain.OccupyingStatuses)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]struct{}, len(found))
	for _, s := range found {
		occupied[s.Key()] = struct{}{}
	}
	return occupied, nil
}
