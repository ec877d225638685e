package get_availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/types"
)

type freeBusyCall struct {
	from, to time.Time
}

type fakeCalendar struct {
	mu    sync.Mutex
	busy  map[string]*domain.DayBusy
	err   error
	block bool
	calls []freeBusyCall
}

func (f *fakeCalendar) FetchFreeBusyWithGracefulDegradation(ctx context.Context, from, to time.Time) (map[string]*domain.DayBusy, error) {
	f.mu.Lock()
	f.calls = append(f.calls, freeBusyCall{from: from, to: to})
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.busy, nil
}

type storedBooking struct {
	date   time.Time
	label  string
	status domain.BookingStatus
}

type fakeBookingRepo struct {
	bookings []storedBooking
	err      error
	block    bool
}

func (f *fakeBookingRepo) FindOccupiedSlots(ctx context.Context, from, to time.Time, statuses []domain.BookingStatus) ([]domain.OccupiedSlot, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	result := make([]domain.OccupiedSlot, 0)
	for _, b := range f.bookings {
		day := b.date.Format(domain.DateFormat)
		if day < from.Format(domain.DateFormat) || day > to.Format(domain.DateFormat) {
			continue
		}
		for _, s := range statuses {
			if b.status == s {
				result = append(result, domain.OccupiedSlot{Date: b.date, Label: types.TimeString(b.label)})
			}
		}
	}
	return result, nil
}

type fakeMetrics struct {
	served    map[bool]int
	malformed int
}

func (m *fakeMetrics) AvailabilityServed(fallback bool) {
	if m.served == nil {
		m.served = map[bool]int{}
	}
	m.served[fallback]++
}

func (m *fakeMetrics) MalformedBusySkipped(count int) {
	m.malformed += count
}

// двенадцать слотов: 10:00 ... 10:55
var shortDay = domain.OperatingHours{Location: time.UTC, StartHour: 10, EndHour: 11, SlotMinutes: 5}

func newShortDayUseCase(calendar *fakeCalendar, repo *fakeBookingRepo, m *fakeMetrics) *UseCase {
	return NewUseCase(calendar, repo, shortDay, time.Second, time.Second, m, logger.NewNop())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// afterQuarterPast оставляет свободными только 10:00, 10:05, 10:10
func afterQuarterPast(day string) map[string]*domain.DayBusy {
	return map[string]*domain.DayBusy{day: {Ranges: []string{"10:15-11:00"}}}
}

func TestExecute_DoubleSourceSubtraction(t *testing.T) {
	day := date(2025, 12, 6)
	calendar := &fakeCalendar{busy: afterQuarterPast("20251206")}

	t.Run("pending booking occupies its slot", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: []storedBooking{{date: day, label: "10:05", status: domain.StatusPending}}}
		uc := newShortDayUseCase(calendar, repo, &fakeMetrics{})

		resp, err := uc.Execute(context.Background(), &Request{Date: &day})
		require.NoError(t, err)

		assert.Equal(t, []string{"10:00", "10:10"}, resp.Slots())
		assert.False(t, resp.Fallback)
		assert.Equal(t, 5, resp.SlotMinutes)
	})

	t.Run("cancelled booking frees its slot", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: []storedBooking{{date: day, label: "10:05", status: domain.StatusCancelled}}}
		uc := newShortDayUseCase(calendar, repo, &fakeMetrics{})

		resp, err := uc.Execute(context.Background(), &Request{Date: &day})
		require.NoError(t, err)

		assert.Equal(t, []string{"10:00", "10:05", "10:10"}, resp.Slots())
	})

	t.Run("failed and pending_reschedule do not occupy", func(t *testing.T) {
		repo := &fakeBookingRepo{bookings: []storedBooking{
			{date: day, label: "10:00", status: domain.StatusFailed},
			{date: day, label: "10:05", status: domain.StatusPendingReschedule},
			{date: day, label: "10:10", status: domain.StatusConfirmed},
		}}
		uc := newShortDayUseCase(calendar, repo, &fakeMetrics{})

		resp, err := uc.Execute(context.Background(), &Request{Date: &day})
		require.NoError(t, err)

		assert.Equal(t, []string{"10:00", "10:05"}, resp.Slots())
	})
}

func TestExecute_FallbackWhenCalendarFails(t *testing.T) {
	day := date(2025, 12, 6)
	calendar := &fakeCalendar{err: errors.New("zoho down")}
	repo := &fakeBookingRepo{bookings: []storedBooking{{date: day, label: "10:05", status: domain.StatusPending}}}
	m := &fakeMetrics{}
	uc := newShortDayUseCase(calendar, repo, m)

	resp, err := uc.Execute(context.Background(), &Request{Date: &day})
	require.NoError(t, err)

	assert.True(t, resp.Fallback)
	require.NotEmpty(t, resp.Slots())
	assert.NotContains(t, resp.Slots(), "10:05")
	// без календаря доступна вся сетка, кроме внутренних бронирований
	assert.Len(t, resp.Slots(), 11)
	assert.Equal(t, 1, m.served[true])
}

func TestExecute_FallbackWhenCalendarTimesOut(t *testing.T) {
	day := date(2025, 12, 6)
	calendar := &fakeCalendar{block: true}
	uc := NewUseCase(calendar, &fakeBookingRepo{}, shortDay, 20*time.Millisecond, time.Second, &fakeMetrics{}, logger.NewNop())

	start := time.Now()
	resp, err := uc.Execute(context.Background(), &Request{Date: &day})
	require.NoError(t, err)

	assert.True(t, resp.Fallback)
	assert.Len(t, resp.Slots(), 12)
	assert.Less(t, time.Since(start), time.Second)
}

func TestExecute_StoreFailureIsFatal(t *testing.T) {
	day := date(2025, 12, 6)
	uc := newShortDayUseCase(&fakeCalendar{err: errors.New("zoho down")}, &fakeBookingRepo{err: errors.New("connection refused")}, &fakeMetrics{})

	resp, err := uc.Execute(context.Background(), &Request{Date: &day})

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestExecute_RangeUsesSingleCalendarCall(t *testing.T) {
	start := date(2025, 12, 6)
	end := date(2025, 12, 8)
	calendar := &fakeCalendar{busy: map[string]*domain.DayBusy{
		"20251207": {AllDay: true},
		"20251208": {Ranges: []string{"10:00-10:30"}},
	}}
	repo := &fakeBookingRepo{bookings: []storedBooking{
		{date: start, label: "10:00", status: domain.StatusConfirmed},
		{date: date(2025, 12, 9), label: "10:05", status: domain.StatusConfirmed},
	}}
	uc := NewUseCase(calendar, repo, shortDay, time.Second, time.Second, &fakeMetrics{}, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{Start: &start, End: &end})
	require.NoError(t, err)

	require.Len(t, calendar.calls, 1)
	assert.Equal(t, time.Date(2025, 12, 6, 10, 0, 0, 0, time.UTC), calendar.calls[0].from)
	assert.Equal(t, time.Date(2025, 12, 8, 11, 0, 0, 0, time.UTC), calendar.calls[0].to)

	assert.Equal(t, []string{"2025-12-06", "2025-12-07", "2025-12-08"}, resp.Dates)
	assert.Len(t, resp.Days["2025-12-06"], 11)
	assert.NotContains(t, resp.Days["2025-12-06"], "10:00")
	assert.Empty(t, resp.Days["2025-12-07"])
	assert.Len(t, resp.Days["2025-12-08"], 6)
	assert.Equal(t, "10:30", resp.Days["2025-12-08"][0])
}

func TestExecute_MalformedRangesAreCounted(t *testing.T) {
	day := date(2025, 12, 6)
	calendar := &fakeCalendar{busy: map[string]*domain.DayBusy{
		"20251206": {Ranges: []string{"garbage", "10:00-10:10", "1x:00-11:00"}},
	}}
	m := &fakeMetrics{}
	uc := NewUseCase(calendar, &fakeBookingRepo{}, shortDay, time.Second, time.Second, m, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{Date: &day})
	require.NoError(t, err)

	assert.Equal(t, 2, m.malformed)
	assert.Len(t, resp.Slots(), 10)
	assert.Equal(t, "10:10", resp.Slots()[0])
}

func TestExecute_EmptyWindowSkipsCollaborators(t *testing.T) {
	day := date(2025, 12, 6)
	calendar := &fakeCalendar{}
	closed := domain.OperatingHours{Location: time.UTC, StartHour: 16, EndHour: 10, SlotMinutes: 5}
	uc := NewUseCase(calendar, &fakeBookingRepo{err: errors.New("must not be called")}, closed, time.Second, time.Second, &fakeMetrics{}, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{Date: &day})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots())
	assert.Empty(t, calendar.calls)
}

func TestExecute_Validation(t *testing.T) {
	uc := NewUseCase(&fakeCalendar{}, &fakeBookingRepo{}, shortDay, time.Second, time.Second, &fakeMetrics{}, logger.NewNop())
	start := date(2025, 12, 6)

	cases := []struct {
		name string
		req  *Request
		want error
	}{
		{name: "nothing", req: &Request{}, want: ErrMissingParameters},
		{name: "only start", req: &Request{Start: &start}, want: ErrMissingParameters},
		{name: "inverted range", req: &Request{Start: &start, End: ptrTime(start.AddDate(0, 0, -1))}, want: ErrInvalidRange},
		{name: "too many days", req: &Request{Start: &start, End: ptrTime(start.AddDate(0, 0, domain.MaxRangeDays))}, want: ErrRangeTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("max range is accepted", func(t *testing.T) {
		end := start.AddDate(0, 0, domain.MaxRangeDays-1)
		resp, err := uc.Execute(context.Background(), &Request{Start: &start, End: &end})
		require.NoError(t, err)
		assert.Len(t, resp.Dates, domain.MaxRangeDays)
	})
}

func TestIsSlotAvailable(t *testing.T) {
	day := date(2025, 12, 6)
	repo := &fakeBookingRepo{bookings: []storedBooking{{date: day, label: "10:05", status: domain.StatusPending}}}

	t.Run("calendar reachable", func(t *testing.T) {
		uc := newShortDayUseCase(&fakeCalendar{busy: afterQuarterPast("20251206")}, repo, &fakeMetrics{})

		available, fallback, err := uc.IsSlotAvailable(context.Background(), day, "10:00")
		require.NoError(t, err)
		assert.True(t, available)
		assert.False(t, fallback)

		available, _, err = uc.IsSlotAvailable(context.Background(), day, "10:05")
		require.NoError(t, err)
		assert.False(t, available)

		available, _, err = uc.IsSlotAvailable(context.Background(), day, "10:20")
		require.NoError(t, err)
		assert.False(t, available, "slot hidden by the calendar")

		available, _, err = uc.IsSlotAvailable(context.Background(), day, "09:00")
		require.NoError(t, err)
		assert.False(t, available, "label outside the grid")
	})

	t.Run("calendar down", func(t *testing.T) {
		uc := newShortDayUseCase(&fakeCalendar{err: errors.New("down")}, repo, &fakeMetrics{})

		available, fallback, err := uc.IsSlotAvailable(context.Background(), day, "10:20")
		require.NoError(t, err)
		assert.True(t, available)
		assert.True(t, fallback)
	})
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

func TestExecute_StalledStoreFailsRequest(t *testing.T) {
	calendar := &fakeCalendar{busy: map[string]*domain.DayBusy{}}
	m := &fakeMetrics{}
	uc := NewUseCase(calendar, &fakeBookingRepo{block: true}, shortDay, time.Second, 30*time.Millisecond, m, logger.NewNop())
	date := time.Date(2025, 12, 6, 0, 0, 0, 0, time.UTC)

	done := make(chan error, 1)
	go func() {
		_, err := uc.Execute(context.Background(), &Request{Date: &date})
		done <- err
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.Contains(t, err.Error(), context.DeadlineExceeded.Error())
	case <-time.After(2 * time.Second):
		t.Fatal("Execute did not return while the booking store was stalled")
	}
	assert.Empty(t, m.served)
}
