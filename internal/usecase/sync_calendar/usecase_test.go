package sync_calendar

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/zohocalendar"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	statuses []domain.BookingStatus
	listErr  error
	setErr   map[int64]error
	stored   map[int64]string
}

func (r *fakeBookingRepo) ListWithoutCalendarEvent(_ context.Context, statuses []domain.BookingStatus) ([]*domain.Booking, error) {
	r.statuses = statuses
	return r.bookings, r.listErr
}

func (r *fakeBookingRepo) SetCalendarEventID(_ context.Context, id int64, eventID string) error {
	if err := r.setErr[id]; err != nil {
		return err
	}
	if r.stored == nil {
		r.stored = map[int64]string{}
	}
	r.stored[id] = eventID
	return nil
}

type fakeCalendar struct {
	unconfigured bool
	inputs       []zohocalendar.EventInput
	failTitles   map[string]bool
}

func (c *fakeCalendar) IsConfigured() bool {
	return !c.unconfigured
}

func (c *fakeCalendar) CreateEvent(_ context.Context, input zohocalendar.EventInput) (string, error) {
	if c.failTitles[input.Title] {
		return "", errors.New("zoho 500")
	}
	c.inputs = append(c.inputs, input)
	return fmt.Sprintf("evt-%d", len(c.inputs)), nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

func booking(id int64, day int, start, pkg string) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		Reference:       fmt.Sprintf("ref-%d", id),
		EventDate:       time.Date(2025, 12, day, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString(start),
		DurationMinutes: 5,
		PackageName:     pkg,
		EventType:       "Photo Session",
		Status:          domain.StatusConfirmed,
	}
}

func TestExecute_CreatesMissingEvents(t *testing.T) {
	repo := &fakeBookingRepo{bookings: []*domain.Booking{
		booking(1, 6, "10:05", "Rudolph"),
		booking(2, 1, "10:00", "Blitzen"),
		booking(3, 7, "11:00", "Vixen"),
	}}
	calendar := &fakeCalendar{failTitles: map[string]bool{"Vixen - Photo Session": true}}

	uc := NewUseCase(repo, calendar, time.UTC, logger.NewNop())
	uc.timeProvider = fixedTime{now: time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Processed)
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 1, resp.Skipped)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "booking 3")

	assert.Equal(t, domain.OccupyingStatuses, repo.statuses)
	assert.Equal(t, map[int64]string{1: "evt-1"}, repo.stored)

	require.Len(t, calendar.inputs, 1)
	assert.Equal(t, "Rudolph - Photo Session", calendar.inputs[0].Title)
	assert.Equal(t, time.Date(2025, 12, 6, 10, 5, 0, 0, time.UTC), calendar.inputs[0].Start)
	assert.Equal(t, 5*time.Minute, calendar.inputs[0].Duration)
}

func TestExecute_StoreFailureAfterEventCreated(t *testing.T) {
	repo := &fakeBookingRepo{
		bookings: []*domain.Booking{booking(1, 6, "10:05", "Rudolph")},
		setErr:   map[int64]error{1: errors.New("db down")},
	}
	uc := NewUseCase(repo, &fakeCalendar{}, time.UTC, logger.NewNop())
	uc.timeProvider = fixedTime{now: time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC)}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Failed)
	assert.Zero(t, resp.Created)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("calendar not configured", func(t *testing.T) {
		uc := NewUseCase(&fakeBookingRepo{}, &fakeCalendar{unconfigured: true}, time.UTC, logger.NewNop())

		_, err := uc.Execute(context.Background())
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("list failure", func(t *testing.T) {
		uc := NewUseCase(&fakeBookingRepo{listErr: errors.New("boom")}, &fakeCalendar{}, time.UTC, logger.NewNop())

		_, err := uc.Execute(context.Background())
		assert.ErrorIs(t, err, ErrInternal)
	})
}
