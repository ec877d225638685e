package calendar_diagnostics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PhotoBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
)

type fakeAvailability struct {
	resp *get_availability.Response
	err  error
	req  *get_availability.Request
}

func (f *fakeAvailability) Execute(_ context.Context, req *get_availability.Request) (*get_availability.Response, error) {
	f.req = req
	return f.resp, f.err
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

var settings = Settings{
	ClientID:     "1000.ABC",
	ClientSecret: "secret",
	RefreshToken: "refresh",
	CalendarID:   "primary",
	FreeBusyUser: "studio@example.com",
	Timezone:     "Australia/Sydney",
	StartHour:    10,
	EndHour:      16,
	SlotMinutes:  5,
}

func newUseCase(availability AvailabilityService) *UseCase {
	sydney := time.FixedZone("AEDT", 11*3600)
	uc := NewUseCase(availability, settings, sydney, logger.NewNop())
	// 2025-12-05 23:30 UTC это уже 6 декабря в Сиднее
	uc.timeProvider = fixedTime{now: time.Date(2025, 12, 5, 23, 30, 0, 0, time.UTC)}
	return uc
}

func TestExecute_ReportsConfigAndTodayAvailability(t *testing.T) {
	availability := &fakeAvailability{resp: &get_availability.Response{
		Dates:       []string{"2025-12-06"},
		Days:        map[string][]string{"2025-12-06": {"10:00", "10:05", "10:10", "10:15"}},
		SlotMinutes: 5,
	}}

	report := newUseCase(availability).Execute(context.Background())

	assert.True(t, report.Config.HasClientID)
	assert.True(t, report.Config.HasRefreshToken)
	assert.False(t, report.Config.HasRedirectURI)
	assert.Equal(t, "stu***@example.com", report.Config.FreeBusyUser)

	require.NotNil(t, availability.req.Date)
	assert.Equal(t, "2025-12-06", report.Today.Date)
	assert.Equal(t, 4, report.Today.SlotCount)
	assert.Equal(t, []string{"10:00", "10:05", "10:10"}, report.Today.SampleSlots)
	assert.False(t, report.Today.Fallback)
	assert.Empty(t, report.Today.Error)
}

func TestExecute_AvailabilityErrorIsReported(t *testing.T) {
	report := newUseCase(&fakeAvailability{err: errors.New("booking store unavailable")}).Execute(context.Background())

	assert.Equal(t, "booking store unavailable", report.Today.Error)
	assert.Zero(t, report.Today.SlotCount)
	assert.Empty(t, report.Today.SampleSlots)
}

func TestExecute_FallbackIsReported(t *testing.T) {
	availability := &fakeAvailability{resp: &get_availability.Response{
		Dates:    []string{"2025-12-06"},
		Days:     map[string][]string{"2025-12-06": {"10:00"}},
		Fallback: true,
	}}

	report := newUseCase(availability).Execute(context.Background())

	assert.True(t, report.Today.Fallback)
	assert.Equal(t, []string{"10:00"}, report.Today.SampleSlots)
}
