package get_calendar_diagnostics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendarDiagnostics "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/calendar_diagnostics"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
)

type fakeUseCase struct {
	report *calendarDiagnostics.Report
}

func (f *fakeUseCase) Execute(_ context.Context) *calendarDiagnostics.Report {
	return f.report
}

func TestHandle_AvailabilityErrorStillOK(t *testing.T) {
	uc := &fakeUseCase{report: &calendarDiagnostics.Report{
		Config: calendarDiagnostics.ConfigReport{HasClientID: true, CalendarID: "primary", SlotMinutes: 5},
		Today:  calendarDiagnostics.TodayReport{Date: "2025-12-06", Error: "booking store unavailable"},
	}}

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/calendar/diagnostics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body calendarDiagnostics.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Config.HasClientID)
	assert.False(t, body.Config.HasClientSecret)
	assert.Equal(t, "booking store unavailable", body.Today.Error)
}
