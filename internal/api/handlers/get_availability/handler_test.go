package get_availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailability "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
)

type fakeUseCase struct {
	resp *getAvailability.Response
	err  error
	req  *getAvailability.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	f.req = req
	return f.resp, f.err
}

func serve(t *testing.T, uc *fakeUseCase, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandle_SingleDay(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailability.Response{
		Dates:       []string{"2025-12-06"},
		Days:        map[string][]string{"2025-12-06": {"10:00", "10:05"}},
		SlotMinutes: 5,
	}}

	rec, body := serve(t, uc, "/api/v1/availability?date=2025-12-06")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-12-06", body["date"])
	assert.Equal(t, []interface{}{"10:00", "10:05"}, body["slots"])
	assert.EqualValues(t, 5, body["slotMinutes"])
	assert.NotContains(t, body, "fallback")
	require.NotNil(t, uc.req.Date)
	assert.False(t, uc.req.IsRange())
}

func TestHandle_RangeWithFallback(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailability.Response{
		Dates:       []string{"2025-12-06", "2025-12-07"},
		Days:        map[string][]string{"2025-12-06": {"10:00"}, "2025-12-07": nil},
		SlotMinutes: 5,
		Fallback:    true,
	}}

	rec, body := serve(t, uc, "/api/v1/availability?start=2025-12-06&end=2025-12-07")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["fallback"])
	days, ok := body["days"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"10:00"}, days["2025-12-06"])
	assert.Equal(t, []interface{}{}, days["2025-12-07"])
	assert.True(t, uc.req.IsRange())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "no parameters",
			target:     "/api/v1/availability",
			wantStatus: http.StatusBadRequest,
			wantError:  msgMissingParameters,
		},
		{
			name:       "half a range",
			target:     "/api/v1/availability?start=2025-12-06",
			wantStatus: http.StatusBadRequest,
			wantError:  msgMissingParameters,
		},
		{
			name:       "bad date",
			target:     "/api/v1/availability?date=06-12-2025",
			wantStatus: http.StatusBadRequest,
			wantError:  msgInvalidDate,
		},
		{
			name:       "reversed range",
			target:     "/api/v1/availability?start=2025-12-08&end=2025-12-06",
			err:        getAvailability.ErrInvalidRange,
			wantStatus: http.StatusBadRequest,
			wantError:  msgInvalidRange,
		},
		{
			name:       "store unavailable",
			target:     "/api/v1/availability?date=2025-12-06",
			err:        errors.Join(getAvailability.ErrStoreUnavailable, errors.New("dial tcp: connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantError:  msgUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serve(t, &fakeUseCase{err: tt.err}, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}
