package cancel_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingService "github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
)

type fakeService struct {
	resp *models.CancelResponse
	err  error
	req  *models.CancelBookingRequest
}

func (f *fakeService) Cancel(_ context.Context, req *models.CancelBookingRequest) (*models.CancelResponse, error) {
	f.req = req
	return f.resp, f.err
}

func post(svc *fakeService, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customer/cancel", strings.NewReader(body))
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &fakeService{resp: &models.CancelResponse{
		Booking:       models.BookingResponse{ID: 12, Status: "cancelled"},
		DaysUntil:     14,
		RefundPercent: 50,
		RefundAmount:  6498,
	}}

	rec := post(svc, `{"bookingId":"12","email":"Jane@Example.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CancelBookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 50, resp.RefundPercent)
	assert.Equal(t, int64(6498), resp.RefundAmount)
	assert.Equal(t, "8-20 days before event - 50% refund", resp.RefundReason)
	assert.Equal(t, "cancelled", resp.Booking.Status)
	assert.Equal(t, "Jane@Example.com", svc.req.Email)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"missing id", `{"email":"jane@example.com"}`, nil, http.StatusBadRequest, msgBookingIDRequired},
		{"missing email", `{"bookingId":"12"}`, nil, http.StatusBadRequest, msgEmailRequired},
		{"bad json", `{`, nil, http.StatusBadRequest, msgInvalidRequestBody},
		{"not found", `{"bookingId":"12","email":"jane@example.com"}`, bookingService.ErrBookingNotFound, http.StatusNotFound, msgBookingNotFound},
		{"wrong email", `{"bookingId":"12","email":"jane@example.com"}`, bookingService.ErrAccessDenied, http.StatusForbidden, msgEmailMismatch},
		{"already cancelled", `{"bookingId":"12","email":"jane@example.com"}`, bookingService.ErrAlreadyCancelled, http.StatusBadRequest, msgAlreadyCancelled},
		{"failed booking", `{"bookingId":"12","email":"jane@example.com"}`, bookingService.ErrCannotCancel, http.StatusBadRequest, msgCannotCancel},
		{
			"store failure",
			`{"bookingId":"12","email":"jane@example.com"}`,
			fmt.Errorf("%w: Cancel - repository error: timeout", bookingService.ErrInternal),
			http.StatusInternalServerError,
			msgCancelFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(&fakeService{err: tt.err}, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestRefundReason(t *testing.T) {
	assert.Equal(t, "Event already passed - no refund", refundReason(-1, 0))
	assert.Equal(t, "21+ days before event - Full refund (minus 10% admin fee)", refundReason(30, 90))
	assert.Equal(t, "Less than 8 days before event - Non-refundable per policy", refundReason(3, 0))
}
