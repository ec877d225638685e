package submit_contact

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

	submitContact "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/submit_contact"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
)

type fakeUseCase struct {
	resp  *submitContact.Response
	err   error
	req   *submitContact.Request
	calls int
}

func (f *fakeUseCase) Execute(_ context.Context, req *submitContact.Request) (*submitContact.Response, error) {
	f.calls++
	f.req = req
	return f.resp, f.err
}

const validBody = `{"name":"Jane Citizen","email":"jane@example.com","subject":"Family portraits","message":"Do you have weekend sessions?"}`

func post(uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact-messages", strings.NewReader(body))
	req.RemoteAddr = "203.0.113.7:52114"
	req.Header.Set("User-Agent", "Mozilla/5.0")
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	uc := &fakeUseCase{resp: &submitContact.Response{MessageID: 42, DisplayID: "MSG-000042", EmailSent: true}}

	rec := post(uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp SubmitContactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, SubmitContactResponse{
		Success:   true,
		Message:   "Message sent successfully!",
		MessageID: 42,
		Reference: "MSG-000042",
		EmailSent: true,
	}, resp)

	assert.Equal(t, &submitContact.Request{
		Name:      "Jane Citizen",
		Email:     "jane@example.com",
		Subject:   "Family portraits",
		Message:   "Do you have weekend sessions?",
		IPAddress: "203.0.113.7",
		UserAgent: "Mozilla/5.0",
	}, uc.req)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
		wantCalls  int
	}{
		{"bad json", `{`, nil, http.StatusBadRequest, msgInvalidRequestBody, 0},
		{"missing name", `{"email":"jane@example.com","message":"hi"}`, nil, http.StatusBadRequest, msgMissingFields, 0},
		{"missing message", `{"name":"Jane","email":"jane@example.com","message":"  "}`, nil, http.StatusBadRequest, msgMissingFields, 0},
		{
			"invalid email",
			`{"name":"Jane","email":"jane.example.com","message":"hi"}`,
			fmt.Errorf("%w: email is invalid", submitContact.ErrInvalidInput),
			http.StatusBadRequest,
			msgInvalidInput,
			1,
		},
		{
			"store failure",
			validBody,
			fmt.Errorf("%w: failed to store message: timeout", submitContact.ErrInternal),
			http.StatusInternalServerError,
			msgSendFailed,
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{err: tt.err}
			rec := post(uc, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalls, uc.calls)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", clientIP(req))

	req.RemoteAddr = "198.51.100.4"
	assert.Equal(t, "198.51.100.4", clientIP(req))
}
