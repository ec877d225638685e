package create_checkout_session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	createReservation "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid selected date")
	errInvalidTime = errors.New("invalid selected time")
)

// CreateCheckoutSessionRequest HTTP request model
type CreateCheckoutSessionRequest struct {
	SelectedDate   string `json:"selectedDate"` // "2025-12-06"
	SelectedTime   string `json:"selectedTime"` // "10:05"
	PackageID      string `json:"packageId"`
	Location       string `json:"location"`
	CustomerName   string `json:"customerName"`
	CustomerEmail  string `json:"customerEmail"`
	CustomerPhone  string `json:"customerPhone"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// CheckoutSessionResponse HTTP response model
type CheckoutSessionResponse struct {
	URL       string `json:"url"`
	BookingID int64  `json:"bookingId"`
	Reference string `json:"reference"`
}

// SlotConflictResponse тело ответа 409
type SlotConflictResponse struct {
	Error string `json:"error"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// HasBookingDetails проверяет наличие полей слота и пакета
func (r *CreateCheckoutSessionRequest) HasBookingDetails() bool {
	return strings.TrimSpace(r.SelectedDate) != "" &&
		strings.TrimSpace(r.SelectedTime) != "" &&
		strings.TrimSpace(r.PackageID) != "" &&
		strings.TrimSpace(r.Location) != ""
}

// HasContactDetails проверяет наличие контактов клиента
func (r *CreateCheckoutSessionRequest) HasContactDetails() bool {
	return strings.TrimSpace(r.CustomerName) != "" &&
		strings.TrimSpace(r.CustomerEmail) != "" &&
		strings.TrimSpace(r.CustomerPhone) != ""
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Заголовок Idempotency-Key используется, если ключ не передан в теле
func (r *CreateCheckoutSessionRequest) ToUseCaseRequest(headerKey string) (*createReservation.Request, error) {
	date, err := time.Parse(domain.DateFormat, strings.TrimSpace(r.SelectedDate))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(strings.TrimSpace(r.SelectedTime))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	key := strings.TrimSpace(r.IdempotencyKey)
	if key == "" {
		key = strings.TrimSpace(headerKey)
	}

	return &createReservation.Request{
		Date:           date,
		StartTime:      startTime,
		PackageID:      strings.TrimSpace(r.PackageID),
		Location:       strings.TrimSpace(r.Location),
		CustomerName:   strings.TrimSpace(r.CustomerName),
		CustomerEmail:  strings.TrimSpace(r.CustomerEmail),
		CustomerPhone:  strings.TrimSpace(r.CustomerPhone),
		IdempotencyKey: key,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *CheckoutSessionResponse {
	return &CheckoutSessionResponse{
		URL:       resp.RedirectURL,
		BookingID: resp.BookingID,
		Reference: resp.DisplayID,
	}
}
