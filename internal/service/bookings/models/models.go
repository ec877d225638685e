package models

import (
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

// Request модели

// LookupRequest поиск бронирования клиентом
// Email обязателен; BookingID (числовой id или reference) сужает поиск до конкретного бронирования.
type LookupRequest struct {
	Email     string `json:"email"`
	BookingID string `json:"bookingId"`
}

// CancelBookingRequest запрос клиента на отмену
type CancelBookingRequest struct {
	BookingID string `json:"bookingId"`
	Email     string `json:"email"`
}

// RescheduleRequest запрос клиента на перенос
type RescheduleRequest struct {
	BookingID string `json:"bookingId"`
	Email     string `json:"email"`
	NewDate   string `json:"newDate"` // "2025-12-08"
	NewTime   string `json:"newTime"` // "11:00"
	Reason    string `json:"reason"`
}

// Response модели

// BookingResponse данные бронирования для клиента (без служебных идентификаторов платежа)
type BookingResponse struct {
	ID              int64   `json:"id"`
	DisplayID       string  `json:"bookingReference"`
	ClientName      string  `json:"customerName"`
	EventType       string  `json:"eventType"`
	EventDate       string  `json:"eventDate"` // "2025-12-06"
	StartTime       string  `json:"startTime"` // "10:05"
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Location        string  `json:"location"`
	Status          string  `json:"status"`
	PackageID       string  `json:"packageId"`
	PackageName     string  `json:"packageName"`
	PackageAmount   *int64  `json:"packageAmount,omitempty"` // в минимальных единицах
	PackageCurrency *string `json:"packageCurrency,omitempty"`
	DepositPaid     bool    `json:"depositPaid"`
	PaidAt          *string `json:"paidAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
}

// CancelResponse результат отмены с расчетом возврата
type CancelResponse struct {
	Booking       BookingResponse `json:"booking"`
	DaysUntil     int             `json:"daysUntilEvent"`
	RefundPercent int             `json:"refundPercent"`
	RefundAmount  int64           `json:"refundAmount"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		DisplayID:       b.DisplayID(),
		ClientName:      b.ClientName,
		EventType:       b.EventType,
		EventDate:       b.EventDate.Format(domain.DateFormat),
		StartTime:       b.StartTime.String(),
		EndTime:         b.EndTime.String(),
		DurationMinutes: b.DurationMinutes,
		Location:        b.Location,
		Status:          string(b.Status),
		PackageID:       b.PackageID,
		PackageName:     b.PackageName,
		PackageAmount:   b.PackageAmount,
		PackageCurrency: b.PackageCurrency,
		DepositPaid:     b.DepositPaid,
		CreatedAt:       b.CreatedAt,
	}

	// Конвертируем PaidAt в строку ISO 8601
	if b.PaidAt != nil {
		paid := b.PaidAt.UTC().Format(time.RFC3339)
		resp.PaidAt = &paid
	}

	return resp
}
