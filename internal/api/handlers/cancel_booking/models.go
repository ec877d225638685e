package cancel_booking

import "github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings/models"

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Success       bool                   `json:"success"`
	Message       string                 `json:"message"`
	RefundPercent int                    `json:"refundPercent"`
	RefundAmount  int64                  `json:"refundAmount"` // в минимальных единицах валюты
	RefundReason  string                 `json:"refundReason"`
	Booking       models.BookingResponse `json:"booking"`
}

// refundReason текст политики возврата для клиента
func refundReason(daysUntil, percent int) string {
	switch {
	case daysUntil < 0:
		return "Event already passed - no refund"
	case percent == 90:
		return "21+ days before event - Full refund (minus 10% admin fee)"
	case percent == 50:
		return "8-20 days before event - 50% refund"
	default:
		return "Less than 8 days before event - Non-refundable per policy"
	}
}

// FromServiceResponse конвертирует результат отмены в HTTP response
func FromServiceResponse(resp *models.CancelResponse) *CancelBookingResponse {
	return &CancelBookingResponse{
		Success:       true,
		Message:       "Booking cancelled successfully",
		RefundPercent: resp.RefundPercent,
		RefundAmount:  resp.RefundAmount,
		RefundReason:  refundReason(resp.DaysUntil, resp.RefundPercent),
		Booking:       resp.Booking,
	}
}
