package get_booking_confirmation

import (
	"context"

	"github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetByCheckoutSession(ctx context.Context, sessionID string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
