package get_customer_booking

import (
	"context"

	"github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings/models"
)

type BookingService interface {
	Lookup(ctx context.Context, req *models.LookupRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
