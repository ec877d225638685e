package cancel_booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers"
	bookingService "github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgBookingIDRequired  = "Booking ID required"
	msgEmailRequired      = "Email address required"
	msgBookingNotFound    = "Booking not found"
	msgEmailMismatch      = "Email does not match this booking"
	msgAlreadyCancelled   = "Booking is already cancelled"
	msgCannotCancel       = "This booking cannot be cancelled"
	msgCancelFailed       = "Unable to cancel booking"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/customer/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /customer/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.BookingID) == "" {
		h.logger.Warn("POST /customer/cancel - Missing booking ID")
		handlers.RespondBadRequest(w, msgBookingIDRequired)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		h.logger.Warn("POST /customer/cancel - Missing email: booking_id=%s", req.BookingID)
		handlers.RespondBadRequest(w, msgEmailRequired)
		return
	}

	result, err := h.service.Cancel(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, bookingService.ErrBookingNotFound):
			h.logger.Warn("POST /customer/cancel - Booking not found: booking_id=%s", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingService.ErrAccessDenied):
			h.logger.Warn("POST /customer/cancel - Email mismatch: booking_id=%s", req.BookingID)
			handlers.RespondForbidden(w, msgEmailMismatch)

		case errors.Is(err, bookingService.ErrAlreadyCancelled):
			h.logger.Warn("POST /customer/cancel - Already cancelled: booking_id=%s", req.BookingID)
			handlers.RespondBadRequest(w, msgAlreadyCancelled)

		case errors.Is(err, bookingService.ErrCannotCancel):
			h.logger.Warn("POST /customer/cancel - Cannot cancel: booking_id=%s", req.BookingID)
			handlers.RespondBadRequest(w, msgCannotCancel)

		case errors.Is(err, bookingService.ErrInvalidInput):
			h.logger.Warn("POST /customer/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgBookingIDRequired)

		default:
			h.logger.Error("POST /customer/cancel - Failed to cancel booking: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgCancelFailed)
		}
		return
	}

	h.logger.Info("POST /customer/cancel - Booking cancelled: booking_id=%d, refund=%d%%",
		result.Booking.ID, result.RefundPercent)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
