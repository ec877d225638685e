package reschedule_booking

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
	msgMissingFields      = "Missing required fields"
	msgInvalidNewSlot     = "Please choose a future date (YYYY-MM-DD) and time (HH:MM)"
	msgBookingNotFound    = "Booking not found"
	msgEmailMismatch      = "Email does not match this booking"
	msgCannotReschedule   = "Cannot reschedule a cancelled booking"
	msgBookingInPast      = "Cannot reschedule past events"
	msgRescheduleFailed   = "Unable to process reschedule request"
	msgRescheduleAccepted = "Reschedule request submitted. You'll receive confirmation within 24 hours."
)

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Booking *models.BookingResponse `json:"booking"`
}

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

// Handle POST /api/v1/customer/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.RescheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /customer/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if strings.TrimSpace(req.BookingID) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.NewDate) == "" || strings.TrimSpace(req.NewTime) == "" {
		h.logger.Warn("POST /customer/reschedule - Missing required fields: booking_id=%s", req.BookingID)
		handlers.RespondBadRequest(w, msgMissingFields)
		return
	}

	booking, err := h.service.RequestReschedule(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, bookingService.ErrInvalidInput):
			h.logger.Warn("POST /customer/reschedule - Invalid new slot: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondBadRequest(w, msgInvalidNewSlot)

		case errors.Is(err, bookingService.ErrBookingNotFound):
			h.logger.Warn("POST /customer/reschedule - Booking not found: booking_id=%s", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingService.ErrAccessDenied):
			h.logger.Warn("POST /customer/reschedule - Email mismatch: booking_id=%s", req.BookingID)
			handlers.RespondForbidden(w, msgEmailMismatch)

		case errors.Is(err, bookingService.ErrCannotReschedule):
			h.logger.Warn("POST /customer/reschedule - Cannot reschedule: booking_id=%s", req.BookingID)
			handlers.RespondBadRequest(w, msgCannotReschedule)

		case errors.Is(err, bookingService.ErrBookingInPast):
			h.logger.Warn("POST /customer/reschedule - Booking in the past: booking_id=%s", req.BookingID)
			handlers.RespondBadRequest(w, msgBookingInPast)

		default:
			h.logger.Error("POST /customer/reschedule - Failed to request reschedule: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgRescheduleFailed)
		}
		return
	}

	h.logger.Info("POST /customer/reschedule - Reschedule requested: booking_id=%d", booking.ID)
	handlers.RespondJSON(w, http.StatusOK, &RescheduleResponse{
		Success: true,
		Message: msgRescheduleAccepted,
		Booking: booking,
	})
}
