package get_booking_confirmation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers"
	bookingService "github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings/models"
)

const (
	msgMissingSessionID = "Session ID required"
	msgBookingNotFound  = "Booking not found"
	msgRetrieveFailed   = "Unable to retrieve booking details"
)

// ConfirmationResponse HTTP response model
type ConfirmationResponse struct {
	Success bool                    `json:"success"`
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

// Handle GET /api/v1/booking-confirmation?session_id=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.logger.Warn("GET /booking-confirmation - Missing session_id")
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	booking, err := h.service.GetByCheckoutSession(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, bookingService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgMissingSessionID)

		case errors.Is(err, bookingService.ErrBookingNotFound):
			h.logger.Warn("GET /booking-confirmation - Booking not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		default:
			h.logger.Error("GET /booking-confirmation - Failed to get booking: session_id=%s, error=%v", sessionID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgRetrieveFailed)
		}
		return
	}

	h.logger.Info("GET /booking-confirmation - Booking retrieved: booking_id=%d, status=%s", booking.ID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, &ConfirmationResponse{Success: true, Booking: booking})
}
