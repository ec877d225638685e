package get_customer_booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers"
	bookingService "github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings/models"
)

const (
	msgEmailRequired  = "Email address required"
	msgNotFound       = "No booking found with that email address"
	msgEmailMismatch  = "Email does not match this booking"
	msgRetrieveFailed = "Unable to retrieve booking"
)

// CustomerBookingResponse HTTP response model
type CustomerBookingResponse struct {
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

// Handle GET /api/v1/customer/booking?email=&bookingId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &models.LookupRequest{
		Email:     query.Get("email"),
		BookingID: query.Get("bookingId"),
	}

	if strings.TrimSpace(req.Email) == "" {
		h.logger.Warn("GET /customer/booking - Missing email")
		handlers.RespondBadRequest(w, msgEmailRequired)
		return
	}

	booking, err := h.service.Lookup(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookingService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgEmailRequired)

		case errors.Is(err, bookingService.ErrBookingNotFound):
			h.logger.Warn("GET /customer/booking - Booking not found: booking_id=%s", req.BookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookingService.ErrAccessDenied):
			h.logger.Warn("GET /customer/booking - Email mismatch: booking_id=%s", req.BookingID)
			handlers.RespondForbidden(w, msgEmailMismatch)

		default:
			h.logger.Error("GET /customer/booking - Failed to look up booking: booking_id=%s, error=%v", req.BookingID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgRetrieveFailed)
		}
		return
	}

	h.logger.Info("GET /customer/booking - Booking retrieved: booking_id=%d", booking.ID)
	handlers.RespondJSON(w, http.StatusOK, &CustomerBookingResponse{Success: true, Booking: booking})
}
