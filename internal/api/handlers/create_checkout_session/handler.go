package create_checkout_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers"
	createReservation "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/create_reservation"
)

const (
	headerIdempotencyKey = "Idempotency-Key"

	msgInvalidRequestBody  = "Invalid request body."
	msgMissingDetails      = "Missing booking details for checkout."
	msgMissingContact      = "Please provide your contact details before continuing."
	msgInvalidDate         = "Selected date must use the YYYY-MM-DD format."
	msgInvalidTime         = "Selected time must use the HH:MM format."
	msgInvalidInput        = "Please check your booking details and try again."
	msgPackageUnavailable  = "Selected package is unavailable."
	msgInvalidTimeSlot     = "Selected time is not a bookable session slot."
	msgDateInPast          = "That session time has already passed. Please choose another slot."
	msgSlotConflict        = "That session time has just been booked. Please choose another slot."
	msgDuplicateRequest    = "This booking is already being processed. Please wait a moment and try again."
	msgCheckoutUnavailable = "Stripe payment processing is not configured."
	msgStartPaymentFailed  = "Unable to start payment. Please try again."
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/checkout-sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /checkout-sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if !req.HasBookingDetails() {
		h.logger.Warn("POST /checkout-sessions - Missing booking details")
		handlers.RespondBadRequest(w, msgMissingDetails)
		return
	}
	if !req.HasContactDetails() {
		h.logger.Warn("POST /checkout-sessions - Missing contact details: date=%s, time=%s", req.SelectedDate, req.SelectedTime)
		handlers.RespondBadRequest(w, msgMissingContact)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(r.Header.Get(headerIdempotencyKey))
	if err != nil {
		h.logger.Warn("POST /checkout-sessions - Failed to parse slot: date=%s, time=%s, error=%v", req.SelectedDate, req.SelectedTime, err)
		if errors.Is(err, errInvalidDate) {
			handlers.RespondBadRequest(w, msgInvalidDate)
		} else {
			handlers.RespondBadRequest(w, msgInvalidTime)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrSlotConflict):
			h.logger.Warn("POST /checkout-sessions - Slot conflict: date=%s, time=%s", req.SelectedDate, req.SelectedTime)
			handlers.RespondJSON(w, http.StatusConflict, &SlotConflictResponse{
				Error: msgSlotConflict,
				Date:  req.SelectedDate,
				Time:  req.SelectedTime,
			})

		case errors.Is(err, createReservation.ErrCheckoutNotConfigured):
			h.logger.Error("POST /checkout-sessions - Checkout is not configured")
			handlers.RespondServiceUnavailable(w, msgCheckoutUnavailable)

		case errors.Is(err, createReservation.ErrUnknownPackage),
			errors.Is(err, createReservation.ErrPackageUnavailable):
			h.logger.Warn("POST /checkout-sessions - Package unavailable: package_id=%s", req.PackageID)
			handlers.RespondBadRequest(w, msgPackageUnavailable)

		case errors.Is(err, createReservation.ErrInvalidTimeSlot):
			h.logger.Warn("POST /checkout-sessions - Invalid time slot: date=%s, time=%s", req.SelectedDate, req.SelectedTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createReservation.ErrDateInPast):
			h.logger.Warn("POST /checkout-sessions - Slot in the past: date=%s, time=%s", req.SelectedDate, req.SelectedTime)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /checkout-sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrDuplicateRequest):
			h.logger.Warn("POST /checkout-sessions - Duplicate request in progress: date=%s, time=%s", req.SelectedDate, req.SelectedTime)
			handlers.RespondConflict(w, msgDuplicateRequest)

		default:
			h.logger.Error("POST /checkout-sessions - Failed to start checkout: date=%s, time=%s, package_id=%s, error=%v",
				req.SelectedDate, req.SelectedTime, req.PackageID, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgStartPaymentFailed)
		}
		return
	}

	h.logger.Info("POST /checkout-sessions - Checkout started: booking_id=%d, reference=%s, replayed=%t",
		result.BookingID, result.DisplayID, result.Replayed)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
