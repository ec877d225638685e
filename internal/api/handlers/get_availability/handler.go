package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/get_availability"
)

const (
	msgMissingParameters = "Please provide a date or range to check availability."
	msgInvalidDate       = "Dates must use the YYYY-MM-DD format."
	msgInvalidRange      = "The start of the range must not be after its end."
	msgRangeTooLarge     = "The requested range is too large."
	msgUnavailable       = "Unable to load availability. Please try again."
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: date (YYYY-MM-DD) или start и end (YYYY-MM-DD, включительно)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	date, start, end := query.Get("date"), query.Get("start"), query.Get("end")

	if date == "" && (start == "" || end == "") {
		h.logger.Warn("GET /availability - Missing date or range")
		handlers.RespondBadRequest(w, msgMissingParameters)
		return
	}

	useCaseReq, err := ToUseCaseRequest(date, start, end)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrMissingParameters):
			handlers.RespondBadRequest(w, msgMissingParameters)

		case errors.Is(err, getAvailability.ErrInvalidRange):
			h.logger.Warn("GET /availability - Invalid range: start=%s, end=%s", start, end)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getAvailability.ErrRangeTooLarge):
			h.logger.Warn("GET /availability - Range too large: start=%s, end=%s", start, end)
			handlers.RespondBadRequest(w, msgRangeTooLarge)

		default:
			h.logger.Error("GET /availability - Failed to load availability: date=%s, start=%s, end=%s, error=%v",
				date, start, end, err)
			handlers.RespondError(w, http.StatusInternalServerError, msgUnavailable)
		}
		return
	}

	h.logger.Info("GET /availability - Availability served: days=%d, fallback=%t", len(result.Dates), result.Fallback)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(useCaseReq, result))
}
