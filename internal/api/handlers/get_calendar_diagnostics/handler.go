package get_calendar_diagnostics

import (
	"net/http"

	"github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers"
)

type Handler struct {
	useCase CalendarDiagnosticsUseCase
	logger  Logger
}

func NewHandler(useCase CalendarDiagnosticsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar/diagnostics
// Ошибка пробного запроса входит в отчет, поэтому ответ всегда 200
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	report := h.useCase.Execute(r.Context())

	if report.Today.Error != "" {
		h.logger.Warn("GET /calendar/diagnostics - Availability check failed: %s", report.Today.Error)
	} else {
		h.logger.Info("GET /calendar/diagnostics - Availability check succeeded: slots=%d, fallback=%t",
			report.Today.SlotCount, report.Today.Fallback)
	}

	w.Header().Set("Cache-Control", "no-store")
	handlers.RespondJSON(w, http.StatusOK, report)
}
