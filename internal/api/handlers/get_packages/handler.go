package get_packages

import (
	"net/http"

	"github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/packages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	catalog := h.service.List(r.Context())

	h.logger.Info("GET /packages - Catalog retrieved: packages=%d", len(catalog.Packages))
	handlers.RespondJSON(w, http.StatusOK, catalog)
}
