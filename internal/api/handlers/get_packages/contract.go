package get_packages

import (
	"context"

	"github.com/m04kA/SMC-PhotoBookingService/internal/service/catalog/models"
)

type CatalogService interface {
	List(ctx context.Context) *models.CatalogResponse
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
