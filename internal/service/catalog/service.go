package catalog

import (
	"context"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/service/catalog/models"
)

// Service сервис каталога пакетов фотосессий
// Каталог задается конфигурацией и не меняется во время работы
type Service struct {
	packages    []domain.Package
	slotMinutes int
	checkout    CheckoutClient
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(packages []domain.Package, slotMinutes int, checkout CheckoutClient, logger Logger) *Service {
	return &Service{
		packages:    packages,
		slotMinutes: slotMinutes,
		checkout:    checkout,
		logger:      logger,
	}
}

// List возвращает каталог в порядке конфигурации
func (s *Service) List(_ context.Context) *models.CatalogResponse {
	checkoutEnabled := s.checkout.IsConfigured()

	resp := &models.CatalogResponse{
		Packages:    make([]models.PackageResponse, 0, len(s.packages)),
		SlotMinutes: s.slotMinutes,
	}

	unavailable := 0
	for _, p := range s.packages {
		pkg := models.FromDomainPackage(p, checkoutEnabled)
		if !pkg.Available {
			unavailable++
		}
		resp.Packages = append(resp.Packages, pkg)
	}

	if unavailable > 0 {
		s.logger.Warn("List: %d of %d packages are unavailable (checkout_enabled=%t)",
			unavailable, len(s.packages), checkoutEnabled)
	}
	return resp
}

// Get возвращает пакет по идентификатору
func (s *Service) Get(_ context.Context, id string) (*models.PackageResponse, error) {
	checkoutEnabled := s.checkout.IsConfigured()
	for _, p := range s.packages {
		if p.ID == id {
			pkg := models.FromDomainPackage(p, checkoutEnabled)
			return &pkg, nil
		}
	}
	return nil, ErrPackageNotFound
}
