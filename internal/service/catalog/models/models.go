package models

import "github.com/m04kA/SMC-PhotoBookingService/internal/domain"

// PackageResponse пакет для витрины
type PackageResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
	Amount      *int64  `json:"amount"`   // в минимальных единицах, null если цена не задана
	Currency    *string `json:"currency"` // ISO 4217, null если цена не задана
}

// CatalogResponse каталог пакетов с длительностью слота
type CatalogResponse struct {
	Packages    []PackageResponse `json:"packages"`
	SlotMinutes int               `json:"slotMinutes"`
}

// FromDomainPackage конвертирует domain модель в DTO
// checkoutEnabled - включена ли оплата; без нее пакет купить нельзя
func FromDomainPackage(p domain.Package, checkoutEnabled bool) PackageResponse {
	resp := PackageResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Available:   checkoutEnabled && p.IsAvailable(),
	}
	if p.Amount > 0 {
		amount := p.Amount
		resp.Amount = &amount
		if p.Currency != "" {
			currency := p.Currency
			resp.Currency = &currency
		}
	}
	return resp
}
