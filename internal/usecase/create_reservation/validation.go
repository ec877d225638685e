package create_reservation

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/service/slots"
)

const maxIdempotencyKeyLen = 64

// referenceNamespace пространство имен для ссылок, полученных из произвольных ключей идемпотентности
var referenceNamespace = uuid.MustParse("3d0a6f4e-8c2b-5e71-9b4a-1f6c2d8e0a57")

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidInput, err)
	}

	if strings.TrimSpace(req.PackageID) == "" {
		return fmt.Errorf("%w: package is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLen {
		return fmt.Errorf("%w: customer name is too long", ErrInvalidInput)
	}

	if _, err := mail.ParseAddress(strings.TrimSpace(req.CustomerEmail)); err != nil {
		return fmt.Errorf("%w: customer email is invalid", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerPhone) == "" {
		return fmt.Errorf("%w: customer phone is required", ErrInvalidInput)
	}

	if len(req.IdempotencyKey) > maxIdempotencyKeyLen {
		return fmt.Errorf("%w: idempotency key is too long", ErrInvalidInput)
	}

	return nil
}

// findPackage ищет пакет в каталоге; пакет без цены продавать нельзя
func findPackage(catalog []domain.Package, id string) (domain.Package, error) {
	for _, p := range catalog {
		if p.ID == id {
			if !p.IsAvailable() {
				return domain.Package{}, ErrPackageUnavailable
			}
			return p, nil
		}
	}
	return domain.Package{}, ErrUnknownPackage
}

// slotStart проверяет, что метка есть в сетке дня и слот еще не начался; возвращает момент начала
func slotStart(req *Request, hours domain.OperatingHours, now time.Time) (time.Time, error) {
	window := slots.BuildDayWindow(req.Date, hours)
	if !window.HasLabel(req.StartTime.String()) {
		return time.Time{}, fmt.Errorf("%w: %s on %s", ErrInvalidTimeSlot, req.StartTime, window.Date())
	}

	start, err := req.StartTime.On(req.Date, hours.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !start.After(now) {
		return time.Time{}, ErrDateInPast
	}
	return start, nil
}

// referenceFromKey переводит ключ идемпотентности в uuid-ссылку бронирования
// Ключ-uuid используется как есть, любой другой ключ детерминированно отображается в uuid v5.
func referenceFromKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if id, err := uuid.Parse(key); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(referenceNamespace, []byte(key)).String()
}
