package calendar_diagnostics

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/usecase/get_availability"
)

// AvailabilityService сервис доступности, через который выполняется пробный запрос
type AvailabilityService interface {
	Execute(ctx context.Context, req *get_availability.Request) (*get_availability.Response, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
