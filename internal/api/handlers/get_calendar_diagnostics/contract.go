package get_calendar_diagnostics

import (
	"context"

	calendarDiagnostics "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/calendar_diagnostics"
)

type CalendarDiagnosticsUseCase interface {
	Execute(ctx context.Context) *calendarDiagnostics.Report
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
