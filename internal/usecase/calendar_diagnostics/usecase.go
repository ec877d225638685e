package calendar_diagnostics

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/zohocalendar"
	"github.com/m04kA/SMC-PhotoBookingService/internal/usecase/get_availability"
)

// UseCase use case диагностики интеграции с календарем
type UseCase struct {
	availability AvailabilityService
	settings     Settings
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availability AvailabilityService, settings Settings, location *time.Location, logger Logger) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		availability: availability,
		settings:     settings,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute собирает отчет: наличие настроек и пробный запрос доступности на сегодня
// Ошибка пробного запроса попадает в отчет, а не в возвращаемую ошибку.
func (uc *UseCase) Execute(ctx context.Context) *Report {
	s := uc.settings
	report := &Report{
		Config: ConfigReport{
			HasClientID:     s.ClientID != "",
			HasClientSecret: s.ClientSecret != "",
			HasRefreshToken: s.RefreshToken != "",
			HasRedirectURI:  s.RedirectURI != "",
			AccountsURL:     s.AccountsURL,
			CalendarURL:     s.CalendarURL,
			CalendarID:      s.CalendarID,
			FreeBusyUser:    zohocalendar.MaskEmail(s.FreeBusyUser),
			Timezone:        s.Timezone,
			StartHour:       s.StartHour,
			EndHour:         s.EndHour,
			SlotMinutes:     s.SlotMinutes,
		},
	}

	today := uc.timeProvider.Now().In(uc.location)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, uc.location)
	report.Today = TodayReport{Date: today.Format(domain.DateFormat), SampleSlots: []string{}}

	resp, err := uc.availability.Execute(ctx, &get_availability.Request{Date: &today})
	if err != nil {
		uc.logger.Warn("CalendarDiagnostics: availability check for %s failed: %v", report.Today.Date, err)
		report.Today.Error = err.Error()
		return report
	}

	slots := resp.Slots()
	report.Today.SlotCount = len(slots)
	report.Today.Fallback = resp.Fallback
	if len(slots) > domain.SampleSlotsCount {
		slots = slots[:domain.SampleSlotsCount]
	}
	report.Today.SampleSlots = append(report.Today.SampleSlots, slots...)

	uc.logger.Info("CalendarDiagnostics: availability check %s slots=%d fallback=%t", report.Today.Date, report.Today.SlotCount, report.Today.Fallback)
	return report
}
