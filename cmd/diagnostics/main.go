package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-PhotoBookingService/internal/config"
	"github.com/m04kA/SMC-PhotoBookingService/internal/infra/cache/token"
	bookingRepo "github.com/m04kA/SMC-PhotoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/zohocalendar"
	calendarDiagnosticsUC "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/calendar_diagnostics"
	getAvailabilityUC "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/metrics"
)

// Печатает отчет о настройках календаря и пробный расчет доступности на сегодня
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Отчет идет в stdout, логи только при ошибках
	log, err := logger.New(cfg.Logs.File, "error")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	hours := cfg.OperatingHours()
	calendarClient := zohocalendar.NewClient(zohocalendar.Settings{
		AccountsURL:  cfg.Zoho.AccountsURL,
		CalendarURL:  cfg.Zoho.CalendarURL,
		CalendarID:   cfg.Zoho.CalendarID,
		FreeBusyUser: cfg.Zoho.FreeBusyUser,
		ClientID:     cfg.Zoho.ClientID,
		ClientSecret: cfg.Zoho.ClientSecret,
		RefreshToken: cfg.Zoho.RefreshToken,
		RedirectURI:  cfg.Zoho.RedirectURI,
		Location:     hours.Location,
		Timeout:      time.Duration(cfg.Zoho.Timeout) * time.Second,
	}, token.NewMemory(nil), nil, log)

	var noMetrics *metrics.Metrics
	availability := getAvailabilityUC.NewUseCase(
		calendarClient,
		bookingRepo.NewRepository(dbmetrics.Wrap(db, nil)),
		hours,
		time.Duration(cfg.Zoho.FreeBusyBudget)*time.Second,
		time.Duration(cfg.Database.QueryTimeout)*time.Second,
		noMetrics,
		log,
	)

	useCase := calendarDiagnosticsUC.NewUseCase(availability, calendarDiagnosticsUC.Settings{
		ClientID:     cfg.Zoho.ClientID,
		ClientSecret: cfg.Zoho.ClientSecret,
		RefreshToken: cfg.Zoho.RefreshToken,
		RedirectURI:  cfg.Zoho.RedirectURI,
		AccountsURL:  cfg.Zoho.AccountsURL,
		CalendarURL:  cfg.Zoho.CalendarURL,
		CalendarID:   cfg.Zoho.CalendarID,
		FreeBusyUser: cfg.Zoho.FreeBusyUser,
		Timezone:     cfg.Booking.Timezone,
		StartHour:    cfg.Booking.StartHour,
		EndHour:      cfg.Booking.EndHour,
		SlotMinutes:  cfg.Booking.SlotMinutes,
	}, hours.Location, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	report := useCase.Execute(ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal("Failed to write report: %v", err)
	}

	if report.Today.Error != "" {
		os.Exit(2)
	}
}
