package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-PhotoBookingService/internal/config"
	"github.com/m04kA/SMC-PhotoBookingService/internal/infra/cache/token"
	bookingRepo "github.com/m04kA/SMC-PhotoBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/zohocalendar"
	syncCalendarUC "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/sync_calendar"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
)

// Разовая выгрузка активных бронирований без события в календарь
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

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

	useCase := syncCalendarUC.NewUseCase(
		bookingRepo.NewRepository(dbmetrics.Wrap(db, nil)),
		calendarClient,
		hours.Location,
		log,
	)

	report, err := useCase.Execute(ctx)
	if err != nil {
		if errors.Is(err, syncCalendarUC.ErrNotConfigured) {
			log.Fatal("Calendar credentials are not configured")
		}
		log.Fatal("Calendar sync failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal("Failed to write report: %v", err)
	}

	if report.Failed > 0 {
		os.Exit(2)
	}
}
