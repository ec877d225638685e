package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers/cancel_booking"
	createCheckoutSessionHandler "github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers/create_checkout_session"
	getAvailabilityHandler "github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers/get_availability"
	getBookingConfirmationHandler "github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers/get_booking_confirmation"
	getCalendarDiagnosticsHandler "github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers/get_calendar_diagnostics"
	getCustomerBookingHandler "github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers/get_customer_booking"
	getPackagesHandler "github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers/get_packages"
	rescheduleBookingHandler "github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers/reschedule_booking"
	stripeWebhookHandler "github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers/stripe_webhook"
	submitContactHandler "github.com/m04kA/SMC-PhotoBookingService/internal/api/handlers/submit_contact"
	"github.com/m04kA/SMC-PhotoBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-PhotoBookingService/internal/config"
	"github.com/m04kA/SMC-PhotoBookingService/internal/infra/cache/token"
	bookingRepo "github.com/m04kA/SMC-PhotoBookingService/internal/infra/storage/booking"
	messageRepo "github.com/m04kA/SMC-PhotoBookingService/internal/infra/storage/message"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/notify"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/stripecheckout"
	"github.com/m04kA/SMC-PhotoBookingService/internal/integrations/zohocalendar"
	bookingsService "github.com/m04kA/SMC-PhotoBookingService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-PhotoBookingService/internal/service/catalog"
	calendarDiagnosticsUC "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/calendar_diagnostics"
	confirmPaymentUC "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/confirm_payment"
	createReservationUC "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/create_reservation"
	expirePendingUC "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/expire_pending"
	getAvailabilityUC "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/get_availability"
	submitContactUC "github.com/m04kA/SMC-PhotoBookingService/internal/usecase/submit_contact"
	"github.com/m04kA/SMC-PhotoBookingService/internal/worker"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/logger"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/metrics"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/txmanager"
)

const (
	tokenCachePrefix = "photobooking:zoho:"
	jobRunTimeout    = 2 * time.Minute
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-PhotoBookingService...")

	// Инициализируем метрики (если включены); nil-коллектор ничего не пишет
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.QueryTimeout)*time.Second)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	messageRepository := messageRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	hours := cfg.OperatingHours()
	catalog := cfg.PackageCatalog()
	storeTimeout := time.Duration(cfg.Database.QueryTimeout) * time.Second

	// Кеш access token календаря: Redis, если включен, иначе в памяти процесса
	var tokenCache zohocalendar.TokenCache = token.NewMemory(nil)
	if cfg.Redis.Enabled {
		redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := token.NewRedisClient(redisCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		redisCancel()
		if err != nil {
			log.Fatal("Failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
		}
		defer redisClient.Close()
		tokenCache = token.NewRedis(redisClient, tokenCachePrefix, nil)
		log.Info("Token cache: redis (%s)", cfg.Redis.Addr)
	}

	// Инициализируем интеграционных клиентов
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
	}, tokenCache, nil, log)

	checkoutClient := stripecheckout.NewClient(stripecheckout.Settings{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		SuccessURL:    cfg.Stripe.SuccessURL,
		CancelURL:     cfg.Stripe.CancelURL,
		Timeout:       time.Duration(cfg.Stripe.Timeout) * time.Second,
	}, log)

	notifier := notify.NewNotifier(notify.Settings{
		SendGridAPIKey: cfg.Notifications.SendGridAPIKey,
		FromEmail:      cfg.Notifications.FromEmail,
		FromName:       cfg.Notifications.FromName,
		TwilioSID:      cfg.Notifications.TwilioSID,
		TwilioToken:    cfg.Notifications.TwilioToken,
		TwilioFrom:     cfg.Notifications.TwilioFrom,
	}, log)

	log.Info("Integration clients initialized (calendar_configured=%t, checkout_configured=%t, webhook_configured=%t)",
		calendarClient.IsConfigured(), checkoutClient.IsConfigured(), checkoutClient.WebhookConfigured())

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, calendarClient, notifier, hours.Location, log)
	catalogSvc := catalogService.NewService(catalog, hours.SlotMinutes, checkoutClient, log)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		calendarClient,
		bookingRepository,
		hours,
		time.Duration(cfg.Zoho.FreeBusyBudget)*time.Second,
		storeTimeout,
		metricsCollector,
		log,
	)

	createReservationUseCase := createReservationUC.NewUseCase(
		getAvailabilityUseCase,
		calendarClient,
		checkoutClient,
		bookingRepository,
		catalog,
		hours,
		cfg.Booking.EventType,
		storeTimeout,
		metricsCollector,
		log,
	)

	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		checkoutClient,
		bookingRepository,
		calendarClient,
		notifier,
		txMgr,
		metricsCollector,
		log,
	)

	expirePendingUseCase := expirePendingUC.NewUseCase(
		bookingRepository,
		checkoutClient,
		calendarClient,
		txMgr,
		time.Duration(cfg.Jobs.PendingTTLMinutes)*time.Minute,
		metricsCollector,
		log,
	)

	submitContactUseCase := submitContactUC.NewUseCase(messageRepository, notifier, log)

	calendarDiagnosticsUseCase := calendarDiagnosticsUC.NewUseCase(
		getAvailabilityUseCase,
		diagnosticsSettings(cfg),
		hours.Location,
		log,
	)

	// Фоновые задачи
	scheduler := worker.NewScheduler(jobRunTimeout, log)
	if cfg.Jobs.PendingExpiryEnabled {
		err := scheduler.AddJob("expire_pending", cfg.Jobs.PendingExpirySpec, func(ctx context.Context) error {
			_, err := expirePendingUseCase.Execute(ctx)
			return err
		})
		if err != nil {
			log.Fatal("Failed to schedule pending expiry: %v", err)
		}
	}
	scheduler.Start()

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	createCheckoutSession := createCheckoutSessionHandler.NewHandler(createReservationUseCase, log)
	stripeWebhook := stripeWebhookHandler.NewHandler(confirmPaymentUseCase, log)
	getPackages := getPackagesHandler.NewHandler(catalogSvc, log)
	getBookingConfirmation := getBookingConfirmationHandler.NewHandler(bookingSvc, log)
	getCustomerBooking := getCustomerBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(bookingSvc, log)
	getCalendarDiagnostics := getCalendarDiagnosticsHandler.NewHandler(calendarDiagnosticsUseCase, log)
	submitContact := submitContactHandler.NewHandler(submitContactUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Доступность и оплата ---
	api.HandleFunc("/availability", getAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/packages", getPackages.Handle).Methods(http.MethodGet)
	api.HandleFunc("/checkout-sessions", createCheckoutSession.Handle).Methods(http.MethodPost)
	api.HandleFunc("/booking-confirmation", getBookingConfirmation.Handle).Methods(http.MethodGet)

	// Вебхук платежного провайдера (подпись проверяется в use case)
	api.HandleFunc("/webhooks/stripe", stripeWebhook.Handle).Methods(http.MethodPost)

	// --- Управление бронированием клиентом (по email) ---
	api.HandleFunc("/customer/booking", getCustomerBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/customer/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/customer/reschedule", rescheduleBooking.Handle).Methods(http.MethodPost)

	// --- Контактная форма ---
	api.HandleFunc("/contact-messages", submitContact.Handle).Methods(http.MethodPost)

	// --- Диагностика календаря ---
	api.HandleFunc("/calendar/diagnostics", getCalendarDiagnostics.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      middleware.Recovery(log)(middleware.ProxyHeaders(cfg.Server.TrustProxy)(middleware.CORS(cfg.Server.CORSOrigins)(r))),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler stopped with running jobs: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

func diagnosticsSettings(cfg *config.Config) calendarDiagnosticsUC.Settings {
	return calendarDiagnosticsUC.Settings{
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
	}
}
