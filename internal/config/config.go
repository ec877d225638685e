package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Booking       BookingConfig       `toml:"booking"`
	Zoho          ZohoConfig          `toml:"zoho"`
	Stripe        StripeConfig        `toml:"stripe"`
	Packages      []PackageConfig     `toml:"packages"`
	Notifications NotificationsConfig `toml:"notifications"`
	Redis         RedisConfig         `toml:"redis"`
	Jobs          JobsConfig          `toml:"jobs"`
}

type ServerConfig struct {
	HTTPPort        int      `toml:"http_port"`
	ReadTimeout     int      `toml:"read_timeout"`     // секунды
	WriteTimeout    int      `toml:"write_timeout"`    // секунды
	IdleTimeout     int      `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int      `toml:"shutdown_timeout"` // секунды
	CORSOrigins     []string `toml:"cors_origins"`     // пусто - любой источник
	TrustProxy      bool     `toml:"trust_proxy"`      // брать адрес клиента из X-Forwarded-For
}

type DatabaseConfig struct {
	URL             string `toml:"url"` // если задан, перекрывает остальные поля
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	QueryTimeout    int    `toml:"query_timeout"`     // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BookingConfig struct {
	Timezone    string `toml:"timezone"`
	StartHour   int    `toml:"start_hour"`
	EndHour     int    `toml:"end_hour"`
	SlotMinutes int    `toml:"slot_minutes"`
	EventType   string `toml:"event_type"`
}

type ZohoConfig struct {
	ClientID       string `toml:"client_id"`
	ClientSecret   string `toml:"client_secret"`
	RefreshToken   string `toml:"refresh_token"`
	RedirectURI    string `toml:"redirect_uri"`
	AccountsURL    string `toml:"accounts_url"`
	CalendarURL    string `toml:"calendar_url"`
	CalendarID     string `toml:"calendar_id"`
	FreeBusyUser   string `toml:"freebusy_user"`
	Timeout        int    `toml:"timeout"`         // секунды, на один HTTP вызов
	FreeBusyBudget int    `toml:"freebusy_budget"` // секунды на получение free/busy, после - fallback
}

// IsConfigured сообщает, хватает ли параметров для обращения к календарю
func (c ZohoConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != "" && c.FreeBusyUser != ""
}

type StripeConfig struct {
	SecretKey     string `toml:"secret_key"`
	WebhookSecret string `toml:"webhook_secret"`
	SuccessURL    string `toml:"success_url"`
	CancelURL     string `toml:"cancel_url"`
	Timeout       int    `toml:"timeout"` // секунды
}

// IsConfigured сообщает, включена ли оплата
func (c StripeConfig) IsConfigured() bool {
	return c.SecretKey != ""
}

type PackageConfig struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	PriceID     string `toml:"price_id"`
	PriceEnv    string `toml:"price_env"` // имя переменной окружения с price id
	Amount      int64  `toml:"amount"`    // в минимальных единицах валюты, 0 - неизвестно
	Currency    string `toml:"currency"`
}

type NotificationsConfig struct {
	SendGridAPIKey string `toml:"sendgrid_api_key"`
	FromEmail      string `toml:"from_email"`
	FromName       string `toml:"from_name"`
	TwilioSID      string `toml:"twilio_account_sid"`
	TwilioToken    string `toml:"twilio_auth_token"`
	TwilioFrom     string `toml:"twilio_from_number"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type JobsConfig struct {
	PendingExpiryEnabled bool   `toml:"pending_expiry_enabled"`
	PendingExpirySpec    string `toml:"pending_expiry_spec"` // cron-спецификация, например "@every 5m"
	PendingTTLMinutes    int    `toml:"pending_ttl_minutes"`
}

// Load загружает .env (если есть), затем TOML-файл (если есть), затем переменные окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load .env: %w", err)
	}

	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
		}
	}

	// Каталог по умолчанию подставляется только если в файле нет [[packages]]
	if len(cfg.Packages) == 0 {
		cfg.Packages = defaultPackages()
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.fillDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "photo_booking",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			QueryTimeout:    5,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "photo_booking_service",
		},
		Booking: BookingConfig{
			Timezone:    domain.DefaultTimezone,
			StartHour:   domain.DefaultStartHour,
			EndHour:     domain.DefaultEndHour,
			SlotMinutes: domain.DefaultSlotMinutes,
			EventType:   domain.DefaultEventType,
		},
		Zoho: ZohoConfig{
			AccountsURL:    "https://accounts.zoho.com.au",
			CalendarURL:    "https://calendar.zoho.com.au",
			CalendarID:     "primary",
			Timeout:        10,
			FreeBusyBudget: 8,
		},
		Stripe:        StripeConfig{Timeout: 20},
		Notifications: NotificationsConfig{FromName: "Photo Sessions"},
		Redis:         RedisConfig{Addr: "localhost:6379"},
		Jobs: JobsConfig{
			PendingExpiryEnabled: true,
			PendingExpirySpec:    "@every 5m",
			PendingTTLMinutes:    60,
		},
	}
}

func defaultPackages() []PackageConfig {
	return []PackageConfig{
		{ID: "santa-gift-pack", Name: "Santa's Gift Pack", Description: "Deluxe prints, festive folder and keepsake ornament bundle.", PriceEnv: "STRIPE_PRICE_SANTAS_GIFT_PACK"},
		{ID: "rudolph", Name: "Rudolph", Description: "Fan favourite mix of premium prints, wallet photos and magnets.", PriceEnv: "STRIPE_PRICE_RUDOLPH"},
		{ID: "blitzen", Name: "Blitzen", Description: "Gift-ready enlargement with multiple print sizes and holiday cards.", PriceEnv: "STRIPE_PRICE_BLITZEN"},
		{ID: "digital-package", Name: "Digital Package", Description: "Instant online gallery with downloadable, share-ready files.", PriceEnv: "STRIPE_PRICE_DIGITAL_PACKAGE"},
		{ID: "vixen", Name: "Vixen", Description: "Premium session with extra poses, retouching and hybrid keepsakes.", PriceEnv: "STRIPE_PRICE_VIXEN"},
	}
}

// applyEnv перекрывает значения переменными окружения
func applyEnv(cfg *Config) error {
	setString(&cfg.Zoho.ClientID, "ZOHO_OAUTH_CLIENT_ID")
	setString(&cfg.Zoho.ClientSecret, "ZOHO_OAUTH_CLIENT_SECRET")
	setString(&cfg.Zoho.RefreshToken, "ZOHO_OAUTH_REFRESH_TOKEN")
	setString(&cfg.Zoho.RedirectURI, "ZOHO_OAUTH_REDIRECT_URI")
	setString(&cfg.Zoho.AccountsURL, "ZOHO_ACCOUNTS_BASE_URL")
	setString(&cfg.Zoho.CalendarURL, "ZOHO_CALENDAR_BASE_URL")
	setString(&cfg.Zoho.CalendarID, "ZOHO_CALENDAR_ID")
	setString(&cfg.Zoho.FreeBusyUser, "ZOHO_FREEBUSY_USER")
	setString(&cfg.Booking.Timezone, "ZOHO_TIMEZONE")

	if err := setInt(&cfg.Booking.SlotMinutes, "BOOKING_SLOT_MINUTES"); err != nil {
		return err
	}
	if err := setInt(&cfg.Booking.StartHour, "BOOKING_START_HOUR"); err != nil {
		return err
	}
	if err := setInt(&cfg.Booking.EndHour, "BOOKING_END_HOUR"); err != nil {
		return err
	}
	if err := setInt(&cfg.Server.HTTPPort, "PORT"); err != nil {
		return err
	}

	setString(&cfg.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	setString(&cfg.Stripe.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
	setString(&cfg.Stripe.SuccessURL, "STRIPE_SUCCESS_URL")
	setString(&cfg.Stripe.CancelURL, "STRIPE_CANCEL_URL")

	for i := range cfg.Packages {
		if cfg.Packages[i].PriceEnv != "" {
			setString(&cfg.Packages[i].PriceID, cfg.Packages[i].PriceEnv)
		}
	}

	setString(&cfg.Notifications.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&cfg.Notifications.FromEmail, "SENDGRID_FROM_EMAIL")
	setString(&cfg.Notifications.FromName, "SENDGRID_FROM_NAME")
	setString(&cfg.Notifications.TwilioSID, "TWILIO_ACCOUNT_SID")
	setString(&cfg.Notifications.TwilioToken, "TWILIO_AUTH_TOKEN")
	setString(&cfg.Notifications.TwilioFrom, "TWILIO_FROM_NUMBER")

	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Logs.Level, "LOG_LEVEL")

	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		cfg.Server.CORSOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.Server.CORSOrigins = append(cfg.Server.CORSOrigins, origin)
			}
		}
	}

	return nil
}

// fillDerived вычисляет значения, зависящие от других полей
func (c *Config) fillDerived() {
	clientURL := strings.TrimRight(os.Getenv("CLIENT_URL"), "/")
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}
	if c.Stripe.SuccessURL == "" {
		c.Stripe.SuccessURL = clientURL + "/booking.html?status=success&session_id={CHECKOUT_SESSION_ID}"
	}
	if c.Stripe.CancelURL == "" {
		c.Stripe.CancelURL = clientURL + "/booking.html?status=cancelled"
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("config: invalid booking timezone %q: %w", c.Booking.Timezone, err)
	}
	if c.Booking.SlotMinutes <= 0 {
		return fmt.Errorf("config: slot_minutes must be positive, got %d", c.Booking.SlotMinutes)
	}
	if c.Booking.StartHour < 0 || c.Booking.StartHour > 24 || c.Booking.EndHour < 0 || c.Booking.EndHour > 24 {
		return fmt.Errorf("config: operating hours must be within 0..24, got %d..%d", c.Booking.StartHour, c.Booking.EndHour)
	}

	seen := make(map[string]struct{}, len(c.Packages))
	for _, p := range c.Packages {
		if p.ID == "" {
			return errors.New("config: package id is required")
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("config: duplicate package id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	if c.Jobs.PendingExpiryEnabled && c.Jobs.PendingTTLMinutes <= 0 {
		return fmt.Errorf("config: pending_ttl_minutes must be positive, got %d", c.Jobs.PendingTTLMinutes)
	}
	return nil
}

// OperatingHours рабочие часы с загруженной таймзоной (Validate уже проверил её)
func (c *Config) OperatingHours() domain.OperatingHours {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return domain.OperatingHours{
		Location:    loc,
		StartHour:   c.Booking.StartHour,
		EndHour:     c.Booking.EndHour,
		SlotMinutes: c.Booking.SlotMinutes,
	}
}

// PackageCatalog каталог пакетов в доменном виде
func (c *Config) PackageCatalog() []domain.Package {
	catalog := make([]domain.Package, 0, len(c.Packages))
	for _, p := range c.Packages {
		catalog = append(catalog, domain.Package{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			PriceID:     p.PriceID,
			Amount:      p.Amount,
			Currency:    strings.ToUpper(p.Currency),
		})
	}
	return catalog
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	*dst = n
	return nil
}
