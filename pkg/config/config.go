package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"glowbook/pkg/client"
	"glowbook/pkg/logger"
)

var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type Config struct {
	Port string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	CartStore         string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	MaxRequestSize    int
	IdempotencyTTL    time.Duration
	RateLimitRequests int
	RateLimitWindow   time.Duration

	JWTSecret string

	TaxRatePercent int
	FeeMode        string
	FeeCacheTTL    time.Duration

	AdvanceWindowDays    int
	SlotStartOfDay       string
	SlotEndOfDay         string
	SlotIntervalMin      int
	MaxTimesPerSelection int

	BookingRetryAttempts int
	BookingRetryBackoff  time.Duration
	SessionTTL           time.Duration
	PaymentCurrency      string
	PaymentDemoMode      bool

	CatalogBaseURL        string
	PlatformConfigBaseURL string
	PaymentGatewayBaseURL string
	PaymentGatewaySecret  string
	PaymentGatewayKeyID   string
	BookingServiceBaseURL string

	ConfirmationFallbackURL string

	EventsEnabled      bool
	BookingEventsTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		CartStore:         getEnvStr(EnvCartStore, DefaultCartStore),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),

		MaxRequestSize:    getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		IdempotencyTTL:    getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),

		TaxRatePercent: getEnvNum(EnvTaxRatePercent, DefaultTaxRatePercent),
		FeeMode:        getEnvStr(EnvFeeMode, DefaultFeeMode),
		FeeCacheTTL:    getEnvDuration(EnvFeeCacheTTL, DefaultFeeCacheTTL),

		AdvanceWindowDays:    getEnvNum(EnvAdvanceWindowDays, DefaultAdvanceWindowDays),
		SlotStartOfDay:       getEnvStr(EnvSlotStartOfDay, DefaultSlotStartOfDay),
		SlotEndOfDay:         getEnvStr(EnvSlotEndOfDay, DefaultSlotEndOfDay),
		SlotIntervalMin:      getEnvNum(EnvSlotIntervalMin, DefaultSlotIntervalMin),
		MaxTimesPerSelection: getEnvNum(EnvMaxTimesPerSelection, DefaultMaxTimesPerSelection),

		BookingRetryAttempts: getEnvNum(EnvBookingRetryAttempts, DefaultBookingRetryAttempts),
		BookingRetryBackoff:  getEnvDuration(EnvBookingRetryBackoff, DefaultBookingRetryBackoff),
		SessionTTL:           getEnvDuration(EnvSessionTTL, DefaultSessionTTL),
		PaymentCurrency:      getEnvStr(EnvPaymentCurrency, DefaultPaymentCurrency),
		PaymentDemoMode:      getEnvBool(EnvPaymentDemoMode, DefaultPaymentDemoMode),

		CatalogBaseURL:        getEnvStr(EnvCatalogBaseURL, ""),
		PlatformConfigBaseURL: getEnvStr(EnvPlatformConfigBaseURL, ""),
		PaymentGatewayBaseURL: getEnvStr(EnvPaymentGatewayBaseURL, ""),
		PaymentGatewaySecret:  getEnvStr(EnvPaymentGatewaySecret, ""),
		PaymentGatewayKeyID:   getEnvStr(EnvPaymentGatewayKeyID, ""),
		BookingServiceBaseURL: getEnvStr(EnvBookingServiceBaseURL, ""),

		ConfirmationFallbackURL: getEnvStr(EnvConfirmationFallbackURL, DefaultConfirmationFallbackURL),

		EventsEnabled:      getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		BookingEventsTopic: getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, "info"),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.CartStore != CartStoreMemory && cfg.CartStore != CartStoreMongo {
		problems = append(problems, fmt.Sprintf("CartStore must be %q or %q, got: %s", CartStoreMemory, CartStoreMongo, cfg.CartStore))
	}
	if cfg.CartStore == CartStoreMongo {
		if cfg.MongoURI == "" || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
		}
		if cfg.MongoDatabaseName == "" {
			problems = append(problems, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			problems = append(problems, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	}

	for name, d := range map[string]time.Duration{
		"ReadTimeout":         cfg.ReadTimeout,
		"WriteTimeout":        cfg.WriteTimeout,
		"IdleTimeout":         cfg.IdleTimeout,
		"ShutdownTimeout":     cfg.ShutdownTimeout,
		"RequestTimeout":      cfg.RequestTimeout,
		"IdempotencyTTL":      cfg.IdempotencyTTL,
		"RateLimitWindow":     cfg.RateLimitWindow,
		"FeeCacheTTL":         cfg.FeeCacheTTL,
		"BookingRetryBackoff": cfg.BookingRetryBackoff,
		"SessionTTL":          cfg.SessionTTL,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.RateLimitRequests <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}

	if cfg.TaxRatePercent < 0 || cfg.TaxRatePercent > 100 {
		problems = append(problems, fmt.Sprintf("TaxRatePercent must be in [0,100], got: %d", cfg.TaxRatePercent))
	}
	if cfg.FeeMode != FeeModeDeduct && cfg.FeeMode != FeeModeAdditive {
		problems = append(problems, fmt.Sprintf("FeeMode must be %q or %q, got: %s", FeeModeDeduct, FeeModeAdditive, cfg.FeeMode))
	}

	if cfg.AdvanceWindowDays < MinAdvanceWindowDays || cfg.AdvanceWindowDays > MaxAdvanceWindowDays {
		problems = append(problems, fmt.Sprintf("AdvanceWindowDays must be in [%d,%d], got: %d", MinAdvanceWindowDays, MaxAdvanceWindowDays, cfg.AdvanceWindowDays))
	}
	if !timeOfDayRegex.MatchString(cfg.SlotStartOfDay) {
		problems = append(problems, fmt.Sprintf("SlotStartOfDay must be in HH:MM format, got: %s", cfg.SlotStartOfDay))
	}
	if !timeOfDayRegex.MatchString(cfg.SlotEndOfDay) {
		problems = append(problems, fmt.Sprintf("SlotEndOfDay must be in HH:MM format, got: %s", cfg.SlotEndOfDay))
	}
	if cfg.SlotIntervalMin <= 0 {
		problems = append(problems, fmt.Sprintf("SlotIntervalMin must be positive, got: %d", cfg.SlotIntervalMin))
	}
	if cfg.MaxTimesPerSelection <= 0 {
		problems = append(problems, fmt.Sprintf("MaxTimesPerSelection must be positive, got: %d", cfg.MaxTimesPerSelection))
	}

	if cfg.BookingRetryAttempts <= 0 {
		problems = append(problems, fmt.Sprintf("BookingRetryAttempts must be positive, got: %d", cfg.BookingRetryAttempts))
	}
	if cfg.PaymentCurrency == "" {
		problems = append(problems, "PaymentCurrency cannot be empty")
	}
	if !cfg.PaymentDemoMode && cfg.PaymentGatewaySecret == "" {
		problems = append(problems, "PaymentGatewaySecret is required unless PaymentDemoMode is enabled")
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"cart_store", cfg.CartStore,
		"mongo_database", cfg.MongoDatabaseName,
		"tax_rate_percent", cfg.TaxRatePercent,
		"fee_mode", cfg.FeeMode,
		"fee_cache_ttl", cfg.FeeCacheTTL,
		"advance_window_days", cfg.AdvanceWindowDays,
		"slot_start_of_day", cfg.SlotStartOfDay,
		"slot_end_of_day", cfg.SlotEndOfDay,
		"slot_interval_min", cfg.SlotIntervalMin,
		"max_times_per_selection", cfg.MaxTimesPerSelection,
		"booking_retry_attempts", cfg.BookingRetryAttempts,
		"booking_retry_backoff", cfg.BookingRetryBackoff,
		"session_ttl", cfg.SessionTTL,
		"payment_currency", cfg.PaymentCurrency,
		"payment_demo_mode", cfg.PaymentDemoMode,
		"events_enabled", cfg.EventsEnabled,
		"booking_events_topic", cfg.BookingEventsTopic,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"jwt_secret_set", cfg.JWTSecret != "",
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
