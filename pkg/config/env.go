package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvCartStore         = "CART_STORE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvRequestTimeout  = "REQUEST_TIMEOUT"

	EnvMaxRequestSize    = "MAX_REQUEST_SIZE"
	EnvIdempotencyTTL    = "IDEMPOTENCY_TTL"
	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvJWTSecret = "JWT_SECRET"

	EnvTaxRatePercent = "TAX_RATE_PERCENT"
	EnvFeeMode        = "FEE_MODE"
	EnvFeeCacheTTL    = "FEE_CACHE_TTL"

	EnvAdvanceWindowDays    = "ADVANCE_WINDOW_DAYS"
	EnvSlotStartOfDay       = "SLOT_START_OF_DAY"
	EnvSlotEndOfDay         = "SLOT_END_OF_DAY"
	EnvSlotIntervalMin      = "SLOT_INTERVAL_MIN"
	EnvMaxTimesPerSelection = "MAX_TIMES_PER_SELECTION"

	EnvBookingRetryAttempts = "BOOKING_RETRY_ATTEMPTS"
	EnvBookingRetryBackoff  = "BOOKING_RETRY_BACKOFF"
	EnvSessionTTL           = "SESSION_TTL"
	EnvPaymentCurrency      = "PAYMENT_CURRENCY"
	EnvPaymentDemoMode      = "PAYMENT_DEMO_MODE"

	EnvCatalogBaseURL        = "CATALOG_BASE_URL"
	EnvPlatformConfigBaseURL = "PLATFORM_CONFIG_BASE_URL"
	EnvPaymentGatewayBaseURL = "PAYMENT_GATEWAY_BASE_URL"
	EnvPaymentGatewaySecret  = "PAYMENT_GATEWAY_SECRET"
	EnvPaymentGatewayKeyID   = "PAYMENT_GATEWAY_KEY_ID"
	EnvBookingServiceBaseURL = "BOOKING_SERVICE_BASE_URL"

	EnvConfirmationFallbackURL = "CONFIRMATION_FALLBACK_URL"

	EnvEventsEnabled      = "EVENTS_ENABLED"
	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"
)
