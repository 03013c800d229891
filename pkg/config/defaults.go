package config

import "time"

const (
	DefaultPort = "8080"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "glowbook"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultCartStore         = CartStoreMemory

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 30 * time.Second

	DefaultMaxRequestSize    = 1 * 1024 * 1024 // 1MB
	DefaultIdempotencyTTL    = 24 * time.Hour
	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	// Pricing. The booking-fee percentage itself is NOT configured here: it is
	// served by the platform configuration service and the calculator fails
	// closed when it is absent.
	DefaultTaxRatePercent = 18
	DefaultFeeMode        = FeeModeDeduct
	DefaultFeeCacheTTL    = 5 * time.Minute

	// Appointment slots.
	DefaultAdvanceWindowDays    = 21
	MinAdvanceWindowDays        = 21
	MaxAdvanceWindowDays        = 30
	DefaultSlotStartOfDay       = "09:00"
	DefaultSlotEndOfDay         = "20:00"
	DefaultSlotIntervalMin      = 15
	DefaultMaxTimesPerSelection = 3

	// Checkout orchestration.
	DefaultBookingRetryAttempts = 3
	DefaultBookingRetryBackoff  = 2 * time.Second
	DefaultSessionTTL           = 30 * time.Minute
	DefaultPaymentCurrency      = "INR"
	DefaultPaymentDemoMode      = false

	DefaultConfirmationFallbackURL = "/"

	DefaultBookingEventsTopic = "glowbook.booking-events"
	DefaultEventsEnabled      = false
)

const (
	CartStoreMemory = "memory"
	CartStoreMongo  = "mongo"

	// FeeModeDeduct: the online booking fee is deducted from what is owed at
	// the venue. FeeModeAdditive: the fee is charged on top and the venue
	// amount is the full service total.
	FeeModeDeduct   = "deduct"
	FeeModeAdditive = "additive"
)
