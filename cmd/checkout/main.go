package main

import (
	"github.com/joho/godotenv"

	carthandler "glowbook/internal/cart/handler"
	cartrepo "glowbook/internal/cart/repository"
	cartservice "glowbook/internal/cart/service"
	cartvalidator "glowbook/internal/cart/validator"
	checkouthandler "glowbook/internal/checkout/handler"
	checkoutrepo "glowbook/internal/checkout/repository"
	checkoutservice "glowbook/internal/checkout/service"
	confirmationhandler "glowbook/internal/confirmation/handler"
	confirmationservice "glowbook/internal/confirmation/service"
	"glowbook/internal/events"
	"glowbook/internal/pricing"
	"glowbook/internal/slots"
	slotshandler "glowbook/internal/slots/handler"
	"glowbook/pkg/app"
	"glowbook/pkg/client"
	"glowbook/pkg/clock"
	"glowbook/pkg/config"
	"glowbook/pkg/kafka"
	kafka_config "glowbook/pkg/kafka/config"
	"glowbook/pkg/model"
)

const ServiceName = "checkout"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	defer cfg.GracefulShutdown()

	if cfg.CartStore == config.CartStoreMongo {
		cfg.SetMongo()
	}

	cfg.Log.Info("Starting Checkout service")

	clk := clock.NewSystem()
	publisher := initPublisher(cfg)
	defer publisher.Close()

	cartSvc, checkoutSvc, confirmationSvc, selector := initServices(cfg, clk, publisher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		carthandler.NewCartHandler(cartSvc, cfg.Log),
		slotshandler.NewSlotsHandler(selector, cfg.Log),
		checkouthandler.NewCheckoutHandler(checkoutSvc, cfg.Log),
		confirmationhandler.NewConfirmationHandler(confirmationSvc, cfg.ConfirmationFallbackURL, cfg.Log),
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Event publishing disabled")
		return events.NewNopPublisher()
	}

	producer, err := kafka.NewProducer(
		kafka_config.Load(),
		cfg.BookingEventsTopic,
		cfg.BookingEventsTopic+".dlq",
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Event publishing enabled", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, cfg.Log)
}

func initServices(
	cfg *config.Config,
	clk clock.Clock,
	publisher events.Publisher,
) (cartservice.CartService, checkoutservice.CheckoutService, confirmationservice.ConfirmationService, *slots.Selector) {
	catalogClient := client.NewCatalogClient(cfg.CatalogBaseURL)
	platformClient := client.NewPlatformConfigClient(cfg.PlatformConfigBaseURL, cfg.FeeCacheTTL)
	paymentClient := client.NewPaymentClient(
		cfg.PaymentGatewayBaseURL,
		cfg.PaymentGatewaySecret,
		cfg.PaymentGatewayKeyID,
		cfg.PaymentDemoMode,
	)
	bookingClient := client.NewBookingClient(cfg.BookingServiceBaseURL)

	var cartRepo cartrepo.CartRepository
	if cfg.CartStore == config.CartStoreMongo {
		cartRepo = cartrepo.NewMongoCartRepository(cfg)
	} else {
		cartRepo = cartrepo.NewMemoryCartRepository()
	}

	cartSvc := cartservice.NewCartService(
		cartRepo,
		catalogClient,
		cartvalidator.NewCartValidator(cfg.Log),
		cfg,
	)
	cartSvc.RegisterObserver(publisher)

	calculator := pricing.NewCalculator(platformClient, cfg.TaxRatePercent, model.FeeMode(cfg.FeeMode), cfg.Log)

	selector := slots.NewSelector(platformClient, slots.Options{
		DefaultWindowDays: cfg.AdvanceWindowDays,
		MinWindowDays:     config.MinAdvanceWindowDays,
		MaxWindowDays:     config.MaxAdvanceWindowDays,
		StartOfDay:        cfg.SlotStartOfDay,
		EndOfDay:          cfg.SlotEndOfDay,
		IntervalMin:       cfg.SlotIntervalMin,
		MaxTimes:          cfg.MaxTimesPerSelection,
	}, clk, cfg.Log)

	sessionStore := checkoutrepo.NewMemorySessionStore(cfg.SessionTTL)

	checkoutSvc := checkoutservice.NewCheckoutService(
		sessionStore,
		cartSvc,
		calculator,
		selector,
		paymentClient,
		bookingClient,
		publisher,
		clk,
		cfg,
	)

	confirmationSvc := confirmationservice.NewConfirmationService(checkoutSvc, cfg)

	cfg.Log.Info("Checkout service initialized", "cart_store", cfg.CartStore)
	return cartSvc, checkoutSvc, confirmationSvc, selector
}
