package main

import (
	"gojo/internal/bookings/handler"
	"gojo/internal/bookings/repository"
	"gojo/internal/bookings/service"
	"gojo/pkg/app"
	"gojo/pkg/config"
	"gojo/pkg/kafka"
	kafka_config "gojo/pkg/kafka/config"
	kafka_middleware "gojo/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.Client.SetListings(cfg.ListingsServiceURL)

	cfg.Log.Info("Starting Bookings service")

	producer := initProducer(cfg)
	defer producer.Close()

	bookingService := initServices(cfg, producer)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.JWTSecret, cfg.PaymentWebhookSecret, cfg.Log))
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, kafka.TopicBookingEvents, kafka.TopicBookingDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create booking events producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.BookingService {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	listingFetcher := service.NewListingFetcher(cfg.Client.Listings)
	bookingService := service.NewBookingService(bookingRepo, listingFetcher, producer, cfg)

	cfg.Log.Info("Booking service initialized",
		"database", cfg.MongoDatabaseName,
		"listings_service", cfg.ListingsServiceURL,
	)
	return bookingService
}
