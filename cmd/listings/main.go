package main

import (
	"gojo/internal/listings/handler"
	"gojo/internal/listings/repository"
	"gojo/internal/listings/service"
	"gojo/pkg/app"
	"gojo/pkg/config"
)

const ServiceName = "listings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Listings service")
	listingService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewListingHandler(listingService, cfg.JWTSecret, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ListingService {
	listingRepo := repository.NewMongoListingRepository(cfg)
	listingService := service.NewListingService(listingRepo, cfg)

	cfg.Log.Info("Listing service initialized", "database", cfg.MongoDatabaseName)
	return listingService
}
