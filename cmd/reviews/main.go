package main

import (
	"gojo/internal/reviews/handler"
	"gojo/internal/reviews/repository"
	"gojo/internal/reviews/service"
	"gojo/pkg/app"
	"gojo/pkg/config"
	"gojo/pkg/sealer"
)

const ServiceName = "reviews"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reviews service")
	reviewService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewReviewHandler(reviewService, cfg.JWTSecret, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ReviewService {
	inviteSealer, err := sealer.New(cfg.ReviewTokenKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize review invite sealer", "error", err)
	}

	reviewRepo := repository.NewMongoReviewRepository(cfg)
	reviewService := service.NewReviewService(reviewRepo, inviteSealer, cfg)

	cfg.Log.Info("Review service initialized", "database", cfg.MongoDatabaseName)
	return reviewService
}
