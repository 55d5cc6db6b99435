package main

import (
	"gojo/internal/admin/handler"
	"gojo/internal/admin/repository"
	"gojo/internal/admin/service"
	usersrepository "gojo/internal/users/repository"
	"gojo/pkg/app"
	"gojo/pkg/config"
	"gojo/pkg/kafka"
	kafka_config "gojo/pkg/kafka/config"
	kafka_middleware "gojo/pkg/kafka/middleware"
)

const ServiceName = "admin"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Admin service")

	producer := initProducer(cfg)
	defer producer.Close()

	adminService := initServices(cfg, producer)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAdminHandler(adminService, cfg.JWTSecret, cfg.Log))
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, kafka.TopicListingEvents, kafka.TopicListingDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create listing events producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.AdminService {
	adminRepo := repository.NewMongoAdminRepository(cfg)
	userRepo := usersrepository.NewMongoUserRepository(cfg)
	cache := service.NewRedisCache(cfg.Client.Redis)
	adminService := service.NewAdminService(adminRepo, userRepo, producer, cache, cfg)

	cfg.Log.Info("Admin service initialized",
		"database", cfg.MongoDatabaseName,
		"dashboard_cache_ttl", cfg.DashboardCacheTTL,
	)
	return adminService
}
