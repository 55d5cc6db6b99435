package main

import (
	"context"

	"gojo/internal/notifications/consumer"
	"gojo/internal/notifications/handler"
	"gojo/internal/notifications/repository"
	"gojo/internal/notifications/service"
	"gojo/pkg/app"
	"gojo/pkg/config"
	kafka_config "gojo/pkg/kafka/config"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Notifications service")
	notificationService := initServices(cfg)

	consumers := initConsumers(cfg, notificationService)
	defer consumers.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumers.Start(ctx)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewNotificationHandler(notificationService, cfg.JWTSecret, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.NotificationService {
	notificationRepo := repository.NewMongoNotificationRepository(cfg)
	notificationService := service.NewNotificationService(notificationRepo, cfg)

	cfg.Log.Info("Notification service initialized", "database", cfg.MongoDatabaseName)
	return notificationService
}

func initConsumers(cfg *config.Config, svc service.NotificationService) *consumer.Consumers {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	consumers, err := consumer.New(kafkaCfg, svc, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event consumers", "error", err)
	}
	return consumers
}
