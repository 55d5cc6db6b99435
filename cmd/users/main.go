package main

import (
	"gojo/internal/users/handler"
	"gojo/internal/users/repository"
	"gojo/internal/users/service"
	"gojo/pkg/app"
	"gojo/pkg/config"
)

const ServiceName = "users"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Users service")
	userService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewUserHandler(userService, cfg.JWTSecret, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.UserService {
	userRepo := repository.NewMongoUserRepository(cfg)
	userService := service.NewUserService(userRepo, cfg)

	cfg.Log.Info("User service initialized", "database", cfg.MongoDatabaseName)
	return userService
}
