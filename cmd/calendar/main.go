package main

import (
	"gojo/internal/calendar/handler"
	"gojo/internal/calendar/repository"
	"gojo/internal/calendar/service"
	"gojo/pkg/app"
	"gojo/pkg/config"
)

const ServiceName = "calendar"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Calendar service")
	calendarService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewCalendarHandler(calendarService, cfg.JWTSecret, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CalendarService {
	calendarRepo := repository.NewMongoCalendarRepository(cfg)
	calendarService := service.NewCalendarService(calendarRepo, cfg)

	cfg.Log.Info("Calendar service initialized", "database", cfg.MongoDatabaseName)
	return calendarService
}
