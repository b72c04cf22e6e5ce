package main

import (
	"log"

	"eventhub/config"
	"eventhub/internal/auth"
	"eventhub/internal/handler"
	"eventhub/internal/middleware"
	"eventhub/internal/repository"
	"eventhub/internal/service"
	"eventhub/pkg/database"
	"eventhub/pkg/rabbitmq"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.NewPostgresDB(cfg.DSN())

	var publisher *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	attendeeRepo := repository.NewAttendeeRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo)
	eventSvc := service.NewEventService(eventRepo, attendeeRepo, publisher)
	registrationSvc := service.NewRegistrationService(attendeeRepo, eventRepo, publisher)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL, "eventhub")

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = handler.NewRequestValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "eventhub"})
	})

	requireAuth := middleware.RequireAuth(tokens, userRepo)

	authPublic := e.Group("/api/v1/auth")
	authProtected := e.Group("/api/v1/auth", requireAuth)
	handler.NewAuthHandler(authSvc, tokens).RegisterRoutes(authPublic, authProtected)

	eventsPublic := e.Group("/api/v1/events")
	eventsProtected := e.Group("/api/v1/events", requireAuth)
	handler.NewEventHandler(eventSvc).RegisterRoutes(eventsPublic, eventsProtected)
	handler.NewRegistrationHandler(registrationSvc).RegisterRoutes(eventsProtected)

	log.Printf("eventhub starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
