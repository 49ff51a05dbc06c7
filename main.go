package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/parkspot/parking-service/config"
	"github.com/parkspot/parking-service/internal/handler"
	"github.com/parkspot/parking-service/internal/middleware"
	"github.com/parkspot/parking-service/internal/repository"
	"github.com/parkspot/parking-service/internal/repository/memory"
	"github.com/parkspot/parking-service/internal/repository/postgresql"
	"github.com/parkspot/parking-service/internal/seed"
	"github.com/parkspot/parking-service/internal/service"
	"github.com/parkspot/parking-service/pkg/database"
	"github.com/parkspot/parking-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	var store repository.Store
	switch cfg.StoreDriver {
	case "memory":
		store = memory.NewStore()
	default:
		store = postgresql.NewStore(database.NewPostgresDB(cfg.DSN()))
	}

	// RabbitMQ is optional; without it booking events are simply not published.
	var publisher *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	rng := service.SystemRand{}

	if cfg.SeedDemo {
		if err := seed.Run(context.Background(), store, rng); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	inventorySvc := service.NewInventoryService(store, publisher, rng)
	authSvc := service.NewAuthService(store.Users(), cfg.JWTSecret, time.Duration(cfg.JWTExpHours)*time.Hour)

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
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
		return c.JSON(200, map[string]string{"status": "ok", "service": "parking-service"})
	})

	api := e.Group("/api/v1")
	handler.NewAuthHandler(authSvc).RegisterRoutes(api.Group("/auth"))
	handler.NewStructureHandler(inventorySvc).RegisterRoutes(api.Group("/structures"), cfg.JWTSecret)
	handler.NewBookingHandler(inventorySvc).RegisterRoutes(api)

	log.Printf("Parking Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
