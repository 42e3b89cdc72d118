package main

import (
	"fmt"
	"log"
	"time"

	"katalog/internal/config"
	"katalog/internal/database"
	"katalog/internal/handlers"
	"katalog/internal/i18n"
	"katalog/internal/middleware"
	"katalog/internal/repositories"
	"katalog/internal/services"
	"katalog/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// App bundles the HTTP app with the resources it has to release on shutdown.
type App struct {
	Fiber *fiber.App
	db    *gorm.DB
	mq    *rabbitmq.Client
}

// NewApp wires configuration, storage, messaging and routes together.
func NewApp(cfg *config.Config) (*App, error) {
	translators, err := i18n.New(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}

	a := &App{}

	var productRepo repositories.ProductRepository
	if cfg.DBDriver == config.DriverMemory {
		log.Println("Using in-memory product repository")
		productRepo = repositories.NewMemoryProductRepository()
	} else {
		a.db, err = database.Open(cfg)
		if err != nil {
			return nil, err
		}
		productRepo = repositories.NewGORMProductRepository(a.db)
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		a.mq, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		publisher = a.mq
	} else {
		log.Println("RABBITMQ_URL is empty, product events are disabled")
	}

	productService := services.NewProductService(productRepo, publisher)
	productHandler := handlers.NewProductHandler(productService, translators, cfg.ConventionalStatus)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(translators),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(middleware.Localize(translators))

	app.Get("/health", a.handleHealth)

	var router fiber.Router = app
	if cfg.RoutePrefix != "" {
		router = app.Group(cfg.RoutePrefix)
	}
	productHandler.RegisterRoutes(router)

	a.Fiber = app
	return a, nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status := fiber.StatusOK
	body := fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "memory",
		"rabbitMQ": "disabled",
	}

	if a.db != nil {
		body["database"] = "connected"
		sqlDB, err := a.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			status = fiber.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = err.Error()
		}
	}
	if a.mq != nil {
		body["rabbitMQ"] = "connected"
	}

	return c.Status(status).JSON(body)
}

// Close releases the database pool and the RabbitMQ connection.
func (a *App) Close() {
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			log.Printf("Error closing RabbitMQ client: %v", err)
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}
