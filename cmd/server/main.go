package main

import (
	"context"
	"log"
	"time"

	"github.com/careerlift/CareerLiftBack/internal/config"
	"github.com/careerlift/CareerLiftBack/internal/database"
	"github.com/careerlift/CareerLiftBack/internal/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		log.Fatal("DB_URL is required")
	}
	lazyDB := database.NewLazy(cfg.DBUrl)
	defer lazyDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := lazyDB.Pool(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 3. Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(app, pool, cfg); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// 4. Start Server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
