package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/certforge/certforge/internal/pkg/cache"
	"github.com/certforge/certforge/internal/pkg/database"
	"github.com/certforge/certforge/internal/pkg/env"
	"github.com/certforge/certforge/internal/pkg/metrics/counter"
	"github.com/certforge/certforge/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	counter.StartFlusher()

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
		// Participant CSVs and template images stay small; 32 MiB is
		// plenty for both.
		BodyLimit: 32 * 1024 * 1024,
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())
	app.Static("/", "./public/assets")
	app.Static("/public/images", "./public/images")

	// ROUTER
	router.InstallRouter(app)

	return app
}
