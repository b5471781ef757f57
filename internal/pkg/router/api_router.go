package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/certforge/certforge/app/controllers"
	"github.com/certforge/certforge/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "CertForge API v1",
		})
	})

	v1 := api.Group("/v1")

	// Public verification lookup, no key required.
	v1.Get("/verify/:id", controllers.HandleVerifyAPI)

	// Key-authenticated certificate operations.
	certs := v1.Group("/certificates", middleware.APIKeyAuthMiddleware())
	certs.Post("/", controllers.HandleAPIGenerate)
	certs.Post("/csv", controllers.HandleAPIGenerateCSV)
	certs.Get("/", controllers.HandleAPICertificateList)
	certs.Get("/preview", controllers.HandleAPIPreview)
	certs.Get("/batches/:id", controllers.HandleAPIBatchStatus)
	certs.Get("/batches/:id/download", controllers.HandleAPIBatchDownload)
	certs.Post("/:id/revoke", controllers.HandleAPIRevoke)
}
