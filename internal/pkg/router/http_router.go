package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/certforge/certforge/app/controllers"
	"github.com/certforge/certforge/internal/pkg/env"
	"github.com/certforge/certforge/internal/pkg/middleware"
	"github.com/certforge/certforge/internal/pkg/session"
)

type HttpRouter struct {
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	session.NewSessionStore()

	app.Use(middleware.UserContextMiddleware)

	controllers.InitializeControllers()

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Verification is the public face of the service: QR scans land here
	// without a session and without CSRF state.
	app.Get("/verify/:id", controllers.HandleVerifyPage)

	app.Get("/about", controllers.HandleAbout)

	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)
}

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", controllers.HandleStart)

	group.Get("/login", controllers.HandleAuthLogin)
	group.Post("/login", controllers.HandleAuthLogin)
	group.Get("/register", controllers.HandleAuthRegister)
	group.Post("/register", controllers.HandleAuthRegister)

	group.Get("/user/profile", middleware.RequireAuth, controllers.HandleUserProfile)
	group.Post("/user/profile/api-key", middleware.RequireAuth, controllers.HandleUserAPIKeyGenerate)

	group.Get("/certificates", middleware.RequireAuth, controllers.HandleCertificates)
	group.Post("/certificates/generate", middleware.RequireAuth, controllers.HandleGenerate)
	group.Get("/certificates/preview", middleware.RequireAuth, controllers.HandlePreview)
	group.Get("/certificates/:id/regenerate", middleware.RequireAuth, controllers.HandleRegenerate)
	group.Post("/certificates/:id/revoke", middleware.RequireAuth, controllers.HandleRevoke)
	group.Get("/downloads/:id", middleware.RequireAuth, controllers.HandleDownloadArchive)

	group.Get("/templates", middleware.RequireAuth, controllers.HandleTemplates)
	group.Post("/templates/upload", middleware.RequireAuth, controllers.HandleTemplateUpload)
	group.Post("/templates/customize", middleware.RequireAuth, controllers.HandleTemplateCustomize)
	group.Post("/templates/:id/delete", middleware.RequireAuth, controllers.HandleTemplateDelete)

	group.Get("/builder", middleware.RequireAuth, controllers.HandleBuilder)
	group.Post("/builder/preview", middleware.RequireAuth, controllers.HandleBuilderPreview)
	group.Post("/builder/download", middleware.RequireAuth, controllers.HandleBuilderDownload)
}
