package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/certforge/certforge/internal/pkg/statistics"
	"github.com/certforge/certforge/internal/pkg/templates"
)

// HandleStart renders the landing page with the built-in template gallery.
func HandleStart(c *fiber.Ctx) error {
	stats := statistics.GetData()

	return c.Render("index", viewData(c, fiber.Map{
		"Title":   "CertForge",
		"Catalog": templates.CatalogEntries(),
		"Stats":   stats,
	}), "layouts/main")
}

func HandleAbout(c *fiber.Ctx) error {
	return c.Render("about", viewData(c, fiber.Map{"Title": "About"}), "layouts/main")
}
