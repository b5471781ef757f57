package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/certforge/certforge/internal/pkg/verify"
)

// HandleVerifyPage serves the public verification page a QR code scan
// lands on. Lookups never require a login.
func HandleVerifyPage(c *fiber.Ctx) error {
	certificateID := c.Params("id")

	outcome, err := services.verification.Verify(certificateID, GetClientIP(c), c.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, verify.ErrRateLimited) {
			return c.Status(fiber.StatusTooManyRequests).Render("verify", viewData(c, fiber.Map{
				"Title":   "Verify certificate",
				"Valid":   false,
				"Message": "Too many verification attempts, please try again later",
			}), "layouts/main")
		}
		return c.Status(fiber.StatusInternalServerError).Render("verify", viewData(c, fiber.Map{
			"Title":   "Verify certificate",
			"Valid":   false,
			"Message": "Verification is temporarily unavailable",
		}), "layouts/main")
	}

	return c.Render("verify", viewData(c, fiber.Map{
		"Title":   "Verify certificate",
		"Valid":   outcome.Valid,
		"Message": outcome.Message,
		"Record":  outcome.Record,
	}), "layouts/main")
}

// HandleVerifyAPI is the JSON variant used by integrations.
func HandleVerifyAPI(c *fiber.Ctx) error {
	certificateID := c.Params("id")

	outcome, err := services.verification.Verify(certificateID, GetClientIP(c), c.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, verify.ErrRateLimited) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "rate_limited",
				"message": "Too many verification attempts",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "Verification is temporarily unavailable",
		})
	}

	status := fiber.StatusOK
	if !outcome.Valid {
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(outcome)
}
