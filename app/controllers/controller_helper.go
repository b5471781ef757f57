package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/certforge/certforge/internal/pkg/usercontext"
)

func isLoggedIn(c *fiber.Ctx) bool {
	return usercontext.IsLoggedIn(c)
}

// viewData assembles the base view model every page shares: user context,
// CSRF token and any pending flash message.
func viewData(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	uc := usercontext.GetUserContext(c)
	data["User"] = uc
	data["IsLoggedIn"] = uc.IsLoggedIn
	if token, ok := c.Locals("csrf").(string); ok {
		data["CSRFToken"] = token
	}
	if fm := flash.Get(c); len(fm) > 0 {
		data["Flash"] = fm
	}
	return data
}

// GetClientIP determines the client address behind common proxy setups.
// The first X-Forwarded-For hop wins, then Cloudflare's header, then the
// socket address.
func GetClientIP(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if cf := c.Get("CF-Connecting-IP"); cf != "" {
		return cf
	}
	ip := c.IP()
	return strings.TrimPrefix(ip, "::ffff:")
}
