package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/certforge/certforge/app/models"
	"github.com/certforge/certforge/internal/pkg/database"
	"github.com/certforge/certforge/internal/pkg/session"
	"github.com/certforge/certforge/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a request-scoped user
// context so controllers never touch the session store directly.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return anonymous(c)
	}

	userID, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !ok || userID == 0 {
		return anonymous(c)
	}

	username := session.GetSessionValue(c, usercontext.KeyUsername)
	organization := session.GetSessionValue(c, usercontext.KeyOrganization)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	// Premium status can change outside the session, so it is read fresh
	// from the database rather than cached in the session.
	isPremium := false
	if db := database.GetDB(); db != nil {
		var user models.User
		if err := db.Select("is_premium", "organization_name").First(&user, userID).Error; err == nil {
			isPremium = user.IsPremium
			if organization == "" {
				organization = user.OrganizationName
			}
		}
	}

	c.Locals("USER_CONTEXT", usercontext.UserContext{
		UserID:           userID,
		Username:         username,
		OrganizationName: organization,
		IsLoggedIn:       true,
		IsAdmin:          isAdmin,
		IsPremium:        isPremium,
	})
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userID)
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyIsAdmin, isAdmin)

	return c.Next()
}

func anonymous(c *fiber.Ctx) error {
	c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: false})
	c.Locals(usercontext.KeyFromProtected, false)
	c.Locals(usercontext.KeyIsAdmin, false)
	return c.Next()
}
