package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
	"gorm.io/gorm"

	"github.com/certforge/certforge/app/models"
	"github.com/certforge/certforge/internal/pkg/database"
	"github.com/certforge/certforge/internal/pkg/quota"
	"github.com/certforge/certforge/internal/pkg/session"
	"github.com/certforge/certforge/internal/pkg/usercontext"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodGet {
		if isLoggedIn(c) {
			return c.Redirect("/certificates", fiber.StatusSeeOther)
		}
		return c.Render("auth/login", viewData(c, fiber.Map{"Title": "Sign in"}), "layouts/main")
	}

	fm := fiber.Map{"type": "error"}

	var user models.User
	result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
	if result.Error != nil {
		// Do not reveal whether the account exists.
		fm["message"] = "There is a problem with the login process"
		return flash.WithError(c, fm).Redirect("/login")
	}

	if !user.CheckPassword(c.FormValue("password")) {
		fm["message"] = "There is a problem with the login process"
		return flash.WithError(c, fm).Redirect("/login")
	}

	if !user.IsActive() {
		fm["message"] = "This account is disabled"
		return flash.WithError(c, fm).Redirect("/login")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "Session error, please try again"
		return flash.WithError(c, fm).Redirect("/login")
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)
	if err := sess.Save(); err != nil {
		fm["message"] = "Session error, please try again"
		return flash.WithError(c, fm).Redirect("/login")
	}
	session.SetSessionValue(c, usercontext.KeyOrganization, user.OrganizationName)

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Welcome back, " + user.Name,
	}).Redirect("/certificates")
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodGet {
		if isLoggedIn(c) {
			return c.Redirect("/certificates", fiber.StatusSeeOther)
		}
		return c.Render("auth/register", viewData(c, fiber.Map{"Title": "Create account"}), "layouts/main")
	}

	fm := fiber.Map{"type": "error"}

	username := c.FormValue("username")
	email := c.FormValue("email")
	password := c.FormValue("password")
	organization := c.FormValue("organization_name")

	if password != c.FormValue("password_confirm") {
		fm["message"] = "Passwords do not match"
		return flash.WithError(c, fm).Redirect("/register")
	}

	db := database.GetDB()
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fm["message"] = "An account with this email already exists"
		return flash.WithError(c, fm).Redirect("/register")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		fm["message"] = "Registration failed, please try again"
		return flash.WithError(c, fm).Redirect("/register")
	}

	user, err := models.CreateUser(username, email, password, organization)
	if err != nil {
		fm["message"] = err.Error()
		return flash.WithError(c, fm).Redirect("/register")
	}
	if err := db.Create(user).Error; err != nil {
		fm["message"] = "Registration failed, please try again"
		return flash.WithError(c, fm).Redirect("/register")
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Account created, you can sign in now",
	}).Redirect("/login")
}

func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			return flash.WithError(c, fiber.Map{
				"type":    "error",
				"message": "Logout failed",
			}).Redirect("/")
		}
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleUserProfile shows quota usage and API key management.
func HandleUserProfile(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	var user models.User
	if err := database.GetDB().First(&user, uc.UserID).Error; err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	limit := quota.Limit()
	return c.Render("user/profile", viewData(c, fiber.Map{
		"Title":            "Profile",
		"CertificateCount": user.CertificateCount,
		"IsPremium":        user.IsPremium,
		"QuotaLimit":       limit,
		"QuotaRemaining":   quota.Remaining(user.CertificateCount, limit, user.IsPremium),
		"HasAPIKey":        user.APIKeyHash != "",
		"Organization":     user.OrganizationName,
	}), "layouts/main")
}

// HandleUserAPIKeyGenerate issues a fresh API key. The plain key is shown
// once; only its hash is stored.
func HandleUserAPIKeyGenerate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	db := database.GetDB()

	var user models.User
	if err := db.First(&user, uc.UserID).Error; err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	plainKey, err := user.GenerateAPIKey()
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not generate an API key",
		}).Redirect("/user/profile")
	}
	if err := db.Model(&user).Update("api_key_hash", user.APIKeyHash).Error; err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not store the API key",
		}).Redirect("/user/profile")
	}

	return c.Render("user/api_key", viewData(c, fiber.Map{
		"Title":  "Your new API key",
		"APIKey": plainKey,
	}), "layouts/main")
}
