package controllers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sujit-baniya/flash"

	"github.com/certforge/certforge/app/models"
	"github.com/certforge/certforge/app/repository"
	"github.com/certforge/certforge/internal/pkg/constants"
	"github.com/certforge/certforge/internal/pkg/templates"
	"github.com/certforge/certforge/internal/pkg/upload"
	"github.com/certforge/certforge/internal/pkg/usercontext"
)

// HandleTemplates lists built-in designs alongside the user's uploads.
func HandleTemplates(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	userTemplates, err := repository.GetGlobalRepositories().Template.GetByUserID(uc.UserID)
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not load your templates",
		}).Redirect("/")
	}

	return c.Render("templates/index", viewData(c, fiber.Map{
		"Title":         "Templates",
		"Catalog":       templates.CatalogEntries(),
		"UserTemplates": userTemplates,
	}), "layouts/main")
}

// HandleTemplateUpload stores a custom base image and its layout settings.
func HandleTemplateUpload(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	file, err := c.FormFile("template_image")
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Please choose an image file",
		}).Redirect("/templates")
	}

	src, err := file.Open()
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not read the uploaded file",
		}).Redirect("/templates")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not read the uploaded file",
		}).Redirect("/templates")
	}

	if _, err := upload.ValidateTemplateImage(file.Filename, data); err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}).Redirect("/templates")
	}

	templateID := uuid.NewString()
	dir := filepath.Join(constants.UploadDir, "templates")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return templateUploadFailed(c)
	}
	imagePath := filepath.Join(dir, fmt.Sprintf("%s%s", templateID, filepath.Ext(file.Filename)))
	if err := os.WriteFile(imagePath, data, 0644); err != nil {
		return templateUploadFailed(c)
	}

	t := &models.CertificateTemplate{
		ID:              templateID,
		UserID:          uc.UserID,
		TemplateType:    models.TemplateTypeCustom,
		CustomImagePath: imagePath,
		TextXPosition:   formInt(c, "text_x", constants.CertificateWidth/2),
		TextYPosition:   formInt(c, "text_y", constants.CertificateHeight/2),
		FontSize:        formInt(c, "font_size", constants.DefaultFontSize),
		FontColor:       c.FormValue("font_color", constants.DefaultFontColor),
		FontFamily:      c.FormValue("font_family", constants.DefaultFontFamily),
		ImageMetadata:   upload.ExtractMetadata(data),
	}
	if err := repository.GetGlobalRepositories().Template.Create(t); err != nil {
		os.Remove(imagePath)
		return templateUploadFailed(c)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Template uploaded",
	}).Redirect("/templates")
}

// HandleTemplateCustomize saves a per-account variant of a built-in design
// with adjusted text placement and colors.
func HandleTemplateCustomize(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	defaultID := c.FormValue("default_template_id")
	entry, ok := templates.CatalogEntryByID(defaultID)
	if !ok {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Unknown built-in template",
		}).Redirect("/templates")
	}

	t := &models.CertificateTemplate{
		UserID:            uc.UserID,
		TemplateType:      models.TemplateTypeDefault,
		DefaultTemplateID: entry.ID,
		PrimaryColor:      c.FormValue("primary_color", entry.PrimaryColor),
		TextXPosition:     formInt(c, "text_x", entry.TextX),
		TextYPosition:     formInt(c, "text_y", entry.TextY),
		FontSize:          formInt(c, "font_size", entry.FontSize),
		FontColor:         c.FormValue("font_color", entry.FontColor),
		FontFamily:        c.FormValue("font_family", constants.DefaultFontFamily),
	}
	if err := repository.GetGlobalRepositories().Template.Create(t); err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not save the template",
		}).Redirect("/templates")
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Template saved",
	}).Redirect("/templates")
}

func formInt(c *fiber.Ctx, key string, def int) int {
	if v, err := strconv.Atoi(c.FormValue(key)); err == nil {
		return v
	}
	return def
}

func templateUploadFailed(c *fiber.Ctx) error {
	return flash.WithError(c, fiber.Map{
		"type":    "error",
		"message": "Could not save the template",
	}).Redirect("/templates")
}

// HandleTemplateDelete removes one of the user's custom templates.
func HandleTemplateDelete(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	t, err := repos.Template.GetByIDForUser(c.Params("id"), uc.UserID)
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Template not found",
		}).Redirect("/templates")
	}

	if err := repos.Template.Delete(t.ID); err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not delete the template",
		}).Redirect("/templates")
	}
	if t.CustomImagePath != "" {
		os.Remove(t.CustomImagePath)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Template deleted",
	}).Redirect("/templates")
}
