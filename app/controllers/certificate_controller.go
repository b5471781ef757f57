package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/certforge/certforge/app/repository"
	"github.com/certforge/certforge/internal/pkg/archive"
	"github.com/certforge/certforge/internal/pkg/certerrors"
	"github.com/certforge/certforge/internal/pkg/certgen"
	"github.com/certforge/certforge/internal/pkg/constants"
	"github.com/certforge/certforge/internal/pkg/usercontext"
)

// HandleCertificates lists the user's batches and recent certificates.
func HandleCertificates(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	batches, err := repos.Batch.GetByUserID(uc.UserID)
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not load your batches",
		}).Redirect("/")
	}
	certs, err := repos.Certificate.GetByUserID(uc.UserID, 0, 50)
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not load your certificates",
		}).Redirect("/")
	}

	return c.Render("certificates/index", viewData(c, fiber.Map{
		"Title":        "Your certificates",
		"Batches":      batches,
		"Certificates": certs,
	}), "layouts/main")
}

// HandleGenerate runs one generation batch from the web form. Participants
// come from a textarea (one name per line) or an uploaded CSV; the CSV wins
// when both are present.
func HandleGenerate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	participants, err := collectParticipants(c)
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": generateErrorMessage(err),
		}).Redirect(constants.CertificatesRoute)
	}

	organization := c.FormValue("organization_name")
	if organization == "" {
		organization = uc.OrganizationName
	}

	result, err := services.certgen.Generate(c.Context(), certgen.GenerateRequest{
		UserID:           uc.UserID,
		EventName:        c.FormValue("event_name"),
		OrganizationName: organization,
		TemplateID:       c.FormValue("template_id"),
		Participants:     participants,
	})
	if err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": generateErrorMessage(err),
		}).Redirect(constants.CertificatesRoute)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Generated " + result.ArchiveName,
	}).Redirect(constants.DownloadsRoute + "/" + result.BatchID)
}

func collectParticipants(c *fiber.Ctx) ([]string, error) {
	if file, err := c.FormFile("participants_csv"); err == nil && file != nil {
		src, err := file.Open()
		if err != nil {
			return nil, certerrors.Wrap(certerrors.KindEmptyParticipantList, "opening participant CSV", err)
		}
		defer src.Close()
		return certgen.ParseParticipantCSV(src)
	}
	return strings.Split(c.FormValue("participants"), "\n"), nil
}

// generateErrorMessage maps pipeline errors to user-facing text.
func generateErrorMessage(err error) string {
	switch certerrors.KindOf(err) {
	case certerrors.KindEmptyParticipantList:
		return "Please provide at least one participant name"
	case certerrors.KindQuotaExceeded:
		return "This batch would exceed your free certificate limit. Upgrade to premium for unlimited certificates."
	case certerrors.KindTemplateNotFound:
		return "The selected template no longer exists"
	case certerrors.KindRenderFailure, certerrors.KindConversionFailure:
		return "Certificate generation failed, no certificates were issued"
	case certerrors.KindPackagingFailure:
		return "Packaging the archive failed, no certificates were issued"
	case certerrors.KindMalformedIdentifier:
		return "That certificate id is not valid"
	case certerrors.KindRecordNotFound:
		return "Certificate not found"
	default:
		return "Something went wrong, please try again"
	}
}

// HandleDownloadArchive serves a completed batch archive.
func HandleDownloadArchive(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	batchID := c.Params("id")

	batch, err := repository.GetGlobalRepositories().Batch.GetByID(batchID)
	if err != nil || batch.UserID != uc.UserID {
		return c.Status(fiber.StatusNotFound).SendString("Archive not found")
	}
	if batch.ArchiveRef == "" {
		return c.Status(fiber.StatusNotFound).SendString("This batch has no archive")
	}

	data, err := services.archiveStore.Open(c.Context(), batch.ArchiveRef)
	if err != nil {
		if certerrors.KindOf(err) == certerrors.KindRecordNotFound {
			return c.Status(fiber.StatusNotFound).SendString("Archive not found")
		}
		return c.Status(fiber.StatusInternalServerError).SendString("Could not read the archive")
	}

	filename := archive.ArchiveName(batch.EventName, batch.CreatedAt)
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// HandlePreview returns a sample certificate PNG for the given template.
func HandlePreview(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	name := c.Query("name", "Sample Participant")
	event := c.Query("event", "Sample Event")
	organization := c.Query("organization", uc.OrganizationName)

	templateID := c.Query("template", "classic")

	var img []byte
	var err error
	contentType := "image/png"
	if c.Query("format") == "webp" {
		contentType = "image/webp"
		img, err = services.certgen.PreviewWebP(uc.UserID, templateID, name, event, organization)
	} else {
		img, err = services.certgen.Preview(uc.UserID, templateID, name, event, organization)
	}
	if err != nil {
		if errors.Is(err, certerrors.ErrTemplateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Template not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Preview failed"})
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(img)
}

// HandleRegenerate re-issues the PDF for one certificate without charging
// quota or changing its verification id.
func HandleRegenerate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	pdfBytes, err := services.certgen.Regenerate(
		uc.UserID,
		c.Params("id"),
		c.Query("template", "classic"),
		uc.OrganizationName,
	)
	if err != nil {
		if certerrors.KindOf(err) == certerrors.KindRecordNotFound {
			return c.Status(fiber.StatusNotFound).SendString("Certificate not found")
		}
		return c.Status(fiber.StatusInternalServerError).SendString("Could not regenerate the certificate")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="certificate.pdf"`)
	return c.Send(pdfBytes)
}

// HandleRevoke deactivates one certificate. The record stays for audit and
// the printed QR code resolves to a revoked notice from then on.
func HandleRevoke(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	cert, err := repos.Certificate.GetByID(c.Params("id"))
	if err != nil || cert.UserID != uc.UserID {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Certificate not found",
		}).Redirect(constants.CertificatesRoute)
	}

	if err := repos.Certificate.SetActive(cert.ID, false); err != nil {
		return flash.WithError(c, fiber.Map{
			"type":    "error",
			"message": "Could not revoke the certificate",
		}).Redirect(constants.CertificatesRoute)
	}

	return flash.WithSuccess(c, fiber.Map{
		"type":    "success",
		"message": "Certificate revoked",
	}).Redirect(constants.CertificatesRoute)
}
