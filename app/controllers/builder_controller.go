package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/certforge/certforge/internal/pkg/builder"
	"github.com/certforge/certforge/internal/pkg/pdf"
	"github.com/certforge/certforge/internal/pkg/verify"
)

// HandleBuilder renders the interactive certificate designer.
func HandleBuilder(c *fiber.Ctx) error {
	return c.Render("builder/index", viewData(c, fiber.Map{
		"Title":            "Certificate builder",
		"PrinterAvailable": services.htmlPrinter != nil,
	}), "layouts/main")
}

// HandleBuilderPreview returns the live-preview markup for the current
// designer state.
func HandleBuilderPreview(c *fiber.Ctx) error {
	var cfg builder.Config
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid builder configuration"})
	}

	html, err := builder.Render(cfg)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Preview failed"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(html)
}

// HandleBuilderDownload prints the designed certificate to PDF. The embedded
// id and QR code are placeholders: no certificate record is created, so the
// printed code resolves to not-found until the design is issued through a
// batch.
func HandleBuilderDownload(c *fiber.Ctx) error {
	if services.htmlPrinter == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "unavailable",
			"message": "PDF printing is not available on this server",
		})
	}

	var cfg builder.Config
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid builder configuration"})
	}

	cfg.CertificateID = uuid.NewString()
	qr, err := verify.EncodeQR(verify.VerificationURL(services.certgen.PublicBaseURL, cfg.CertificateID))
	if err == nil {
		cfg.QRCodeDataURL = builder.DataURL("image/png", qr)
	}

	html, err := builder.Render(cfg)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Rendering failed"})
	}

	pdfBytes, err := services.htmlPrinter.Print(c.Context(), html)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "PDF generation failed"})
	}
	if !pdf.IsPDF(pdfBytes) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "PDF generation failed"})
	}

	filename := archiveSafeName(cfg.RecipientName, cfg.Title)
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

func archiveSafeName(recipient, title string) string {
	if recipient == "" {
		recipient = "Certificate"
	}
	if title == "" {
		title = "Certificate"
	}
	name := recipient + "_" + title + ".pdf"
	safe := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			safe = append(safe, r)
		default:
			safe = append(safe, '_')
		}
	}
	return string(safe)
}
