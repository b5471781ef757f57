package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/certforge/certforge/app/repository"
	"github.com/certforge/certforge/internal/pkg/archive"
	"github.com/certforge/certforge/internal/pkg/certerrors"
	"github.com/certforge/certforge/internal/pkg/certgen"
	"github.com/certforge/certforge/internal/pkg/constants"
	"github.com/certforge/certforge/internal/pkg/usercontext"
)

type apiGenerateRequest struct {
	EventName        string   `json:"event_name"`
	OrganizationName string   `json:"organization_name"`
	TemplateID       string   `json:"template_id"`
	Participants     []string `json:"participants"`
}

// HandleAPIGenerate is the API-key-authenticated batch endpoint.
func HandleAPIGenerate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	var req apiGenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if req.TemplateID == "" {
		req.TemplateID = "classic"
	}
	if req.OrganizationName == "" {
		req.OrganizationName = uc.OrganizationName
	}

	result, err := services.certgen.Generate(c.Context(), certgen.GenerateRequest{
		UserID:           uc.UserID,
		EventName:        req.EventName,
		OrganizationName: req.OrganizationName,
		TemplateID:       req.TemplateID,
		Participants:     req.Participants,
	})
	if err != nil {
		return apiPipelineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"batch_id":        result.BatchID,
		"archive_name":    result.ArchiveName,
		"certificate_ids": result.CertificateIDs,
		"download_url":    constants.DownloadsRoute + "/" + result.BatchID,
	})
}

// HandleAPIGenerateCSV accepts a multipart CSV upload instead of a JSON
// participant array. Everything after parsing runs the same pipeline.
func HandleAPIGenerateCSV(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	file, err := c.FormFile("participants_csv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Missing participants_csv file"})
	}
	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Could not read participants_csv"})
	}
	defer src.Close()

	participants, err := certgen.ParseParticipantCSV(src)
	if err != nil {
		return apiPipelineError(c, err)
	}

	templateID := c.FormValue("template_id")
	if templateID == "" {
		templateID = "classic"
	}
	organization := c.FormValue("organization_name")
	if organization == "" {
		organization = uc.OrganizationName
	}

	result, err := services.certgen.Generate(c.Context(), certgen.GenerateRequest{
		UserID:           uc.UserID,
		EventName:        c.FormValue("event_name"),
		OrganizationName: organization,
		TemplateID:       templateID,
		Participants:     participants,
	})
	if err != nil {
		return apiPipelineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"batch_id":        result.BatchID,
		"archive_name":    result.ArchiveName,
		"certificate_ids": result.CertificateIDs,
		"download_url":    constants.DownloadsRoute + "/" + result.BatchID,
	})
}

// HandleAPIBatchStatus reports the state of one batch.
func HandleAPIBatchStatus(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	batch, err := repository.GetGlobalRepositories().Batch.GetByID(c.Params("id"))
	if err != nil || batch.UserID != uc.UserID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Batch not found"})
	}

	resp := fiber.Map{
		"batch_id":          batch.ID,
		"status":            batch.Status,
		"event_name":        batch.EventName,
		"participant_count": batch.ParticipantCount,
		"created_at":        batch.CreatedAt,
	}
	if batch.ArchiveRef != "" {
		resp["download_url"] = constants.DownloadsRoute + "/" + batch.ID
	}
	return c.JSON(resp)
}

// HandleAPIBatchDownload streams the archive of a completed batch.
func HandleAPIBatchDownload(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	batch, err := repository.GetGlobalRepositories().Batch.GetByID(c.Params("id"))
	if err != nil || batch.UserID != uc.UserID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Batch not found"})
	}
	if batch.ArchiveRef == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "This batch has no archive"})
	}

	data, err := services.archiveStore.Open(c.Context(), batch.ArchiveRef)
	if err != nil {
		if certerrors.KindOf(err) == certerrors.KindRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Archive not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not read the archive"})
	}

	filename := archive.ArchiveName(batch.EventName, batch.CreatedAt)
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// HandleAPIRevoke deactivates one certificate owned by the caller.
func HandleAPIRevoke(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	repos := repository.GetGlobalRepositories()

	cert, err := repos.Certificate.GetByID(c.Params("id"))
	if err != nil || cert.UserID != uc.UserID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Certificate not found"})
	}

	if err := repos.Certificate.SetActive(cert.ID, false); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not revoke the certificate"})
	}
	return c.JSON(fiber.Map{"certificate_id": cert.ID, "active": false})
}

// HandleAPIPreview returns a sample certificate PNG without issuing anything.
func HandleAPIPreview(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	templateID := c.Query("template", "classic")
	name := c.Query("name", "Sample Participant")
	event := c.Query("event", "Sample Event")
	organization := c.Query("organization", uc.OrganizationName)

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
		return apiPipelineError(c, err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(img)
}

// HandleAPICertificateList pages through the caller's certificates.
func HandleAPICertificateList(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit > 200 {
		limit = 200
	}

	certs, err := repository.GetGlobalRepositories().Certificate.GetByUserID(uc.UserID, offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not load certificates"})
	}
	return c.JSON(fiber.Map{"certificates": certs})
}

func apiPipelineError(c *fiber.Ctx, err error) error {
	kind := certerrors.KindOf(err)
	status := fiber.StatusInternalServerError
	switch kind {
	case certerrors.KindEmptyParticipantList, certerrors.KindMalformedIdentifier:
		status = fiber.StatusBadRequest
	case certerrors.KindQuotaExceeded:
		status = fiber.StatusPaymentRequired
	case certerrors.KindTemplateNotFound, certerrors.KindRecordNotFound:
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{
		"error":   string(kind),
		"message": generateErrorMessage(err),
	})
}
