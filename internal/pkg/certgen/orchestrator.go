package certgen

import (
	"context"
	"image"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/certforge/certforge/app/models"
	"github.com/certforge/certforge/internal/pkg/archive"
	"github.com/certforge/certforge/internal/pkg/certerrors"
	"github.com/certforge/certforge/internal/pkg/certrender"
	"github.com/certforge/certforge/internal/pkg/templates"
	"github.com/certforge/certforge/internal/pkg/verify"
)

// DefaultConcurrency bounds how many certificates render in parallel per
// batch. Rendering is CPU-bound, so a small pool is enough.
const DefaultConcurrency = 4

// CertificateStore is the record store slice the orchestrator writes to.
type CertificateStore interface {
	Create(cert *models.Certificate) error
	GetByID(id string) (*models.Certificate, error)
	DeactivateByBatchID(batchID string) error
}

// BatchStore tracks batch life cycles.
type BatchStore interface {
	Create(batch *models.GenerationBatch) error
	MarkCompleted(id string, archiveRef string) error
	MarkFailed(id string) error
}

// QuotaEnforcer charges and refunds certificate quota.
type QuotaEnforcer interface {
	Reserve(userID uint, n int) error
	Release(userID uint, n int) error
}

// TemplateResolver resolves a template id into a render specification.
type TemplateResolver interface {
	Resolve(userID uint, templateID string) (*templates.RenderSpec, error)
}

// Converter turns one rendered PNG into the final PDF document.
type Converter func(png []byte) ([]byte, error)

// GenerateRequest describes one batch job.
type GenerateRequest struct {
	UserID           uint
	EventName        string
	OrganizationName string
	TemplateID       string
	Participants     []string
}

// GenerateResult is returned after a batch completes.
type GenerateResult struct {
	BatchID        string
	ArchiveName    string
	ArchiveRef     string
	CertificateIDs []string
}

// Service runs the generation pipeline end to end.
type Service struct {
	certs    CertificateStore
	batches  BatchStore
	quota    QuotaEnforcer
	resolver TemplateResolver
	renderer *certrender.Renderer
	convert  Converter
	store    archive.Store

	// PublicBaseURL is the address printed into verification QR codes.
	PublicBaseURL string
	// Concurrency bounds the render worker pool.
	Concurrency int
	// now is swappable for deterministic archive names in tests.
	now func() time.Time
}

func NewService(
	certs CertificateStore,
	batches BatchStore,
	quota QuotaEnforcer,
	resolver TemplateResolver,
	renderer *certrender.Renderer,
	convert Converter,
	store archive.Store,
	publicBaseURL string,
) *Service {
	return &Service{
		certs:         certs,
		batches:       batches,
		quota:         quota,
		resolver:      resolver,
		renderer:      renderer,
		convert:       convert,
		store:         store,
		PublicBaseURL: publicBaseURL,
		Concurrency:   DefaultConcurrency,
		now:           time.Now,
	}
}

// Generate runs one batch. Participants are normalized first; quota is
// charged for the normalized count before any record exists. The batch is
// all-or-nothing: a single render or conversion failure fails the whole
// batch, deactivates its records and refunds the reservation.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	names := NormalizeParticipants(req.Participants)
	if len(names) == 0 {
		return nil, certerrors.ErrEmptyParticipantList
	}

	if err := s.quota.Reserve(req.UserID, len(names)); err != nil {
		return nil, err
	}

	spec, err := s.resolver.Resolve(req.UserID, req.TemplateID)
	if err != nil {
		s.refund(req.UserID, len(names))
		return nil, err
	}

	batch := &models.GenerationBatch{
		UserID:           req.UserID,
		EventName:        req.EventName,
		ParticipantCount: len(names),
		Status:           models.BatchStatusProcessing,
	}
	if err := s.batches.Create(batch); err != nil {
		s.refund(req.UserID, len(names))
		return nil, certerrors.Wrap(certerrors.KindInternal, "creating generation batch", err)
	}

	docs := make([]archive.Document, len(names))
	ids := make([]string, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pdf, certID, err := s.renderOne(name, req, batch.ID, spec)
			if err != nil {
				return err
			}
			docs[i] = archive.Document{ParticipantName: name, PDF: pdf}
			ids[i] = certID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.failBatch(batch.ID, req.UserID, len(names))
		return nil, err
	}

	data, err := archive.Pack(docs)
	if err != nil {
		s.failBatch(batch.ID, req.UserID, len(names))
		return nil, err
	}
	archiveName := archive.ArchiveName(req.EventName, s.now())
	ref, err := s.store.Save(ctx, archiveName, data)
	if err != nil {
		s.failBatch(batch.ID, req.UserID, len(names))
		return nil, err
	}

	if err := s.batches.MarkCompleted(batch.ID, ref); err != nil {
		return nil, certerrors.Wrap(certerrors.KindInternal, "completing generation batch", err)
	}

	log.Infof("[CertGen] batch %s completed: %d certificates for %q", batch.ID, len(names), req.EventName)
	return &GenerateResult{
		BatchID:        batch.ID,
		ArchiveName:    archiveName,
		ArchiveRef:     ref,
		CertificateIDs: ids,
	}, nil
}

// renderOne creates the durable record, renders the image with its
// verification code and converts it to the final document.
func (s *Service) renderOne(name string, req GenerateRequest, batchID string, spec *templates.RenderSpec) ([]byte, string, error) {
	cert := &models.Certificate{
		ID:              uuid.NewString(),
		UserID:          req.UserID,
		ParticipantName: name,
		EventName:       req.EventName,
		BatchID:         batchID,
		Active:          true,
	}
	if err := s.certs.Create(cert); err != nil {
		return nil, "", certerrors.Wrap(certerrors.KindInternal, "creating certificate record", err)
	}

	qr, err := verify.EncodeQR(verify.VerificationURL(s.PublicBaseURL, cert.ID))
	if err != nil {
		return nil, "", err
	}

	img, err := s.renderer.Render(certrender.RenderRequest{
		ParticipantName:  name,
		EventName:        req.EventName,
		OrganizationName: req.OrganizationName,
		QRCodePNG:        qr,
		Spec:             spec,
	})
	if err != nil {
		return nil, "", err
	}
	png, err := certrender.EncodePNG(img)
	if err != nil {
		return nil, "", err
	}

	pdf, err := s.convert(png)
	if err != nil {
		return nil, "", err
	}
	return pdf, cert.ID, nil
}

// Preview renders one sample certificate without a verification code and
// without touching records or quota.
func (s *Service) Preview(userID uint, templateID, participantName, eventName, organizationName string) ([]byte, error) {
	img, err := s.previewImage(userID, templateID, participantName, eventName, organizationName)
	if err != nil {
		return nil, err
	}
	return certrender.EncodePNG(img)
}

// PreviewWebP is Preview with lossy WebP output, for clients that ask for a
// lighter payload via the format query parameter.
func (s *Service) PreviewWebP(userID uint, templateID, participantName, eventName, organizationName string) ([]byte, error) {
	img, err := s.previewImage(userID, templateID, participantName, eventName, organizationName)
	if err != nil {
		return nil, err
	}
	return certrender.EncodeWebP(img, certrender.PreviewWebPQuality)
}

func (s *Service) previewImage(userID uint, templateID, participantName, eventName, organizationName string) (image.Image, error) {
	spec, err := s.resolver.Resolve(userID, templateID)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(certrender.RenderRequest{
		ParticipantName:  participantName,
		EventName:        eventName,
		OrganizationName: organizationName,
		Spec:             spec,
	})
}

// Regenerate re-renders the document for one existing certificate, keeping
// its id and therefore its printed verification code. No quota is charged.
func (s *Service) Regenerate(userID uint, certificateID, templateID, organizationName string) ([]byte, error) {
	if !verify.IsWellFormed(certificateID) {
		return nil, certerrors.ErrMalformedIdentifier
	}
	cert, err := s.certs.GetByID(certificateID)
	if err != nil {
		return nil, certerrors.Wrap(certerrors.KindRecordNotFound, "loading certificate", err)
	}
	if cert.UserID != userID {
		return nil, certerrors.ErrRecordNotFound
	}

	spec, err := s.resolver.Resolve(userID, templateID)
	if err != nil {
		return nil, err
	}
	qr, err := verify.EncodeQR(verify.VerificationURL(s.PublicBaseURL, cert.ID))
	if err != nil {
		return nil, err
	}
	img, err := s.renderer.Render(certrender.RenderRequest{
		ParticipantName:  cert.ParticipantName,
		EventName:        cert.EventName,
		OrganizationName: organizationName,
		QRCodePNG:        qr,
		Spec:             spec,
	})
	if err != nil {
		return nil, err
	}
	png, err := certrender.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return s.convert(png)
}

func (s *Service) concurrency() int {
	if s.Concurrency < 1 {
		return 1
	}
	return s.Concurrency
}

// failBatch reconciles a batch that did not finish: the batch row turns
// failed, its certificate records deactivate and the quota reservation is
// refunded. Each step is independent so one failure does not mask another.
func (s *Service) failBatch(batchID string, userID uint, reserved int) {
	if err := s.batches.MarkFailed(batchID); err != nil {
		log.Errorf("[CertGen] failed to mark batch %s failed: %v", batchID, err)
	}
	if err := s.certs.DeactivateByBatchID(batchID); err != nil {
		log.Errorf("[CertGen] failed to deactivate certificates of batch %s: %v", batchID, err)
	}
	s.refund(userID, reserved)
}

func (s *Service) refund(userID uint, n int) {
	if err := s.quota.Release(userID, n); err != nil {
		log.Errorf("[CertGen] failed to refund quota for user %d: %v", userID, err)
	}
}
