package verify

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/certforge/certforge/app/models"
)

// Messages shown to verifiers. The not-found text deliberately does not
// distinguish malformed-looking-but-valid-shaped ids from unknown ones.
const (
	msgMalformed = "Invalid certificate ID format"
	msgNotFound  = "Certificate not found. This certificate may not exist or may have been revoked."
	msgRevoked   = "This certificate has been revoked and is no longer valid."
	msgValid     = "Certificate is valid and authentic."
)

// Display is the public projection of a verified certificate.
type Display struct {
	ParticipantName  string `json:"participant_name"`
	EventName        string `json:"event_name"`
	OrganizationName string `json:"organization_name"`
	IssuedDate       string `json:"issued_date"`
	CertificateID    string `json:"certificate_id"`
}

// Outcome is the result of one verification attempt.
type Outcome struct {
	Valid   bool     `json:"valid"`
	Message string   `json:"message"`
	Record  *Display `json:"certificate,omitempty"`
}

// CertificateStore is the slice of the certificate repository the service
// reads from.
type CertificateStore interface {
	GetByID(id string) (*models.Certificate, error)
}

// AuditLog records verification attempts. Implementations must be safe to
// call concurrently; failures are logged and swallowed.
type AuditLog interface {
	Create(entry *models.VerificationLog) error
}

// RateLimiter gates repeated lookups per network origin. Allow errs on the
// side of allowing: if the limiter backend is down verification still works.
type RateLimiter interface {
	Allow(origin string) bool
}

// Service answers certificate verification lookups.
type Service struct {
	certs   CertificateStore
	audit   AuditLog
	limiter RateLimiter

	// CountScan records one scan per resolved certificate, buffered in
	// Redis and drained by the counter flush worker. Optional, best-effort.
	CountScan func(certificateID string) error
}

func NewService(certs CertificateStore, audit AuditLog, limiter RateLimiter) *Service {
	return &Service{certs: certs, audit: audit, limiter: limiter}
}

// ErrRateLimited is returned when an origin exceeds the lookup budget.
var ErrRateLimited = errors.New("too many verification attempts")

// Verify resolves a certificate id to a verification outcome. Audit logging
// and rate limiting are best-effort side concerns that never block the
// primary response.
func (s *Service) Verify(certificateID, origin, userAgent string) (Outcome, error) {
	if s.limiter != nil && !s.limiter.Allow(origin) {
		return Outcome{}, ErrRateLimited
	}

	if !IsWellFormed(certificateID) {
		s.logAttempt(certificateID, origin, userAgent, models.VerifyOutcomeMalformed)
		return Outcome{Valid: false, Message: msgMalformed}, nil
	}

	cert, err := s.certs.GetByID(certificateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logAttempt(certificateID, origin, userAgent, models.VerifyOutcomeNotFound)
			return Outcome{Valid: false, Message: msgNotFound}, nil
		}
		return Outcome{}, fmt.Errorf("looking up certificate: %w", err)
	}

	s.countScan(cert.ID)

	if !cert.Active {
		s.logAttempt(certificateID, origin, userAgent, models.VerifyOutcomeRevoked)
		return Outcome{Valid: false, Message: msgRevoked}, nil
	}

	s.logAttempt(certificateID, origin, userAgent, models.VerifyOutcomeValid)
	return Outcome{
		Valid:   true,
		Message: msgValid,
		Record:  FormatForDisplay(cert),
	}, nil
}

// FormatForDisplay builds the public projection of a certificate.
func FormatForDisplay(cert *models.Certificate) *Display {
	return &Display{
		ParticipantName:  cert.ParticipantName,
		EventName:        cert.EventName,
		OrganizationName: cert.User.OrganizationName,
		IssuedDate:       cert.IssuedAt.Format("January 2, 2006"),
		CertificateID:    cert.ID,
	}
}

func (s *Service) logAttempt(certificateID, origin, userAgent, outcome string) {
	if s.audit == nil {
		return
	}
	entry := &models.VerificationLog{
		CertificateID: truncate(certificateID, 64),
		Origin:        truncate(origin, 45),
		UserAgent:     truncate(userAgent, 255),
		Outcome:       outcome,
		CreatedAt:     time.Now(),
	}
	if err := s.audit.Create(entry); err != nil {
		log.Warnf("[Verify] failed to write audit log for %s: %v", certificateID, err)
	}
}

func (s *Service) countScan(certificateID string) {
	if s.CountScan == nil {
		return
	}
	if err := s.CountScan(certificateID); err != nil {
		log.Warnf("[Verify] failed to count scan for %s: %v", certificateID, err)
	}
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
