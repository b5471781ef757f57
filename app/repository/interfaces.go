package repository

import (
	"github.com/certforge/certforge/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)

	// ReserveCertificateQuota atomically charges n certificates against the
	// account. Premium accounts always pass; non-premium accounts pass only
	// when certificate_count + n stays within limit. Returns
	// certerrors.ErrQuotaExceeded when the reservation cannot be granted.
	ReserveCertificateQuota(userID uint, n int, limit int) error
	// ReleaseCertificateQuota refunds a reservation after a failed batch.
	ReleaseCertificateQuota(userID uint, n int) error
}

// CertificateRepository defines the interface for certificate records
type CertificateRepository interface {
	Create(cert *models.Certificate) error
	GetByID(id string) (*models.Certificate, error)
	GetByBatchID(batchID string) ([]models.Certificate, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Certificate, error)
	CountByBatchID(batchID string) (int64, error)
	SetActive(id string, active bool) error
	// DeactivateByBatchID marks every certificate of a batch inactive.
	// Used to reconcile orphaned records when a batch fails mid-run.
	DeactivateByBatchID(batchID string) error
}

// BatchRepository defines the interface for generation batches
type BatchRepository interface {
	Create(batch *models.GenerationBatch) error
	GetByID(id string) (*models.GenerationBatch, error)
	GetByUserID(userID uint) ([]models.GenerationBatch, error)
	// MarkCompleted transitions processing -> completed and sets the archive
	// reference atomically with the status change. It is a compare-and-set:
	// a batch already in a terminal state is left untouched and
	// models.ErrBatchTerminal is returned.
	MarkCompleted(id string, archiveRef string) error
	// MarkFailed transitions processing -> failed, same compare-and-set rule.
	MarkFailed(id string) error
}

// TemplateRepository defines the interface for certificate templates
type TemplateRepository interface {
	Create(t *models.CertificateTemplate) error
	GetByID(id string) (*models.CertificateTemplate, error)
	GetByIDForUser(id string, userID uint) (*models.CertificateTemplate, error)
	GetByUserID(userID uint) ([]models.CertificateTemplate, error)
	Update(t *models.CertificateTemplate) error
	Delete(id string) error

	// Catalog override rows (database-managed default templates).
	GetDefaultByID(id string) (*models.DefaultTemplate, error)
	GetActiveDefaults() ([]models.DefaultTemplate, error)
	UpsertDefault(t *models.DefaultTemplate) error
}

// VerificationLogRepository stores verification audit rows
type VerificationLogRepository interface {
	Create(entry *models.VerificationLog) error
	GetByCertificateID(certificateID string, limit int) ([]models.VerificationLog, error)
	CountByCertificateID(certificateID string) (int64, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User            UserRepository
	Certificate     CertificateRepository
	Batch           BatchRepository
	Template        TemplateRepository
	VerificationLog VerificationLogRepository
}
