package repository

import (
	"gorm.io/gorm"

	"github.com/certforge/certforge/app/models"
)

// certificateRepository implements the CertificateRepository interface
type certificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository creates a new certificate repository instance
func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

// Create creates a new certificate record
func (r *certificateRepository) Create(cert *models.Certificate) error {
	return r.db.Create(cert).Error
}

// GetByID retrieves a certificate with its issuing user preloaded
func (r *certificateRepository) GetByID(id string) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.Preload("User").Where("id = ?", id).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// GetByBatchID returns all certificates of a batch in issue order
func (r *certificateRepository) GetByBatchID(batchID string) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := r.db.Where("batch_id = ?", batchID).Order("issued_at ASC").Find(&certs).Error
	return certs, err
}

// GetByUserID returns a page of the user's certificates, newest first
func (r *certificateRepository) GetByUserID(userID uint, offset, limit int) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := r.db.Where("user_id = ?", userID).
		Order("issued_at DESC").
		Offset(offset).Limit(limit).
		Find(&certs).Error
	return certs, err
}

// CountByBatchID counts the certificates created for a batch
func (r *certificateRepository) CountByBatchID(batchID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Certificate{}).Where("batch_id = ?", batchID).Count(&count).Error
	return count, err
}

// SetActive flips the revocation flag of a single certificate
func (r *certificateRepository) SetActive(id string, active bool) error {
	return r.db.Model(&models.Certificate{}).Where("id = ?", id).
		UpdateColumn("active", active).Error
}

// DeactivateByBatchID marks all certificates of a batch inactive
func (r *certificateRepository) DeactivateByBatchID(batchID string) error {
	return r.db.Model(&models.Certificate{}).Where("batch_id = ?", batchID).
		UpdateColumn("active", false).Error
}
