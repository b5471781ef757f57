package repository

import (
	"gorm.io/gorm"

	"github.com/certforge/certforge/app/models"
)

// verificationLogRepository implements the VerificationLogRepository interface
type verificationLogRepository struct {
	db *gorm.DB
}

// NewVerificationLogRepository creates a new verification log repository instance
func NewVerificationLogRepository(db *gorm.DB) VerificationLogRepository {
	return &verificationLogRepository{db: db}
}

// Create appends one audit row
func (r *verificationLogRepository) Create(entry *models.VerificationLog) error {
	return r.db.Create(entry).Error
}

// GetByCertificateID returns the most recent attempts for a certificate
func (r *verificationLogRepository) GetByCertificateID(certificateID string, limit int) ([]models.VerificationLog, error) {
	var logs []models.VerificationLog
	err := r.db.Where("certificate_id = ?", certificateID).
		Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// CountByCertificateID counts all attempts for a certificate
func (r *verificationLogRepository) CountByCertificateID(certificateID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.VerificationLog{}).
		Where("certificate_id = ?", certificateID).Count(&count).Error
	return count, err
}
