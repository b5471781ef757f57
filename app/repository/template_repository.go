package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/certforge/certforge/app/models"
)

// templateRepository implements the TemplateRepository interface
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository instance
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create creates a new user template
func (r *templateRepository) Create(t *models.CertificateTemplate) error {
	return r.db.Create(t).Error
}

// GetByID retrieves a template regardless of owner
func (r *templateRepository) GetByID(id string) (*models.CertificateTemplate, error) {
	var t models.CertificateTemplate
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByIDForUser retrieves a template only if the user owns it
func (r *templateRepository) GetByIDForUser(id string, userID uint) (*models.CertificateTemplate, error) {
	var t models.CertificateTemplate
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByUserID returns the user's templates, newest first
func (r *templateRepository) GetByUserID(userID uint) ([]models.CertificateTemplate, error) {
	var ts []models.CertificateTemplate
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&ts).Error
	return ts, err
}

// Update updates an existing template
func (r *templateRepository) Update(t *models.CertificateTemplate) error {
	return r.db.Save(t).Error
}

// Delete removes a template permanently
func (r *templateRepository) Delete(id string) error {
	return r.db.Unscoped().Where("id = ?", id).Delete(&models.CertificateTemplate{}).Error
}

// GetDefaultByID retrieves an active catalog override row
func (r *templateRepository) GetDefaultByID(id string) (*models.DefaultTemplate, error) {
	var t models.DefaultTemplate
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetActiveDefaults returns all active catalog override rows
func (r *templateRepository) GetActiveDefaults() ([]models.DefaultTemplate, error) {
	var ts []models.DefaultTemplate
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&ts).Error
	return ts, err
}

// UpsertDefault inserts or updates a catalog override row
func (r *templateRepository) UpsertDefault(t *models.DefaultTemplate) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(t).Error
}
