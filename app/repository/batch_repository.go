package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/certforge/certforge/app/models"
)

// batchRepository implements the BatchRepository interface
type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository creates a new batch repository instance
func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

// Create creates a new generation batch row
func (r *batchRepository) Create(batch *models.GenerationBatch) error {
	return r.db.Create(batch).Error
}

// GetByID retrieves a batch by its ID
func (r *batchRepository) GetByID(id string) (*models.GenerationBatch, error) {
	var batch models.GenerationBatch
	err := r.db.Where("id = ?", id).First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// GetByUserID returns the user's batches, newest first
func (r *batchRepository) GetByUserID(userID uint) ([]models.GenerationBatch, error) {
	var batches []models.GenerationBatch
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&batches).Error
	return batches, err
}

// MarkCompleted performs the processing -> completed transition together with
// the archive reference in one guarded UPDATE. The status guard makes the
// terminal write exactly-once even when racing failure writers.
func (r *batchRepository) MarkCompleted(id string, archiveRef string) error {
	return r.transition(id, models.BatchStatusCompleted, archiveRef)
}

// MarkFailed performs the processing -> failed transition. Failed batches
// never carry an archive reference.
func (r *batchRepository) MarkFailed(id string) error {
	return r.transition(id, models.BatchStatusFailed, "")
}

func (r *batchRepository) transition(id, status, archiveRef string) error {
	res := r.db.Model(&models.GenerationBatch{}).
		Where("id = ? AND status = ?", id, models.BatchStatusProcessing).
		Updates(map[string]any{
			"status":       status,
			"archive_ref":  archiveRef,
			"completed_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.GenerationBatch{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return models.ErrBatchTerminal
	}
	return nil
}
