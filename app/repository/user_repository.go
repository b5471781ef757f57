package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/certforge/certforge/app/models"
	"github.com/certforge/certforge/internal/pkg/certerrors"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByAPIKeyHash resolves an API key hash to its user.
func (r *userRepository) GetByAPIKeyHash(hash string) (*models.User, error) {
	trimmed := strings.TrimSpace(hash)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.Where("api_key_hash = ? AND api_key_hash <> ''", trimmed).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete soft-deletes a user by ID
func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// ReserveCertificateQuota charges n certificates in a single conditional
// UPDATE so that concurrent batches from the same account cannot jointly
// exceed the free-tier limit.
func (r *userRepository) ReserveCertificateQuota(userID uint, n int, limit int) error {
	if n <= 0 {
		return nil
	}
	res := r.db.Model(&models.User{}).
		Where("id = ? AND (is_premium = ? OR certificate_count + ? <= ?)", userID, true, n, limit).
		UpdateColumn("certificate_count", gorm.Expr("certificate_count + ?", n))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the user does not exist or the limit would be exceeded.
		// Distinguish so callers can report quota errors precisely.
		var count int64
		if err := r.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return certerrors.ErrQuotaExceeded
	}
	return nil
}

// ReleaseCertificateQuota refunds a prior reservation. The floor at zero
// guards against double releases.
func (r *userRepository) ReleaseCertificateQuota(userID uint, n int) error {
	if n <= 0 {
		return nil
	}
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("certificate_count", gorm.Expr("GREATEST(certificate_count - ?, 0)", n)).Error
}
