package repository

import (
	"sync"

	"gorm.io/gorm"
)

// NewRepositories wires all gorm-backed repositories to one database handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		Certificate:     NewCertificateRepository(db),
		Batch:           NewBatchRepository(db),
		Template:        NewTemplateRepository(db),
		VerificationLog: NewVerificationLogRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetCertificateRepository returns the certificate repository instance
func (f *Factory) GetCertificateRepository() CertificateRepository {
	return f.GetRepositories().Certificate
}

// GetBatchRepository returns the batch repository instance
func (f *Factory) GetBatchRepository() BatchRepository {
	return f.GetRepositories().Batch
}

// GetTemplateRepository returns the template repository instance
func (f *Factory) GetTemplateRepository() TemplateRepository {
	return f.GetRepositories().Template
}

// GetVerificationLogRepository returns the verification log repository instance
func (f *Factory) GetVerificationLogRepository() VerificationLogRepository {
	return f.GetRepositories().VerificationLog
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
