package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template source kinds. A default-typed template customizes a catalog entry,
// a custom-typed template brings its own uploaded base image.
const (
	TemplateTypeDefault = "default"
	TemplateTypeCustom  = "custom"
)

// CertificateTemplate is an account-owned template: either a customized
// catalog default or a fully custom uploaded base image.
type CertificateTemplate struct {
	ID                string    `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;primaryKey" json:"id"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	User              User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	TemplateType      string    `gorm:"type:varchar(20);not null" json:"template_type"`
	DefaultTemplateID string    `gorm:"type:varchar(64);default:null" json:"default_template_id,omitempty"`
	CustomImagePath   string    `gorm:"type:varchar(512);default:null" json:"custom_image_path,omitempty"`
	LogoPath          string    `gorm:"type:varchar(512);default:null" json:"logo_path,omitempty"`
	PrimaryColor      string    `gorm:"type:varchar(9)" json:"primary_color"`
	TextXPosition     int       `gorm:"not null" json:"text_x_position"`
	TextYPosition     int       `gorm:"not null" json:"text_y_position"`
	FontSize          int       `gorm:"not null" json:"font_size"`
	FontColor         string    `gorm:"type:varchar(9)" json:"font_color"`
	FontFamily        string    `gorm:"type:varchar(50)" json:"font_family"`
	ImageMetadata     *JSON     `gorm:"type:json" json:"image_metadata,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *CertificateTemplate) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsCustom reports whether the template uses an uploaded base image.
func (t *CertificateTemplate) IsCustom() bool {
	return t.TemplateType == TemplateTypeCustom && t.CustomImagePath != ""
}

// DefaultTemplate is a database override row for a catalog entry. The
// built-in catalog lives in internal/pkg/templates; rows here let operators
// tweak or disable entries without a release.
type DefaultTemplate struct {
	ID               string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(100);not null" json:"name"`
	PreviewImagePath string    `gorm:"type:varchar(512)" json:"preview_image_path"`
	BaseImagePath    string    `gorm:"type:varchar(512);not null" json:"base_image_path"`
	DefaultTextX     int       `gorm:"not null" json:"default_text_x"`
	DefaultTextY     int       `gorm:"not null" json:"default_text_y"`
	DefaultFontSize  int       `gorm:"not null" json:"default_font_size"`
	DefaultFontColor string    `gorm:"type:varchar(9)" json:"default_font_color"`
	PrimaryColor     string    `gorm:"type:varchar(9)" json:"primary_color"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
