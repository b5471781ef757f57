package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certificate is the durable record behind a verification lookup. The ID is
// the opaque token embedded in the printed QR code; it is created before the
// document is rendered so a lookup can never race ahead of record creation.
type Certificate struct {
	ID              string    `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ParticipantName string    `gorm:"type:varchar(255);not null" json:"participant_name"`
	EventName       string    `gorm:"type:varchar(255);not null" json:"event_name"`
	BatchID         string    `gorm:"type:char(36);index;not null" json:"batch_id"`
	Active          bool      `gorm:"default:true" json:"active"`
	ScanCount       int64     `gorm:"default:0" json:"scan_count"`
	IssuedAt        time.Time `gorm:"autoCreateTime" json:"issued_at"`
}

// BeforeCreate assigns a fresh v4 UUID when none was provided.
func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Revoke deactivates the certificate. The record stays resolvable for audit
// but verifies as invalid.
func (c *Certificate) Revoke() {
	c.Active = false
}
