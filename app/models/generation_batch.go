package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Batch lifecycle states. processing is the only non-terminal state.
const (
	BatchStatusProcessing = "processing"
	BatchStatusCompleted  = "completed"
	BatchStatusFailed     = "failed"
)

var ErrBatchTerminal = errors.New("batch is already in a terminal state")

// GenerationBatch tracks one multi-participant generation run.
// ParticipantCount is fixed at creation to the normalized list size.
type GenerationBatch struct {
	ID               string     `gorm:"type:char(36) CHARACTER SET utf8 COLLATE utf8_bin;primaryKey" json:"id"`
	UserID           uint       `gorm:"index;not null" json:"user_id"`
	User             User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EventName        string     `gorm:"type:varchar(255);not null" json:"event_name"`
	ParticipantCount int        `gorm:"not null" json:"participant_count"`
	Status           string     `gorm:"type:varchar(20);default:'processing';index" json:"status"`
	ArchiveRef       string     `gorm:"type:varchar(512)" json:"archive_ref,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt      *time.Time `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
}

func (b *GenerationBatch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = BatchStatusProcessing
	}
	return nil
}

// IsTerminal reports whether the batch reached completed or failed.
func (b *GenerationBatch) IsTerminal() bool {
	return b.Status == BatchStatusCompleted || b.Status == BatchStatusFailed
}

// Complete transitions processing -> completed with the archive reference.
func (b *GenerationBatch) Complete(archiveRef string) error {
	if b.IsTerminal() {
		return ErrBatchTerminal
	}
	now := time.Now()
	b.Status = BatchStatusCompleted
	b.ArchiveRef = archiveRef
	b.CompletedAt = &now
	return nil
}

// Fail transitions processing -> failed. A failed batch never carries an
// archive reference.
func (b *GenerationBatch) Fail() error {
	if b.IsTerminal() {
		return ErrBatchTerminal
	}
	now := time.Now()
	b.Status = BatchStatusFailed
	b.ArchiveRef = ""
	b.CompletedAt = &now
	return nil
}
