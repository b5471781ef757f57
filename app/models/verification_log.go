package models

import "time"

// Verification outcomes recorded for audit.
const (
	VerifyOutcomeValid     = "valid"
	VerifyOutcomeRevoked   = "revoked"
	VerifyOutcomeNotFound  = "not_found"
	VerifyOutcomeMalformed = "malformed"
)

// VerificationLog is one audit row per verification attempt. Writing it is
// best-effort and must never block the verification response.
type VerificationLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CertificateID string    `gorm:"type:varchar(64);index" json:"certificate_id"`
	Origin        string    `gorm:"type:varchar(45)" json:"origin"`
	UserAgent     string    `gorm:"type:varchar(255)" json:"user_agent"`
	Outcome       string    `gorm:"type:varchar(20);not null" json:"outcome"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}
