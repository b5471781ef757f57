package constants

// Issuance limits
const (
	// FreeTierLimit is the default number of certificates a non-premium
	// account may issue in total. Overridable via FREE_TIER_LIMIT.
	FreeTierLimit = 10
)

// Certificate canvas geometry. Text offsets are defined in the base
// 1024x768 coordinate space and scaled for other canvas sizes.
const (
	CertificateWidth  = 1024
	CertificateHeight = 768

	EventLineOffsetY = -80
	OrgLineOffsetY   = 60

	// QRWidthFraction is the QR code edge length relative to canvas width.
	QRWidthFraction = 0.12
	QRMargin        = 30

	// LogoHeightFraction caps the logo height relative to the canvas.
	LogoHeightFraction = 0.15
	LogoTopMargin      = 30
)

// Font defaults and bounds
const (
	DefaultFontSize   = 48
	DefaultFontColor  = "#000000"
	DefaultFontFamily = "serif"
	MinFontSize       = 8
	MaxFontSize       = 300
)

// Storage directories
const (
	UploadDir       = "uploads"
	CertificatesDir = "certificates"
)
