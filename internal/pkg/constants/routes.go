package constants

// Route paths shared between the router and redirect/URL building code.
const (
	CertificatesRoute = "/certificates"
	DownloadsRoute    = "/downloads"
	VerifyRoute       = "/verify"
)
