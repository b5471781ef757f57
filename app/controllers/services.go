package controllers

import (
	"github.com/gofiber/fiber/v2/log"

	"github.com/certforge/certforge/app/repository"
	"github.com/certforge/certforge/internal/pkg/archive"
	"github.com/certforge/certforge/internal/pkg/certgen"
	"github.com/certforge/certforge/internal/pkg/certrender"
	"github.com/certforge/certforge/internal/pkg/constants"
	"github.com/certforge/certforge/internal/pkg/env"
	"github.com/certforge/certforge/internal/pkg/metrics/counter"
	"github.com/certforge/certforge/internal/pkg/pdf"
	"github.com/certforge/certforge/internal/pkg/quota"
	"github.com/certforge/certforge/internal/pkg/templates"
	"github.com/certforge/certforge/internal/pkg/verify"
)

// services holds the shared domain services behind all controllers.
// InitializeControllers must run once during router installation.
var services struct {
	certgen      *certgen.Service
	verification *verify.Service
	archiveStore archive.Store
	htmlPrinter  *pdf.HTMLPrinter
}

// InitializeControllers wires repositories, stores and pipelines together.
func InitializeControllers() {
	repos := repository.GetGlobalRepositories()

	store, err := selectArchiveStore()
	if err != nil {
		log.Fatalf("[Controllers] failed to initialize archive store: %v", err)
	}

	publicBaseURL := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000")

	services.archiveStore = store
	services.certgen = certgen.NewService(
		repos.Certificate,
		repos.Batch,
		quota.NewEnforcer(repos.User),
		templates.NewResolver(repos.Template),
		certrender.NewRenderer(),
		pdf.FromPNG,
		store,
		publicBaseURL,
	)
	services.verification = verify.NewService(
		repos.Certificate,
		repos.VerificationLog,
		verify.NewCacheRateLimiter(),
	)
	services.verification.CountScan = counter.AddScan

	printer, err := pdf.NewHTMLPrinter(env.GetEnvAsInt("PDF_WORKERS", 2))
	if err != nil {
		log.Warnf("[Controllers] HTML printing unavailable: %v", err)
	} else if printer == nil {
		log.Warn("[Controllers] no Chromium found, builder downloads are disabled")
	}
	services.htmlPrinter = printer
}

func selectArchiveStore() (archive.Store, error) {
	cfg, err := archive.LoadS3Config()
	if err != nil {
		return nil, err
	}
	if cfg.Enabled {
		return archive.NewS3Store(cfg)
	}
	return archive.NewLocalStore(constants.CertificatesDir)
}
