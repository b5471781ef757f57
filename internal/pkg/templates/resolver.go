package templates

import (
	"errors"

	"gorm.io/gorm"

	"github.com/certforge/certforge/app/models"
	"github.com/certforge/certforge/internal/pkg/certerrors"
	"github.com/certforge/certforge/internal/pkg/constants"
)

// RenderSpec is the concrete, fully resolved input of the renderer. It is
// computed once per batch and never mutated mid-run.
type RenderSpec struct {
	BaseImageRef    string
	TextAnchorX     int
	TextAnchorY     int
	FontSizePt      int
	FontColorHex    string
	FontFamily      string
	PrimaryColorHex string
	LogoRef         string
}

// Store is the slice of the template repository the resolver needs.
type Store interface {
	GetByIDForUser(id string, userID uint) (*models.CertificateTemplate, error)
	GetDefaultByID(id string) (*models.DefaultTemplate, error)
}

// Resolver turns a template reference into a RenderSpec. Resolution order:
// account-owned template first, then a catalog default (database override row
// before the built-in table).
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve resolves templateID for the given account. Returns
// certerrors.ErrTemplateNotFound when neither a user template nor a catalog
// default matches.
func (r *Resolver) Resolve(userID uint, templateID string) (*RenderSpec, error) {
	if r.store != nil {
		t, err := r.store.GetByIDForUser(templateID, userID)
		if err == nil {
			return specFromUserTemplate(t), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		d, err := r.store.GetDefaultByID(templateID)
		if err == nil {
			return specFromOverride(d), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if e, ok := CatalogEntryByID(templateID); ok {
		return specFromCatalog(e), nil
	}

	return nil, certerrors.ErrTemplateNotFound
}

func specFromUserTemplate(t *models.CertificateTemplate) *RenderSpec {
	spec := &RenderSpec{
		TextAnchorX:     t.TextXPosition,
		TextAnchorY:     t.TextYPosition,
		FontSizePt:      t.FontSize,
		FontColorHex:    t.FontColor,
		FontFamily:      t.FontFamily,
		PrimaryColorHex: t.PrimaryColor,
		LogoRef:         t.LogoPath,
	}
	if t.IsCustom() {
		spec.BaseImageRef = t.CustomImagePath
	} else if e, ok := CatalogEntryByID(t.DefaultTemplateID); ok {
		spec.BaseImageRef = e.BaseImagePath
	}
	return clamp(spec)
}

func specFromOverride(d *models.DefaultTemplate) *RenderSpec {
	return clamp(&RenderSpec{
		BaseImageRef:    d.BaseImagePath,
		TextAnchorX:     d.DefaultTextX,
		TextAnchorY:     d.DefaultTextY,
		FontSizePt:      d.DefaultFontSize,
		FontColorHex:    d.DefaultFontColor,
		FontFamily:      constants.DefaultFontFamily,
		PrimaryColorHex: d.PrimaryColor,
	})
}

func specFromCatalog(e CatalogEntry) *RenderSpec {
	return clamp(&RenderSpec{
		BaseImageRef:    e.BaseImagePath,
		TextAnchorX:     e.TextX,
		TextAnchorY:     e.TextY,
		FontSizePt:      e.FontSize,
		FontColorHex:    e.FontColor,
		FontFamily:      constants.DefaultFontFamily,
		PrimaryColorHex: e.PrimaryColor,
	})
}

// clamp forces numeric fields into sane bounds: font size into
// [MinFontSize, MaxFontSize], anchor positions non-negative. Out-of-range
// values are clamped rather than rejected.
func clamp(s *RenderSpec) *RenderSpec {
	if s.FontSizePt < constants.MinFontSize {
		s.FontSizePt = constants.MinFontSize
	}
	if s.FontSizePt > constants.MaxFontSize {
		s.FontSizePt = constants.MaxFontSize
	}
	if s.TextAnchorX < 0 {
		s.TextAnchorX = 0
	}
	if s.TextAnchorY < 0 {
		s.TextAnchorY = 0
	}
	if s.FontColorHex == "" {
		s.FontColorHex = constants.DefaultFontColor
	}
	if s.FontFamily == "" {
		s.FontFamily = constants.DefaultFontFamily
	}
	return s
}
