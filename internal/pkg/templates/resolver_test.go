package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/certforge/certforge/app/models"
	"github.com/certforge/certforge/internal/pkg/certerrors"
)

type fakeStore struct {
	userTemplates map[string]*models.CertificateTemplate
	overrides     map[string]*models.DefaultTemplate
}

func (f *fakeStore) GetByIDForUser(id string, userID uint) (*models.CertificateTemplate, error) {
	if t, ok := f.userTemplates[id]; ok && t.UserID == userID {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) GetDefaultByID(id string) (*models.DefaultTemplate, error) {
	if t, ok := f.overrides[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		userTemplates: map[string]*models.CertificateTemplate{},
		overrides:     map[string]*models.DefaultTemplate{},
	}
}

func TestResolver_UserTemplateWins(t *testing.T) {
	store := newFakeStore()
	store.userTemplates["tpl-1"] = &models.CertificateTemplate{
		ID:              "tpl-1",
		UserID:          7,
		TemplateType:    models.TemplateTypeCustom,
		CustomImagePath: "uploads/7/base.png",
		TextXPosition:   500,
		TextYPosition:   420,
		FontSize:        60,
		FontColor:       "#112233",
		FontFamily:      "sans-bold",
		PrimaryColor:    "#445566",
		LogoPath:        "uploads/7/logo.png",
	}

	spec, err := NewResolver(store).Resolve(7, "tpl-1")
	require.NoError(t, err)
	assert.Equal(t, "uploads/7/base.png", spec.BaseImageRef)
	assert.Equal(t, 500, spec.TextAnchorX)
	assert.Equal(t, 60, spec.FontSizePt)
	assert.Equal(t, "uploads/7/logo.png", spec.LogoRef)
}

func TestResolver_OtherUsersTemplateIsInvisible(t *testing.T) {
	store := newFakeStore()
	store.userTemplates["tpl-1"] = &models.CertificateTemplate{ID: "tpl-1", UserID: 7}

	_, err := NewResolver(store).Resolve(99, "tpl-1")
	assert.ErrorIs(t, err, certerrors.ErrTemplateNotFound)
}

func TestResolver_CatalogFallback(t *testing.T) {
	spec, err := NewResolver(newFakeStore()).Resolve(1, "classic")
	require.NoError(t, err)
	assert.Equal(t, "public/images/default-templates/classic.png", spec.BaseImageRef)
	assert.Equal(t, 48, spec.FontSizePt)
	assert.Equal(t, "#1a365d", spec.FontColorHex)
}

func TestResolver_DatabaseOverrideBeatsCatalog(t *testing.T) {
	store := newFakeStore()
	store.overrides["classic"] = &models.DefaultTemplate{
		ID:               "classic",
		BaseImagePath:    "overrides/classic-v2.png",
		DefaultTextX:     512,
		DefaultTextY:     400,
		DefaultFontSize:  50,
		DefaultFontColor: "#000000",
		PrimaryColor:     "#123456",
		IsActive:         true,
	}

	spec, err := NewResolver(store).Resolve(1, "classic")
	require.NoError(t, err)
	assert.Equal(t, "overrides/classic-v2.png", spec.BaseImageRef)
	assert.Equal(t, 50, spec.FontSizePt)
}

func TestResolver_NotFound(t *testing.T) {
	_, err := NewResolver(newFakeStore()).Resolve(1, "does-not-exist")
	assert.ErrorIs(t, err, certerrors.ErrTemplateNotFound)
	assert.Equal(t, certerrors.KindTemplateNotFound, certerrors.KindOf(err))
}

func TestResolver_ClampsOutOfRangeValues(t *testing.T) {
	store := newFakeStore()
	store.userTemplates["wild"] = &models.CertificateTemplate{
		ID:            "wild",
		UserID:        1,
		TemplateType:  models.TemplateTypeCustom,
		CustomImagePath: "uploads/1/wild.png",
		TextXPosition: -40,
		TextYPosition: -1,
		FontSize:      9000,
	}

	spec, err := NewResolver(store).Resolve(1, "wild")
	require.NoError(t, err)
	assert.Equal(t, 0, spec.TextAnchorX)
	assert.Equal(t, 0, spec.TextAnchorY)
	assert.Equal(t, 300, spec.FontSizePt)

	tiny := &models.CertificateTemplate{
		ID: "tiny", UserID: 1, TemplateType: models.TemplateTypeCustom,
		CustomImagePath: "uploads/1/tiny.png", FontSize: 2,
	}
	store.userTemplates["tiny"] = tiny
	spec, err = NewResolver(store).Resolve(1, "tiny")
	require.NoError(t, err)
	assert.Equal(t, 8, spec.FontSizePt)
}

func TestResolver_IdempotentSpecs(t *testing.T) {
	r := NewResolver(newFakeStore())

	first, err := r.Resolve(1, "modern")
	require.NoError(t, err)
	second, err := r.Resolve(1, "modern")
	require.NoError(t, err)

	assert.Equal(t, first, second, "repeated resolution must yield identical specs")
}

func TestCatalogEntries_AllPresent(t *testing.T) {
	entries := CatalogEntries()
	assert.Len(t, entries, 8)
	for _, e := range entries {
		assert.NotEmpty(t, e.BaseImagePath)
		assert.NotZero(t, e.FontSize)
	}
}
