package certgen

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certforge/certforge/app/models"
	"github.com/certforge/certforge/internal/pkg/certerrors"
	"github.com/certforge/certforge/internal/pkg/certrender"
	"github.com/certforge/certforge/internal/pkg/constants"
	"github.com/certforge/certforge/internal/pkg/templates"
)

type memCertStore struct {
	mu      sync.Mutex
	certs   map[string]*models.Certificate
	fail    bool
	lookups int
}

func newMemCertStore() *memCertStore {
	return &memCertStore{certs: make(map[string]*models.Certificate)}
}

func (m *memCertStore) Create(cert *models.Certificate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("insert failed")
	}
	cp := *cert
	m.certs[cert.ID] = &cp
	return nil
}

func (m *memCertStore) GetByID(id string) (*models.Certificate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	cert, ok := m.certs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *cert
	return &cp, nil
}

func (m *memCertStore) DeactivateByBatchID(batchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cert := range m.certs {
		if cert.BatchID == batchID {
			cert.Active = false
		}
	}
	return nil
}

func (m *memCertStore) activeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, cert := range m.certs {
		if cert.Active {
			n++
		}
	}
	return n
}

type memBatchStore struct {
	mu      sync.Mutex
	batches map[string]*models.GenerationBatch
}

func newMemBatchStore() *memBatchStore {
	return &memBatchStore{batches: make(map[string]*models.GenerationBatch)}
}

func (m *memBatchStore) Create(batch *models.GenerationBatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if batch.ID == "" {
		batch.ID = "batch-1"
	}
	cp := *batch
	m.batches[batch.ID] = &cp
	return nil
}

func (m *memBatchStore) MarkCompleted(id, archiveRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[id]
	if !ok {
		return errors.New("not found")
	}
	return b.Complete(archiveRef)
}

func (m *memBatchStore) MarkFailed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[id]
	if !ok {
		return errors.New("not found")
	}
	return b.Fail()
}

func (m *memBatchStore) get(id string) *models.GenerationBatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches[id]
}

type memQuota struct {
	mu       sync.Mutex
	count    int
	limit    int
	released int
}

func (m *memQuota) Reserve(_ uint, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count+n > m.limit {
		return certerrors.ErrQuotaExceeded
	}
	m.count += n
	return nil
}

func (m *memQuota) Release(_ uint, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count -= n
	m.released += n
	return nil
}

type fixedResolver struct {
	spec *templates.RenderSpec
	err  error
}

func (f *fixedResolver) Resolve(uint, string) (*templates.RenderSpec, error) {
	return f.spec, f.err
}

type memArchiveStore struct {
	mu    sync.Mutex
	saved map[string][]byte
	fail  bool
}

func newMemArchiveStore() *memArchiveStore {
	return &memArchiveStore{saved: make(map[string][]byte)}
}

func (m *memArchiveStore) Save(_ context.Context, name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", certerrors.New(certerrors.KindPackagingFailure, "store unavailable")
	}
	m.saved[name] = data
	return name, nil
}

func (m *memArchiveStore) Open(_ context.Context, ref string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.saved[ref]
	if !ok {
		return nil, certerrors.New(certerrors.KindRecordNotFound, "archive not found")
	}
	return data, nil
}

func (m *memArchiveStore) Delete(context.Context, string) error { return nil }

func testSpec() *templates.RenderSpec {
	return &templates.RenderSpec{
		BaseImageRef: "base",
		TextAnchorX:  constants.CertificateWidth / 2,
		TextAnchorY:  constants.CertificateHeight / 2,
		FontSizePt:   48,
		FontColorHex: "#000000",
		FontFamily:   "serif",
	}
}

func testRenderer() *certrender.Renderer {
	r := certrender.NewRenderer()
	r.OpenImage = func(string) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, constants.CertificateWidth, constants.CertificateHeight))
		for x := 0; x < constants.CertificateWidth; x++ {
			for y := 0; y < constants.CertificateHeight; y++ {
				img.Set(x, y, color.White)
			}
		}
		return img, nil
	}
	return r
}

func fakeConvert(png []byte) ([]byte, error) {
	return append([]byte("%PDF-fake\n"), png...), nil
}

type testEnv struct {
	svc     *Service
	certs   *memCertStore
	batches *memBatchStore
	quota   *memQuota
	store   *memArchiveStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		certs:   newMemCertStore(),
		batches: newMemBatchStore(),
		quota:   &memQuota{limit: 10},
		store:   newMemArchiveStore(),
	}
	env.svc = NewService(
		env.certs,
		env.batches,
		env.quota,
		&fixedResolver{spec: testSpec()},
		testRenderer(),
		fakeConvert,
		env.store,
		"https://certs.example.com",
	)
	env.svc.now = func() time.Time { return time.UnixMilli(1750000000000) }
	return env
}

func TestGenerateBatchEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.svc.Generate(context.Background(), GenerateRequest{
		UserID:           1,
		EventName:        "Graduation 2025",
		OrganizationName: "Acme Academy",
		TemplateID:       "classic",
		Participants:     []string{"Jane Doe", "Bob Smith", "Carol Jones"},
	})
	require.NoError(t, err)

	assert.Equal(t, "certificates_Graduation_2025_1750000000000.zip", res.ArchiveName)
	require.Len(t, res.CertificateIDs, 3)

	batch := env.batches.get(res.BatchID)
	require.NotNil(t, batch)
	assert.Equal(t, models.BatchStatusCompleted, batch.Status)
	assert.Equal(t, res.ArchiveRef, batch.ArchiveRef)
	assert.Equal(t, 3, batch.ParticipantCount)

	data, err := env.store.Open(context.Background(), res.ArchiveRef)
	require.NoError(t, err)
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, r.File, 3)
	assert.Equal(t, "Jane_Doe_certificate.pdf", r.File[0].Name, "archive order follows input order")
	assert.Equal(t, "Bob_Smith_certificate.pdf", r.File[1].Name)
	assert.Equal(t, "Carol_Jones_certificate.pdf", r.File[2].Name)

	assert.Equal(t, 3, env.quota.count)
	assert.Equal(t, 3, env.certs.activeCount())
}

func TestGenerateNormalizesBeforeQuota(t *testing.T) {
	env := newTestEnv(t)
	env.quota.count = 7

	// Five raw entries normalize to three, which fits the remaining quota.
	res, err := env.svc.Generate(context.Background(), GenerateRequest{
		UserID:       1,
		EventName:    "Workshop",
		TemplateID:   "classic",
		Participants: []string{"Ann", "ann ", "", "Bob", "Ann"},
	})
	require.NoError(t, err)
	assert.Len(t, res.CertificateIDs, 3, "Ann, ann and Bob are three distinct participants")
	assert.Equal(t, 10, env.quota.count, "quota charged for the normalized count")
}

func TestGenerateEmptyParticipants(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Generate(context.Background(), GenerateRequest{
		UserID:       1,
		EventName:    "Workshop",
		Participants: []string{"", "   "},
	})
	assert.ErrorIs(t, err, certerrors.ErrEmptyParticipantList)
	assert.Equal(t, 0, env.quota.count)
}

func TestGenerateQuotaExceeded(t *testing.T) {
	env := newTestEnv(t)
	env.quota.count = 8

	_, err := env.svc.Generate(context.Background(), GenerateRequest{
		UserID:       1,
		EventName:    "Workshop",
		TemplateID:   "classic",
		Participants: []string{"A", "B", "C"},
	})
	assert.ErrorIs(t, err, certerrors.ErrQuotaExceeded)
	assert.Equal(t, 8, env.quota.count, "nothing charged on rejection")
	assert.Empty(t, env.batches.batches, "no batch row for a rejected request")
}

func TestGenerateExactlyFillsQuota(t *testing.T) {
	env := newTestEnv(t)
	env.quota.count = 8

	_, err := env.svc.Generate(context.Background(), GenerateRequest{
		UserID:       1,
		EventName:    "Workshop",
		TemplateID:   "classic",
		Participants: []string{"A", "B"},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, env.quota.count)
}

func TestGenerateTemplateNotFoundRefundsQuota(t *testing.T) {
	env := newTestEnv(t)
	env.svc.resolver = &fixedResolver{err: certerrors.ErrTemplateNotFound}

	_, err := env.svc.Generate(context.Background(), GenerateRequest{
		UserID:       1,
		EventName:    "Workshop",
		TemplateID:   "missing",
		Participants: []string{"A", "B"},
	})
	assert.ErrorIs(t, err, certerrors.ErrTemplateNotFound)
	assert.Equal(t, 0, env.quota.count)
	assert.Equal(t, 2, env.quota.released)
}

func TestGenerateRenderFailureFailsWholeBatch(t *testing.T) {
	env := newTestEnv(t)
	renderer := certrender.NewRenderer()
	renderer.OpenImage = func(string) (image.Image, error) {
		return nil, errors.New("corrupt template image")
	}
	env.svc.renderer = renderer

	_, err := env.svc.Generate(context.Background(), GenerateRequest{
		UserID:       1,
		EventName:    "Workshop",
		TemplateID:   "classic",
		Participants: []string{"A", "B", "C"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, certerrors.ErrRenderFailure)

	require.Len(t, env.batches.batches, 1)
	for _, b := range env.batches.batches {
		assert.Equal(t, models.BatchStatusFailed, b.Status)
	}
	assert.Equal(t, 0, env.certs.activeCount(), "orphaned records are deactivated")
	assert.Equal(t, 0, env.quota.count, "reservation refunded")
}

func TestGenerateStoreFailureFailsBatch(t *testing.T) {
	env := newTestEnv(t)
	env.store.fail = true

	_, err := env.svc.Generate(context.Background(), GenerateRequest{
		UserID:       1,
		EventName:    "Workshop",
		TemplateID:   "classic",
		Participants: []string{"A"},
	})
	require.Error(t, err)
	assert.Equal(t, certerrors.KindPackagingFailure, certerrors.KindOf(err))
	for _, b := range env.batches.batches {
		assert.Equal(t, models.BatchStatusFailed, b.Status)
	}
	assert.Equal(t, 0, env.quota.count)
}

func TestPreviewDoesNotTouchQuotaOrRecords(t *testing.T) {
	env := newTestEnv(t)

	png, err := env.svc.Preview(1, "classic", "Sample Name", "Sample Event", "Sample Org")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	assert.Equal(t, 0, env.quota.count)
	assert.Empty(t, env.certs.certs)
}

func TestPreviewWebPProducesRIFFContainer(t *testing.T) {
	env := newTestEnv(t)

	img, err := env.svc.PreviewWebP(1, "classic", "Sample Name", "Sample Event", "Sample Org")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(img), 12)
	assert.Equal(t, "RIFF", string(img[:4]))
	assert.Equal(t, "WEBP", string(img[8:12]))
	assert.Equal(t, 0, env.quota.count)
	assert.Empty(t, env.certs.certs)
}

func TestRegenerateKeepsCertificateID(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.svc.Generate(context.Background(), GenerateRequest{
		UserID:       1,
		EventName:    "Workshop",
		TemplateID:   "classic",
		Participants: []string{"Jane Doe"},
	})
	require.NoError(t, err)
	certID := res.CertificateIDs[0]
	chargedAfterBatch := env.quota.count

	pdf, err := env.svc.Regenerate(1, certID, "classic", "Acme Academy")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, chargedAfterBatch, env.quota.count, "regeneration is free")
}

func TestRegenerateRejectsMalformedID(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Regenerate(1, "../../etc/passwd", "classic", "Acme Academy")
	assert.ErrorIs(t, err, certerrors.ErrMalformedIdentifier)
	assert.Equal(t, 0, env.certs.lookups, "malformed ids never reach the store")
}

func TestRegenerateRejectsForeignCertificate(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.svc.Generate(context.Background(), GenerateRequest{
		UserID:       1,
		EventName:    "Workshop",
		TemplateID:   "classic",
		Participants: []string{"Jane Doe"},
	})
	require.NoError(t, err)

	_, err = env.svc.Regenerate(2, res.CertificateIDs[0], "classic", "Other Org")
	assert.ErrorIs(t, err, certerrors.ErrRecordNotFound)
}
