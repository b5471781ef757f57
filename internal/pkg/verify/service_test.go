package verify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/certforge/certforge/app/models"
)

type fakeCertStore struct {
	certs map[string]*models.Certificate
	err   error
}

func (f *fakeCertStore) GetByID(id string) (*models.Certificate, error) {
	if f.err != nil {
		return nil, f.err
	}
	cert, ok := f.certs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cert, nil
}

type fakeAudit struct {
	entries []*models.VerificationLog
	err     error
}

func (f *fakeAudit) Create(entry *models.VerificationLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

type fakeLimiter struct{ allowed bool }

func (f *fakeLimiter) Allow(string) bool { return f.allowed }

const testID = "8a6e0804-2bd0-4672-b79d-d97027f9071a"

func activeCert() *models.Certificate {
	return &models.Certificate{
		ID:              testID,
		ParticipantName: "Jane Doe",
		EventName:       "Graduation 2025",
		Active:          true,
		IssuedAt:        time.Date(2025, time.June, 14, 10, 0, 0, 0, time.UTC),
		User:            models.User{OrganizationName: "Acme Academy"},
	}
}

func TestVerifyValidCertificate(t *testing.T) {
	audit := &fakeAudit{}
	svc := NewService(&fakeCertStore{certs: map[string]*models.Certificate{testID: activeCert()}}, audit, nil)

	out, err := svc.Verify(testID, "203.0.113.7", "curl/8.0")
	require.NoError(t, err)

	assert.True(t, out.Valid)
	assert.Equal(t, "Certificate is valid and authentic.", out.Message)
	require.NotNil(t, out.Record)
	assert.Equal(t, "Jane Doe", out.Record.ParticipantName)
	assert.Equal(t, "Graduation 2025", out.Record.EventName)
	assert.Equal(t, "Acme Academy", out.Record.OrganizationName)
	assert.Equal(t, "June 14, 2025", out.Record.IssuedDate)
	assert.Equal(t, testID, out.Record.CertificateID)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.VerifyOutcomeValid, audit.entries[0].Outcome)
}

func TestVerifyRevokedCertificate(t *testing.T) {
	cert := activeCert()
	cert.Revoke()
	audit := &fakeAudit{}
	svc := NewService(&fakeCertStore{certs: map[string]*models.Certificate{testID: cert}}, audit, nil)

	out, err := svc.Verify(testID, "", "")
	require.NoError(t, err)

	assert.False(t, out.Valid)
	assert.Equal(t, "This certificate has been revoked and is no longer valid.", out.Message)
	assert.Nil(t, out.Record, "revoked certificates expose no details")
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.VerifyOutcomeRevoked, audit.entries[0].Outcome)
}

func TestVerifyUnknownCertificate(t *testing.T) {
	audit := &fakeAudit{}
	svc := NewService(&fakeCertStore{certs: map[string]*models.Certificate{}}, audit, nil)

	out, err := svc.Verify(testID, "", "")
	require.NoError(t, err)

	assert.False(t, out.Valid)
	assert.Equal(t, "Certificate not found. This certificate may not exist or may have been revoked.", out.Message)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.VerifyOutcomeNotFound, audit.entries[0].Outcome)
}

func TestVerifyMalformedIDSkipsStore(t *testing.T) {
	store := &fakeCertStore{err: errors.New("store must not be reached")}
	audit := &fakeAudit{}
	svc := NewService(store, audit, nil)

	out, err := svc.Verify("../../etc/passwd", "", "")
	require.NoError(t, err)

	assert.False(t, out.Valid)
	assert.Equal(t, "Invalid certificate ID format", out.Message)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.VerifyOutcomeMalformed, audit.entries[0].Outcome)
}

func TestVerifyStoreErrorPropagates(t *testing.T) {
	svc := NewService(&fakeCertStore{err: errors.New("connection refused")}, &fakeAudit{}, nil)

	_, err := svc.Verify(testID, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "looking up certificate")
}

func TestVerifyRateLimited(t *testing.T) {
	svc := NewService(&fakeCertStore{certs: map[string]*models.Certificate{testID: activeCert()}}, nil, &fakeLimiter{allowed: false})

	_, err := svc.Verify(testID, "203.0.113.7", "")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestVerifyAuditFailureDoesNotBlock(t *testing.T) {
	svc := NewService(&fakeCertStore{certs: map[string]*models.Certificate{testID: activeCert()}},
		&fakeAudit{err: errors.New("audit table locked")}, nil)

	out, err := svc.Verify(testID, "", "")
	require.NoError(t, err)
	assert.True(t, out.Valid)
}

func TestVerifyCountsScansForResolvedCertificates(t *testing.T) {
	revoked := activeCert()
	revoked.Active = false

	store := &fakeCertStore{certs: map[string]*models.Certificate{testID: revoked}}
	svc := NewService(store, &fakeAudit{}, &fakeLimiter{allowed: true})

	var counted []string
	svc.CountScan = func(id string) error {
		counted = append(counted, id)
		return nil
	}

	_, err := svc.Verify(testID, "203.0.113.7", "curl/8")
	require.NoError(t, err)
	assert.Equal(t, []string{testID}, counted)

	// Unresolvable ids never count a scan.
	_, err = svc.Verify("not-a-uuid", "203.0.113.7", "curl/8")
	require.NoError(t, err)
	assert.Len(t, counted, 1)
}
