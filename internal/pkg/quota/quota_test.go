package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certforge/certforge/internal/pkg/certerrors"
)

func TestCanIssue(t *testing.T) {
	assert.True(t, CanIssue(0, 10, 10, false), "full limit in one batch")
	assert.True(t, CanIssue(8, 2, 10, false), "exactly reaching the limit")
	assert.False(t, CanIssue(8, 3, 10, false), "one over the limit")
	assert.False(t, CanIssue(10, 1, 10, false), "already exhausted")
	assert.False(t, CanIssue(0, 0, 10, false), "zero-size request")

	assert.True(t, CanIssue(10_000, 500, 10, true), "premium is unmetered")
}

func TestLimitReadsEnvironmentOverride(t *testing.T) {
	assert.Equal(t, 10, Limit(), "compiled default")

	t.Setenv("FREE_TIER_LIMIT", "25")
	assert.Equal(t, 25, Limit())
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 10, Remaining(0, 10, false))
	assert.Equal(t, 2, Remaining(8, 10, false))
	assert.Equal(t, 0, Remaining(10, 10, false))
	assert.Equal(t, 0, Remaining(12, 10, false), "never negative")
	assert.Equal(t, -1, Remaining(3, 10, true))
}

type fakeReserver struct {
	count    int
	premium  bool
	reserves int
	releases int
}

func (f *fakeReserver) ReserveCertificateQuota(_ uint, n int, limit int) error {
	if !CanIssue(f.count, n, limit, f.premium) {
		return certerrors.ErrQuotaExceeded
	}
	f.count += n
	f.reserves++
	return nil
}

func (f *fakeReserver) ReleaseCertificateQuota(_ uint, n int) error {
	f.count -= n
	if f.count < 0 {
		f.count = 0
	}
	f.releases++
	return nil
}

func TestEnforcerReserveAndRelease(t *testing.T) {
	store := &fakeReserver{count: 8}
	e := &Enforcer{users: store, limit: 10}

	require.NoError(t, e.Reserve(1, 2))
	assert.Equal(t, 10, store.count)

	err := e.Reserve(1, 1)
	assert.ErrorIs(t, err, certerrors.ErrQuotaExceeded)
	assert.Equal(t, 10, store.count, "failed reservation charges nothing")

	require.NoError(t, e.Release(1, 2))
	assert.Equal(t, 8, store.count)
}

func TestEnforcerRejectsOverLimitBatch(t *testing.T) {
	store := &fakeReserver{count: 8}
	e := &Enforcer{users: store, limit: 10}

	err := e.Reserve(1, 3)
	assert.ErrorIs(t, err, certerrors.ErrQuotaExceeded)
	assert.Equal(t, 8, store.count)
}

func TestEnforcerRejectsNonPositiveReservation(t *testing.T) {
	e := &Enforcer{users: &fakeReserver{}, limit: 10}
	assert.Error(t, e.Reserve(1, 0))
	assert.Error(t, e.Reserve(1, -4))
	assert.NoError(t, e.Release(1, 0), "releasing nothing is a no-op")
}
