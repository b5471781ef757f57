package quota

import (
	"fmt"

	"github.com/certforge/certforge/internal/pkg/constants"
	"github.com/certforge/certforge/internal/pkg/env"
)

// Limit returns the free-tier certificate allowance. FREE_TIER_LIMIT in the
// environment overrides the compiled default.
func Limit() int {
	return env.GetEnvAsInt("FREE_TIER_LIMIT", constants.FreeTierLimit)
}

// CanIssue reports whether a user at the given lifetime count may issue
// requested more certificates. Premium accounts are unmetered.
func CanIssue(currentCount, requested, limit int, isPremium bool) bool {
	if isPremium {
		return true
	}
	if requested <= 0 {
		return false
	}
	return currentCount+requested <= limit
}

// Remaining reports how many certificates a free account may still issue.
// Premium accounts report -1 meaning unlimited.
func Remaining(currentCount, limit int, isPremium bool) int {
	if isPremium {
		return -1
	}
	if currentCount >= limit {
		return 0
	}
	return limit - currentCount
}

// Reserver is the repository slice the enforcer charges against.
type Reserver interface {
	ReserveCertificateQuota(userID uint, n int, limit int) error
	ReleaseCertificateQuota(userID uint, n int) error
}

// Enforcer charges and refunds certificate quota through the user store.
// The charge is a single conditional update, so two concurrent batches can
// never jointly overshoot the limit.
type Enforcer struct {
	users Reserver
	limit int
}

func NewEnforcer(users Reserver) *Enforcer {
	return &Enforcer{users: users, limit: Limit()}
}

// Reserve charges n certificates up front. On failure nothing is charged.
func (e *Enforcer) Reserve(userID uint, n int) error {
	if n <= 0 {
		return fmt.Errorf("reservation size must be positive, got %d", n)
	}
	return e.users.ReserveCertificateQuota(userID, n, e.limit)
}

// Release refunds a reservation whose batch did not complete.
func (e *Enforcer) Release(userID uint, n int) error {
	if n <= 0 {
		return nil
	}
	return e.users.ReleaseCertificateQuota(userID, n)
}
