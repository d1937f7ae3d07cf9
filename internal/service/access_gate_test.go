package service

import (
	"testing"
	"time"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"

	"github.com/stretchr/testify/assert"
)

type mapTTL struct {
	m map[string]int
}

func newMapTTL() *mapTTL { return &mapTTL{m: map[string]int{}} }

func (c *mapTTL) Get(key string) (int, bool) {
	v, ok := c.m[key]
	return v, ok
}

func (c *mapTTL) Set(key string, value int) { c.m[key] = value }

func TestGateAnonymousQuota(t *testing.T) {
	gate := NewAccessGate(newMapTTL())
	viewer := ViewerKey(0)

	assert.True(t, gate.Allow(viewer, 1, domain.QuotaAnonymous))
	assert.True(t, gate.Allow(viewer, 1, domain.QuotaAnonymous))
	assert.False(t, gate.Allow(viewer, 1, domain.QuotaAnonymous))
}

func TestGateRereadBurnsQuota(t *testing.T) {
	gate := NewAccessGate(newMapTTL())
	viewer := ViewerKey(5)

	for i := 0; i < domain.QuotaFreeUser; i++ {
		assert.True(t, gate.Allow(viewer, 1, domain.QuotaFreeUser))
	}
	assert.False(t, gate.Allow(viewer, 1, domain.QuotaFreeUser))

	// other articles carry their own counters
	assert.True(t, gate.Allow(viewer, 2, domain.QuotaFreeUser))
}

func TestGateUnlimited(t *testing.T) {
	gate := NewAccessGate(newMapTTL())
	for i := uint(1); i <= 50; i++ {
		assert.True(t, gate.Allow(ViewerKey(9), i, Unlimited))
	}
}

func TestGateBucketsAreIndependent(t *testing.T) {
	gate := NewAccessGate(newMapTTL())

	assert.True(t, gate.Allow(ViewerKey(1), 1, domain.QuotaFreeUser))
	assert.True(t, gate.Allow(ViewerKey(2), 1, domain.QuotaFreeUser))
	assert.Equal(t, "anonymous", ViewerKey(0))
	assert.NotEqual(t, ViewerKey(1), ViewerKey(2))
}

func TestQuotaFor(t *testing.T) {
	now := time.Now()
	art := &models.Article{ID: 1, AuthorID: 7}

	assert.Equal(t, domain.QuotaAnonymous, QuotaFor(nil, art, now))
	assert.Equal(t, domain.QuotaFreeUser, QuotaFor(&models.User{ID: 2, Role: domain.RoleUser}, art, now))
	assert.Equal(t, Unlimited, QuotaFor(&models.User{ID: 7, Role: domain.RoleUser}, art, now))
	assert.Equal(t, Unlimited, QuotaFor(&models.User{ID: 2, Role: domain.RoleAdmin}, art, now))
	assert.Equal(t, Unlimited, QuotaFor(&models.User{ID: 2, Role: domain.RoleAuditor}, art, now))

	member := &models.User{ID: 2, Role: domain.RoleUser, Membership: &models.Membership{Tier: domain.TierMonthly, MemberedAt: now.AddDate(0, 0, -5)}}
	assert.Equal(t, Unlimited, QuotaFor(member, art, now))

	lapsed := &models.User{ID: 2, Role: domain.RoleUser, Membership: &models.Membership{Tier: domain.TierMonthly, MemberedAt: now.AddDate(0, -2, 0)}}
	assert.Equal(t, domain.QuotaFreeUser, QuotaFor(lapsed, art, now))
}
