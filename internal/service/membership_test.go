package service

import (
	"testing"
	"time"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMembershipStore struct {
	byUser map[uint]*models.Membership
}

func (f *fakeMembershipStore) GetMembership(userID uint) (*models.Membership, error) {
	m, ok := f.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (f *fakeMembershipStore) SaveMembership(m *models.Membership) error {
	f.byUser[m.UserID] = m
	return nil
}

func (f *fakeMembershipStore) DeleteMembership(userID uint) error {
	delete(f.byUser, userID)
	return nil
}

func TestMembershipPurchaseChargesTierPrice(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 5000}
	store := &fakeMembershipStore{byUser: map[uint]*models.Membership{}}
	svc := NewMembershipService(store, newLedger(wallets, nil, nil), nil)

	m, err := svc.Purchase(1, domain.TierQuarterly)
	require.NoError(t, err)
	assert.Equal(t, domain.TierQuarterly, m.Tier)
	assert.Equal(t, 3200.0, m.AmountPaid)
	assert.Equal(t, 1800.0, wallets.wallets[1].Balance)
	assert.NotNil(t, store.byUser[1])
}

func TestMembershipPurchaseUnknownTier(t *testing.T) {
	svc := NewMembershipService(&fakeMembershipStore{byUser: map[uint]*models.Membership{}}, newLedger(newFakeWalletStore(), nil, nil), nil)
	_, err := svc.Purchase(1, domain.MembershipTier("Weekly"))
	assert.ErrorIs(t, err, ErrUnknownTier)
}

func TestMembershipPurchaseShortBalance(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 100}
	store := &fakeMembershipStore{byUser: map[uint]*models.Membership{}}
	svc := NewMembershipService(store, newLedger(wallets, nil, nil), nil)

	_, err := svc.Purchase(1, domain.TierMonthly)
	assert.Error(t, err)
	assert.Empty(t, store.byUser)
}

func TestMembershipPurchaseWhileActiveRejected(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 10000}
	store := &fakeMembershipStore{byUser: map[uint]*models.Membership{
		1: {UserID: 1, Tier: domain.TierMonthly, MemberedAt: time.Now().AddDate(0, 0, -10)},
	}}
	svc := NewMembershipService(store, newLedger(wallets, nil, nil), nil)

	_, err := svc.Purchase(1, domain.TierYearly)
	assert.ErrorIs(t, err, ErrMembershipActive)
	assert.Equal(t, 10000.0, wallets.wallets[1].Balance)
	assert.Equal(t, domain.TierMonthly, store.byUser[1].Tier)
}

func TestMembershipPurchaseAfterLapseRestarts(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 5000}
	store := &fakeMembershipStore{byUser: map[uint]*models.Membership{
		1: {UserID: 1, Tier: domain.TierMonthly, MemberedAt: time.Now().AddDate(0, -2, 0)},
	}}
	svc := NewMembershipService(store, newLedger(wallets, nil, nil), nil)

	m, err := svc.Purchase(1, domain.TierMonthly)
	require.NoError(t, err)
	assert.True(t, MembershipActive(m, time.Now()))
	assert.Equal(t, 3800.0, wallets.wallets[1].Balance)
}

func TestMembershipActiveWindow(t *testing.T) {
	now := time.Now()

	assert.False(t, MembershipActive(nil, now))

	monthly := &models.Membership{Tier: domain.TierMonthly, MemberedAt: now.AddDate(0, 0, -15)}
	assert.True(t, MembershipActive(monthly, now))

	lapsed := &models.Membership{Tier: domain.TierMonthly, MemberedAt: now.AddDate(0, -1, -1)}
	assert.False(t, MembershipActive(lapsed, now))

	yearly := &models.Membership{Tier: domain.TierYearly, MemberedAt: now.AddDate(0, -11, 0)}
	assert.True(t, MembershipActive(yearly, now))

	unknown := &models.Membership{Tier: domain.MembershipTier("Weekly"), MemberedAt: now}
	assert.False(t, MembershipActive(unknown, now))
}
