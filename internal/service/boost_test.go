package service

import (
	"testing"
	"time"

	"github.com/kawojue/phrednetwork/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBoostStore struct {
	byArticle map[uint]*models.Boosting
}

func newFakeBoostStore() *fakeBoostStore {
	return &fakeBoostStore{byArticle: map[uint]*models.Boosting{}}
}

func (f *fakeBoostStore) GetByArticleID(articleID uint) (*models.Boosting, error) {
	b, ok := f.byArticle[articleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBoostStore) Save(b *models.Boosting) error {
	f.byArticle[b.ArticleID] = b
	return nil
}

type fakeArticleGetter struct {
	articles map[uint]*models.Article
}

func (f *fakeArticleGetter) GetByID(id uint) (*models.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func boostFixture(balance float64) (*BoostService, *fakeBoostStore, *fakeWalletStore) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: balance}
	ledger := newLedger(wallets, nil, nil)
	boosts := newFakeBoostStore()
	articles := &fakeArticleGetter{articles: map[uint]*models.Article{
		10: {ID: 10, AuthorID: 1, PendingApproval: false},
		11: {ID: 11, AuthorID: 2, PendingApproval: false},
		12: {ID: 12, AuthorID: 1, PendingApproval: true},
	}}
	return NewBoostService(boosts, articles, ledger), boosts, wallets
}

func TestPurchaseCreatesBoost(t *testing.T) {
	svc, boosts, wallets := boostFixture(1000)

	b, err := svc.Purchase(1, 10, 7)
	require.NoError(t, err)
	assert.Equal(t, 15, b.BoostingPoint)
	assert.Equal(t, 500.0, b.AmountPaid)
	assert.Equal(t, 500.0, wallets.wallets[1].Balance)
	assert.NotNil(t, boosts.byArticle[10])
}

func TestPurchaseWhileActiveStacksPointsAndReplacesExpiry(t *testing.T) {
	svc, boosts, _ := boostFixture(5000)
	now := time.Now()
	svc.now = func() time.Time { return now }

	_, err := svc.Purchase(1, 10, 7)
	require.NoError(t, err)

	later := now.Add(48 * time.Hour)
	svc.now = func() time.Time { return later }
	b, err := svc.Purchase(1, 10, 14)
	require.NoError(t, err)

	assert.Equal(t, 30, b.BoostingPoint)
	assert.Equal(t, later, b.BoostedAt)
	assert.Equal(t, 1000.0, b.AmountPaid)
	assert.Equal(t, later.AddDate(0, 0, 14), b.BoostingExpiry)
	assert.Equal(t, 30, boosts.byArticle[10].BoostingPoint)
}

func TestPurchaseAfterExpiryResets(t *testing.T) {
	svc, _, _ := boostFixture(5000)
	now := time.Now()
	svc.now = func() time.Time { return now }

	_, err := svc.Purchase(1, 10, 7)
	require.NoError(t, err)

	afterExpiry := now.AddDate(0, 0, 8)
	svc.now = func() time.Time { return afterExpiry }
	b, err := svc.Purchase(1, 10, 7)
	require.NoError(t, err)

	assert.Equal(t, 15, b.BoostingPoint)
	assert.Equal(t, afterExpiry, b.BoostedAt)
}

func TestPurchaseRejectsNonAuthor(t *testing.T) {
	svc, _, _ := boostFixture(5000)
	_, err := svc.Purchase(1, 11, 7)
	assert.ErrorIs(t, err, ErrNotArticleAuthor)
}

func TestPurchaseRejectsPendingArticle(t *testing.T) {
	svc, _, _ := boostFixture(5000)
	_, err := svc.Purchase(1, 12, 7)
	assert.ErrorIs(t, err, ErrArticlePending)
}

func TestPurchaseRejectsZeroDays(t *testing.T) {
	svc, _, _ := boostFixture(5000)
	_, err := svc.Purchase(1, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidBoostDays)
}

func TestPurchaseShortBalanceLeavesNoBoost(t *testing.T) {
	svc, boosts, _ := boostFixture(100)
	_, err := svc.Purchase(1, 10, 7)
	assert.Error(t, err)
	assert.Empty(t, boosts.byArticle)
}

func TestAutoApplyGrantsFlatBoostWithoutCharge(t *testing.T) {
	svc, _, wallets := boostFixture(1000)

	b, err := svc.AutoApply(10)
	require.NoError(t, err)
	assert.Equal(t, 10, b.BoostingPoint)
	assert.Equal(t, 0.0, b.AmountPaid)
	assert.Equal(t, 1000.0, wallets.wallets[1].Balance)

	expectedExpiry := b.BoostedAt.AddDate(0, 0, 7)
	assert.Equal(t, expectedExpiry, b.BoostingExpiry)
}
