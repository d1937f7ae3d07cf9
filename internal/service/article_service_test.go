package service

import (
	"testing"
	"time"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewPayout struct {
	authorID uint
	amount   float64
	ref      string
}

// fakeViewStore mirrors the repository contract: the increment and any
// milestone payout land together or not at all.
type fakeViewStore struct {
	views          map[uint]int64
	payouts        []viewPayout
	publishedToday int64
}

func newFakeViewStore() *fakeViewStore { return &fakeViewStore{views: map[uint]int64{}} }

func (f *fakeViewStore) RecordView(articleID, authorID uint, milestone int64, payout float64, ref string) (int64, bool, error) {
	f.views[articleID]++
	v := f.views[articleID]
	if milestone > 0 && v%milestone == 0 {
		f.payouts = append(f.payouts, viewPayout{authorID: authorID, amount: payout, ref: ref})
		return v, true, nil
	}
	return v, false, nil
}

func (f *fakeViewStore) CountPublishedToday(authorID uint, now time.Time) (int64, error) {
	return f.publishedToday, nil
}

func viewFixture(startViews int64) (*ArticleService, *fakeViewStore) {
	store := newFakeViewStore()
	store.views[1] = startViews
	return NewArticleService(store, nil), store
}

func TestRecordViewCountsSignedInReader(t *testing.T) {
	svc, store := viewFixture(0)
	art := &models.Article{ID: 1, AuthorID: 7}

	require.NoError(t, svc.RecordView(art, &models.User{ID: 2, Role: domain.RoleUser}))
	assert.Equal(t, int64(1), store.views[1])
}

func TestRecordViewSkipsAnonymousAuthorAndModerators(t *testing.T) {
	svc, store := viewFixture(0)
	art := &models.Article{ID: 1, AuthorID: 7}

	require.NoError(t, svc.RecordView(art, nil))
	require.NoError(t, svc.RecordView(art, &models.User{ID: 7, Role: domain.RoleUser}))
	require.NoError(t, svc.RecordView(art, &models.User{ID: 3, Role: domain.RoleAdmin}))
	require.NoError(t, svc.RecordView(art, &models.User{ID: 4, Role: domain.RoleAuditor}))
	assert.Equal(t, int64(0), store.views[1])
}

func TestRecordViewPaysAuthorAtMilestone(t *testing.T) {
	svc, store := viewFixture(99)
	art := &models.Article{ID: 1, AuthorID: 7, Title: "Renal care"}

	// the 100th view pays, in the same store call as the increment
	require.NoError(t, svc.RecordView(art, &models.User{ID: 2, Role: domain.RoleUser}))
	require.Len(t, store.payouts, 1)
	assert.Equal(t, uint(7), store.payouts[0].authorID)
	assert.Equal(t, float64(domain.MilestonePayout), store.payouts[0].amount)
	assert.Contains(t, store.payouts[0].ref, "milestone-7-")

	// the 101st does not
	require.NoError(t, svc.RecordView(art, &models.User{ID: 2, Role: domain.RoleUser}))
	assert.Len(t, store.payouts, 1)
}

func TestCheckPublishLimit(t *testing.T) {
	svc, store := viewFixture(0)
	author := &models.User{ID: 7, Role: domain.RoleUser}

	store.publishedToday = domain.FreeArticlesPerDay - 1
	assert.NoError(t, svc.CheckPublishLimit(author))

	store.publishedToday = domain.FreeArticlesPerDay
	assert.ErrorIs(t, svc.CheckPublishLimit(author), ErrDailyLimitReached)
}

func TestCheckPublishLimitLiftedForMembersAndModerators(t *testing.T) {
	svc, store := viewFixture(0)
	store.publishedToday = 50

	admin := &models.User{ID: 1, Role: domain.RoleAdmin}
	assert.NoError(t, svc.CheckPublishLimit(admin))

	member := &models.User{ID: 2, Role: domain.RoleUser, Membership: &models.Membership{
		Tier: domain.TierYearly, MemberedAt: time.Now().AddDate(0, -1, 0),
	}}
	assert.NoError(t, svc.CheckPublishLimit(member))
}
