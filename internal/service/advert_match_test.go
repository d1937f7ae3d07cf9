package service

import (
	"strings"
	"testing"
	"time"

	"github.com/kawojue/phrednetwork/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdvertSource struct {
	keywordHit *models.Advert
	posterHit  *models.Advert
	randomHit  *models.Advert
	engaged    []uint
	lastTerms  []string
}

func (f *fakeAdvertSource) MatchKeywords(terms []string, now time.Time) (*models.Advert, error) {
	f.lastTerms = terms
	return f.keywordHit, nil
}

func (f *fakeAdvertSource) EligibleByPoster(posterID uint, now time.Time) (*models.Advert, error) {
	return f.posterHit, nil
}

func (f *fakeAdvertSource) RandomEligible(now time.Time) (*models.Advert, error) {
	return f.randomHit, nil
}

func (f *fakeAdvertSource) IncrementEngagement(id uint) error {
	f.engaged = append(f.engaged, id)
	return nil
}

func TestAttachPrefersKeywordMatch(t *testing.T) {
	src := &fakeAdvertSource{
		keywordHit: &models.Advert{ID: 1},
		posterHit:  &models.Advert{ID: 2},
		randomHit:  &models.Advert{ID: 3},
	}
	m := NewAdvertMatcher(src)

	ad, err := m.Attach(&models.Article{Title: "Cardiology update", AuthorID: 7})
	require.NoError(t, err)
	assert.Equal(t, uint(1), ad.ID)
	assert.Equal(t, []uint{1}, src.engaged)
}

func TestAttachFallsBackToAuthorAdvert(t *testing.T) {
	src := &fakeAdvertSource{posterHit: &models.Advert{ID: 2}, randomHit: &models.Advert{ID: 3}}
	m := NewAdvertMatcher(src)

	ad, err := m.Attach(&models.Article{Title: "Weekly notes", AuthorID: 7})
	require.NoError(t, err)
	assert.Equal(t, uint(2), ad.ID)
}

func TestAttachFallsBackToRandom(t *testing.T) {
	src := &fakeAdvertSource{randomHit: &models.Advert{ID: 3}}
	m := NewAdvertMatcher(src)

	ad, err := m.Attach(&models.Article{Title: "Weekly notes", AuthorID: 7})
	require.NoError(t, err)
	assert.Equal(t, uint(3), ad.ID)
}

func TestAttachNothingLive(t *testing.T) {
	src := &fakeAdvertSource{}
	m := NewAdvertMatcher(src)

	ad, err := m.Attach(&models.Article{Title: "Weekly notes", AuthorID: 7})
	require.NoError(t, err)
	assert.Nil(t, ad)
	assert.Empty(t, src.engaged)
}

func TestAttachCountsEngagementOnce(t *testing.T) {
	src := &fakeAdvertSource{keywordHit: &models.Advert{ID: 1, Engagement: 4}}
	m := NewAdvertMatcher(src)

	ad, err := m.Attach(&models.Article{Title: "Cardiology update", AuthorID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(5), ad.Engagement)
	assert.Equal(t, []uint{1}, src.engaged)
}

func TestMatchTermsDropShortWords(t *testing.T) {
	src := &fakeAdvertSource{}
	m := NewAdvertMatcher(src)

	_, err := m.Attach(&models.Article{
		Title:          "A new era of renal care",
		CategoriesText: "Nephrology, Research",
	})
	require.NoError(t, err)
	for _, term := range src.lastTerms {
		if !strings.Contains(term, " ") {
			assert.GreaterOrEqual(t, len(term), 4)
		}
	}
	assert.Contains(t, src.lastTerms, "renal")
	assert.Contains(t, src.lastTerms, "nephrology")
	assert.NotContains(t, src.lastTerms, "a")
	assert.NotContains(t, src.lastTerms, "of")
}
