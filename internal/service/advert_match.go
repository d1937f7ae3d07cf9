package service

import (
	"strings"
	"time"

	"github.com/kawojue/phrednetwork/internal/models"
)

// AdvertSource is the slice of the advert repository the matcher uses.
type AdvertSource interface {
	MatchKeywords(terms []string, now time.Time) (*models.Advert, error)
	EligibleByPoster(posterID uint, now time.Time) (*models.Advert, error)
	RandomEligible(now time.Time) (*models.Advert, error)
	IncrementEngagement(id uint) error
}

// AdvertMatcher picks the advert shown beside an article read. The
// chain is keyword overlap, then the author's own adverts, then any
// live advert, then nothing.
type AdvertMatcher struct {
	adverts AdvertSource
	now     func() time.Time
}

func NewAdvertMatcher(adverts AdvertSource) *AdvertMatcher {
	return &AdvertMatcher{adverts: adverts, now: time.Now}
}

// Attach returns the advert for an article read, counting an engagement
// on the chosen advert. Returns nil when no advert is live.
func (m *AdvertMatcher) Attach(article *models.Article) (*models.Advert, error) {
	now := m.now()

	ad, err := m.adverts.MatchKeywords(matchTerms(article), now)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		ad, err = m.adverts.EligibleByPoster(article.AuthorID, now)
		if err != nil {
			return nil, err
		}
	}
	if ad == nil {
		ad, err = m.adverts.RandomEligible(now)
		if err != nil {
			return nil, err
		}
	}
	if ad == nil {
		return nil, nil
	}
	if err := m.adverts.IncrementEngagement(ad.ID); err != nil {
		return nil, err
	}
	ad.Engagement++
	return ad, nil
}

// matchTerms builds the lookup terms from the article's title words and
// categories, lowercased, short words dropped.
func matchTerms(article *models.Article) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(article.Title)) {
		if len(w) >= 4 {
			terms = append(terms, w)
		}
	}
	for _, c := range strings.Split(article.CategoriesText, ",") {
		c = strings.TrimSpace(strings.ToLower(c))
		if c != "" {
			terms = append(terms, c)
		}
	}
	return terms
}
