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

type fakeArticleSource struct {
	boosted       []models.Article
	random        []models.Article
	randomIdx     int
	backlog       []models.Article
	byAuthor      []models.Article
	boostedOffset int
}

func (f *fakeArticleSource) ListBoosted(limit, offset int) ([]models.Article, error) {
	f.boostedOffset = offset
	if offset >= len(f.boosted) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.boosted) {
		end = len(f.boosted)
	}
	return f.boosted[offset:end], nil
}

func (f *fakeArticleSource) Random() (*models.Article, error) {
	if len(f.random) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	a := f.random[f.randomIdx%len(f.random)]
	f.randomIdx++
	return &a, nil
}

func (f *fakeArticleSource) ListNonBoosted(limit, offset int) ([]models.Article, error) {
	return f.backlog, nil
}

func (f *fakeArticleSource) ListByAuthors(authorIDs []uint, limit, offset int) ([]models.Article, error) {
	return f.byAuthor, nil
}

type fakeFollows struct {
	ids []uint
}

func (f *fakeFollows) FollowingIDs(userID uint) ([]uint, error) { return f.ids, nil }

func article(id uint, title string) models.Article {
	return models.Article{
		ID:       id,
		Title:    title,
		Content:  "body of " + title,
		AuthorID: 7,
		Author:   models.User{ID: 7, Username: "ada", Fullname: "ada o"},
	}
}

func TestComposeDedupKeepsFirstAppearance(t *testing.T) {
	boostedArticle := article(1, "boosted")
	boostedArticle.Boosting = &models.Boosting{ArticleID: 1, BoostingPoint: 15, BoostingExpiry: time.Now().Add(time.Hour)}
	src := &fakeArticleSource{
		boosted: []models.Article{boostedArticle},
		random:  []models.Article{article(1, "boosted"), article(2, "random")},
		backlog: []models.Article{article(2, "random"), article(3, "recent")},
	}
	composer := NewFeedComposer(src, &fakeFollows{})

	items, err := composer.Compose(domain.TabForYou, 0, 4, 0)
	require.NoError(t, err)

	ids := make([]uint, 0, len(items))
	seen := map[uint]int{}
	for _, it := range items {
		ids = append(ids, it.ID)
		seen[it.ID]++
	}
	// the boosted copy wins over later duplicates
	assert.Equal(t, uint(1), ids[0])
	assert.True(t, items[0].Boosted)
	for id, n := range seen {
		assert.Equalf(t, 1, n, "article %d appeared %d times", id, n)
	}
}

func TestComposeBoostedOrderSurvivesComposition(t *testing.T) {
	strong := article(1, "strong")
	strong.Boosting = &models.Boosting{BoostingPoint: 30, BoostingExpiry: time.Now().Add(time.Hour)}
	weak := article(2, "weak")
	weak.Boosting = &models.Boosting{BoostingPoint: 15, BoostingExpiry: time.Now().Add(time.Hour)}
	src := &fakeArticleSource{boosted: []models.Article{strong, weak}}
	composer := NewFeedComposer(src, &fakeFollows{})

	items, err := composer.Compose(domain.TabForYou, 0, 5, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(items), 2)
	assert.Equal(t, uint(1), items[0].ID)
	assert.Equal(t, uint(2), items[1].ID)
}

func TestComposePagesBoostedPool(t *testing.T) {
	strong := article(1, "strong")
	strong.Boosting = &models.Boosting{BoostingPoint: 30, BoostingExpiry: time.Now().Add(time.Hour)}
	weak := article(2, "weak")
	weak.Boosting = &models.Boosting{BoostingPoint: 15, BoostingExpiry: time.Now().Add(time.Hour)}
	src := &fakeArticleSource{boosted: []models.Article{strong, weak}}
	composer := NewFeedComposer(src, &fakeFollows{})

	items, err := composer.Compose(domain.TabForYou, 0, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, src.boostedOffset)
	require.Len(t, items, 1)
	// the second page starts past the strongest boost
	assert.Equal(t, uint(2), items[0].ID)
}

func TestComposeFollowingAppendsFollowedAuthors(t *testing.T) {
	src := &fakeArticleSource{
		backlog:  []models.Article{article(3, "recent")},
		byAuthor: []models.Article{article(3, "recent"), article(4, "followed")},
	}
	composer := NewFeedComposer(src, &fakeFollows{ids: []uint{7}})

	items, err := composer.Compose(domain.TabFollowing, 9, 5, 0)
	require.NoError(t, err)

	// the following block is appended whole, even when an article
	// already appeared above it
	var last2 []uint
	for _, it := range items[len(items)-2:] {
		last2 = append(last2, it.ID)
	}
	assert.Equal(t, []uint{3, 4}, last2)
}

func TestComposeTruncatesPreview(t *testing.T) {
	long := article(1, "long")
	long.Content = ""
	for i := 0; i < 40; i++ {
		long.Content += "lorem "
	}
	src := &fakeArticleSource{backlog: []models.Article{long}}
	composer := NewFeedComposer(src, &fakeFollows{})

	items, err := composer.Compose(domain.TabForYou, 0, 5, 0)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.LessOrEqual(t, len([]rune(items[0].Preview)), previewLength+3)
	assert.Contains(t, items[0].Preview, "...")
}

func TestComposeEmptyPoolsYieldEmptyFeed(t *testing.T) {
	composer := NewFeedComposer(&fakeArticleSource{}, &fakeFollows{})
	items, err := composer.Compose(domain.TabForYou, 0, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDiscoverDedupsRepeatedDraws(t *testing.T) {
	src := &fakeArticleSource{
		random: []models.Article{article(1, "a"), article(2, "b"), article(3, "c")},
	}
	composer := NewFeedComposer(src, &fakeFollows{})

	items, err := composer.Discover()
	require.NoError(t, err)
	// draws cycle over three articles; the page holds each once
	require.Len(t, items, 3)
	seen := map[uint]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID])
		seen[it.ID] = true
	}
}

func TestDiscoverEmptyCorpus(t *testing.T) {
	composer := NewFeedComposer(&fakeArticleSource{}, &fakeFollows{})
	items, err := composer.Discover()
	require.NoError(t, err)
	assert.Empty(t, items)
}
