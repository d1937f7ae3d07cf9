package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kawojue/phrednetwork/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArticle(now time.Time) *models.Article {
	return &models.Article{
		ID:             4,
		AuthorID:       9,
		Title:          "On hypertension",
		Content:        "full body text",
		CategoriesText: "Cardiology",
		ReadingTime:    "3 min read",
		Views:          120,
		PublishedAt:    now,
		Author:         models.User{ID: 9, Username: "drquam", Fullname: "Quam Adel"},
		Boosting: &models.Boosting{
			ArticleID:      4,
			BoostingPoint:  15,
			BoostedAt:      now,
			BoostingExpiry: now.AddDate(0, 0, 7),
		},
	}
}

func TestPublicArticleViewOmitsBody(t *testing.T) {
	a := sampleArticle(time.Now())

	raw, err := json.Marshal(publicArticleView(a))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.NotContains(t, got, "content")
	assert.Equal(t, "On hypertension", got["title"])

	author, ok := got["author"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "drquam", author["username"])
}

func TestAuthenticatedArticleViewCarriesBodyAndMarks(t *testing.T) {
	a := sampleArticle(time.Now())

	v := authenticatedArticleView(a, true, false)
	assert.Equal(t, "full body text", v.Content)
	assert.True(t, v.Liked)
	assert.False(t, v.Bookmarked)
}

func TestOwnerArticleViewExposesReviewAndBoostState(t *testing.T) {
	now := time.Now()
	a := sampleArticle(now)
	a.PendingApproval = true

	v := ownerArticleView(a, false, false, now)
	assert.True(t, v.PendingApproval)
	assert.True(t, v.Boosted)

	a.Boosting.BoostingExpiry = now.AddDate(0, 0, -1)
	assert.False(t, ownerArticleView(a, false, false, now).Boosted)
}
