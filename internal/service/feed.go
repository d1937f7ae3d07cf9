package service

import (
	"errors"
	"time"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/pkg/format"

	"gorm.io/gorm"
)

// ArticleSource is the slice of the article repository the composer
// reads from.
type ArticleSource interface {
	ListBoosted(limit, offset int) ([]models.Article, error)
	Random() (*models.Article, error)
	ListNonBoosted(limit, offset int) ([]models.Article, error)
	ListByAuthors(authorIDs []uint, limit, offset int) ([]models.Article, error)
}

// FollowSource resolves who a user follows.
type FollowSource interface {
	FollowingIDs(userID uint) ([]uint, error)
}

const previewLength = 75

// FeedItem is an article summary as rendered in the newsfeed.
type FeedItem struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Preview      string    `json:"preview"`
	CoverPhoto   string    `json:"cover_photo,omitempty"`
	ReadingTime  string    `json:"reading_time"`
	Views        string    `json:"views"`
	Boosted      bool      `json:"boosted"`
	PublishedAt  time.Time `json:"published_at"`
	AuthorID     uint      `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorHandle string    `json:"author_handle"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
}

// FeedComposer assembles the newsfeed from three pools: live boosts in
// point order, random picks, and the non-boosted backlog by recency.
type FeedComposer struct {
	articles ArticleSource
	follows  FollowSource
	now      func() time.Time
}

func NewFeedComposer(articles ArticleSource, follows FollowSource) *FeedComposer {
	return &FeedComposer{articles: articles, follows: follows, now: time.Now}
}

// Compose builds one page of the feed. The for-you tab is boosted picks
// first, then random discovery draws, then the recency backlog, with
// duplicates collapsed to their first appearance. The following tab is
// the same page with the followed authors' latest work appended.
func (f *FeedComposer) Compose(tab string, userID uint, limit, offset int) ([]FeedItem, error) {
	if limit <= 0 {
		limit = 20
	}

	boosted, err := f.articles.ListBoosted(limit, offset)
	if err != nil {
		return nil, err
	}

	random := make([]models.Article, 0, limit)
	for i := 0; i < limit; i++ {
		a, err := f.articles.Random()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		random = append(random, *a)
	}

	backlog, err := f.articles.ListNonBoosted(limit, offset)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	items := make([]FeedItem, 0, len(boosted)+len(random)+len(backlog))
	for _, pool := range [][]models.Article{boosted, random, backlog} {
		for i := range pool {
			a := &pool[i]
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			items = append(items, f.item(a))
		}
	}

	if tab == domain.TabFollowing && userID != 0 {
		ids, err := f.follows.FollowingIDs(userID)
		if err != nil {
			return nil, err
		}
		followed, err := f.articles.ListByAuthors(ids, limit, offset)
		if err != nil {
			return nil, err
		}
		for i := range followed {
			items = append(items, f.item(&followed[i]))
		}
	}
	return items, nil
}

// discoverCount is how many unique random articles the discovery page shows.
const discoverCount = 7

// Discover returns up to discoverCount unique random approved articles.
// Draws are with replacement, so duplicates are skipped and the page may
// run short when the corpus is small.
func (f *FeedComposer) Discover() ([]FeedItem, error) {
	seen := make(map[uint]bool)
	items := make([]FeedItem, 0, discoverCount)
	attempts := discoverCount * 4
	for i := 0; i < attempts && len(items) < discoverCount; i++ {
		a, err := f.articles.Random()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		items = append(items, f.item(a))
	}
	return items, nil
}

func (f *FeedComposer) item(a *models.Article) FeedItem {
	return FeedItem{
		ID:           a.ID,
		Title:        a.Title,
		Preview:      format.Truncate(a.Content, previewLength),
		CoverPhoto:   a.CoverPhotoURL,
		ReadingTime:  a.ReadingTime,
		Views:        format.FormatNumber(a.Views),
		Boosted:      a.Boosting != nil && a.Boosting.Active(f.now()),
		PublishedAt:  a.PublishedAt,
		AuthorID:     a.AuthorID,
		AuthorName:   format.TitleName(a.Author.Fullname),
		AuthorHandle: a.Author.Username,
		AuthorAvatar: a.Author.AvatarURL,
	}
}
