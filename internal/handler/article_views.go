package handler

import (
	"time"

	"github.com/kawojue/phrednetwork/internal/models"
)

// ArticleAuthorView is the trimmed author summary shared by every
// article view shape.
type ArticleAuthorView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
	Avatar   string `json:"avatar,omitempty"`
}

// PublicArticleView is the restricted shape served once the read gate
// denies a viewer: metadata only, no body text.
type PublicArticleView struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Views       int64             `json:"views"`
	Categories  string            `json:"categories"`
	CoverPhoto  string            `json:"cover_photo,omitempty"`
	ReadingTime string            `json:"reading_time"`
	PublishedAt time.Time         `json:"published_at"`
	Author      ArticleAuthorView `json:"author"`
}

// AuthenticatedArticleView adds the body plus the viewer's own marks.
type AuthenticatedArticleView struct {
	PublicArticleView
	Content    string `json:"content"`
	Liked      bool   `json:"liked"`
	Bookmarked bool   `json:"bookmarked"`
}

// OwnerArticleView is what the author and moderators see: review state
// and boost status included.
type OwnerArticleView struct {
	AuthenticatedArticleView
	PendingApproval bool `json:"pending_approval"`
	Boosted         bool `json:"boosted"`
}

func publicArticleView(a *models.Article) PublicArticleView {
	return PublicArticleView{
		ID:          a.ID,
		Title:       a.Title,
		Views:       a.Views,
		Categories:  a.CategoriesText,
		CoverPhoto:  a.CoverPhotoURL,
		ReadingTime: a.ReadingTime,
		PublishedAt: a.PublishedAt,
		Author: ArticleAuthorView{
			ID:       a.Author.ID,
			Username: a.Author.Username,
			Fullname: a.Author.Fullname,
			Avatar:   a.Author.AvatarURL,
		},
	}
}

func authenticatedArticleView(a *models.Article, liked, bookmarked bool) AuthenticatedArticleView {
	return AuthenticatedArticleView{
		PublicArticleView: publicArticleView(a),
		Content:           a.Content,
		Liked:             liked,
		Bookmarked:        bookmarked,
	}
}

func ownerArticleView(a *models.Article, liked, bookmarked bool, now time.Time) OwnerArticleView {
	return OwnerArticleView{
		AuthenticatedArticleView: authenticatedArticleView(a, liked, bookmarked),
		PendingApproval:          a.PendingApproval,
		Boosted:                  a.Boosting != nil && a.Boosting.Active(now),
	}
}
