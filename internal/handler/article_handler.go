package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kawojue/phrednetwork/internal/middleware"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/internal/service"
	"github.com/kawojue/phrednetwork/pkg/cloudinary"
	"github.com/kawojue/phrednetwork/pkg/format"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articles *repository.ArticleRepository
	comments *repository.CommentRepository
	users    *repository.UserRepository
	svc      *service.ArticleService
	gate     *service.AccessGate
	matcher  *service.AdvertMatcher
	boosts   *service.BoostService
	uploads  cloudinary.Client
	notifier *service.Notifier
}

func NewArticleHandler(
	articles *repository.ArticleRepository,
	comments *repository.CommentRepository,
	users *repository.UserRepository,
	svc *service.ArticleService,
	gate *service.AccessGate,
	matcher *service.AdvertMatcher,
	boosts *service.BoostService,
	uploads cloudinary.Client,
	notifier *service.Notifier,
) *ArticleHandler {
	return &ArticleHandler{
		articles: articles,
		comments: comments,
		users:    users,
		svc:      svc,
		gate:     gate,
		matcher:  matcher,
		boosts:   boosts,
		uploads:  uploads,
		notifier: notifier,
	}
}

type CreateArticleRequest struct {
	Title      string `form:"title" binding:"required,min=3,max=255"`
	Content    string `form:"content" binding:"required,min=50"`
	Categories string `form:"categories" binding:"required"`
}

// Create publishes a draft into the review queue. Moderator articles go
// live immediately with the automatic boost.
func (h *ArticleHandler) Create(c *gin.Context) {
	var req CreateArticleRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	author, err := h.users.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if !author.IsModerator() && (author.Verification == nil || !author.Verification.Verified) {
		c.JSON(http.StatusForbidden, gin.H{"error": "submit and verify your license to publish"})
		return
	}
	if err := h.svc.CheckPublishLimit(author); err != nil {
		if err == service.ErrDailyLimitReached {
			c.JSON(http.StatusForbidden, gin.H{"error": "daily publish limit reached, become a member to lift it"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create article"})
		return
	}
	categories, err := h.validCategories(req.Categories)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article := &models.Article{
		AuthorID:        author.ID,
		Title:           req.Title,
		Content:         req.Content,
		CategoriesText:  strings.Join(categories, ","),
		ReadingTime:     format.ReadingTime(req.Content),
		PendingApproval: true,
	}
	if author.IsModerator() {
		article.PendingApproval = false
		article.PublishedAt = time.Now()
	}

	if file, _, err := c.Request.FormFile("cover_photo"); err == nil {
		defer file.Close()
		res, err := h.uploads.Upload(c.Request.Context(), file, "covers", fmt.Sprintf("cover-%d-%d", author.ID, time.Now().UnixNano()))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "cover upload failed"})
			return
		}
		article.CoverPhotoURL = res.SecureURL
		article.CoverPhotoID = res.PublicID
	}

	if err := h.articles.Create(article); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create article"})
		return
	}
	if author.IsModerator() {
		if _, err := h.boosts.AutoApply(article.ID); err != nil {
			log.Printf("[Article] auto boost failed article=%d: %v", article.ID, err)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"article": article})
}

func (h *ArticleHandler) validCategories(raw string) ([]string, error) {
	known, err := h.articles.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("could not load categories")
	}
	allowed := make(map[string]string, len(known))
	for _, k := range known {
		allowed[strings.ToLower(k.Text)] = k.Text
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		canonical, ok := allowed[strings.ToLower(part)]
		if !ok {
			return nil, fmt.Errorf("unknown category %q", part)
		}
		out = append(out, canonical)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one category required")
	}
	return out, nil
}

// Get serves a single article behind the read gate. Pending articles are
// visible only to their author and moderators.
func (h *ArticleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	article, err := h.articles.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	var viewer *models.User
	if viewerID := middleware.GetUserID(c); viewerID != 0 {
		viewer, err = h.users.GetByID(viewerID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
	}

	if article.PendingApproval {
		if viewer == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		if viewer.ID != article.AuthorID && !viewer.IsModerator() {
			c.JSON(http.StatusForbidden, gin.H{"error": "article is awaiting approval"})
			return
		}
	}

	now := time.Now()
	quota := service.QuotaFor(viewer, article, now)
	viewerKey := service.ViewerKey(middleware.GetUserID(c))

	commentCount, _ := h.comments.CountByArticle(article.ID)
	likeCount, _ := h.comments.CountArticleLikes(article.ID)

	// Past quota the request still succeeds, the viewer just drops to
	// the restricted shape with no body text.
	if !h.gate.Allow(viewerKey, article.ID, quota) {
		advert, err := h.matcher.Attach(article)
		if err != nil {
			log.Printf("[Article] advert match failed article=%d: %v", article.ID, err)
		}
		resp := gin.H{
			"restricted": true,
			"article":    publicArticleView(article),
			"views":      format.FormatNumber(article.Views),
			"comments":   commentCount,
			"likes":      likeCount,
		}
		if advert != nil {
			resp["advert"] = advert
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	if err := h.svc.RecordView(article, viewer); err != nil {
		log.Printf("[Article] record view failed article=%d: %v", article.ID, err)
	}

	// authors and moderators are never served adverts on their own pages
	var advert *models.Advert
	if viewer == nil || (viewer.ID != article.AuthorID && !viewer.IsModerator()) {
		if advert, err = h.matcher.Attach(article); err != nil {
			log.Printf("[Article] advert match failed article=%d: %v", article.ID, err)
		}
	}

	var liked, bookmarked bool
	if viewer != nil {
		liked, _ = h.comments.HasLikedArticle(viewer.ID, article.ID)
		bookmarked, _ = h.comments.HasBookmarked(viewer.ID, article.ID)
	}
	var body any
	switch {
	case viewer != nil && (viewer.ID == article.AuthorID || viewer.IsModerator()):
		body = ownerArticleView(article, liked, bookmarked, now)
	default:
		body = authenticatedArticleView(article, liked, bookmarked)
	}

	resp := gin.H{
		"restricted": false,
		"article":    body,
		"views":      format.FormatNumber(article.Views),
		"comments":   commentCount,
		"likes":      likeCount,
	}
	if advert != nil {
		resp["advert"] = advert
	}
	c.JSON(http.StatusOK, resp)
}

type UpdateArticleRequest struct {
	Title      string `json:"title" binding:"omitempty,min=3,max=255"`
	Content    string `json:"content" binding:"omitempty,min=50"`
	Categories string `json:"categories"`
}

// Update edits an article in place. Only the author can edit.
func (h *ArticleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	var req UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	article, err := h.articles.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if article.AuthorID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your article"})
		return
	}
	if req.Title != "" {
		article.Title = req.Title
	}
	if req.Content != "" {
		article.Content = req.Content
		article.ReadingTime = format.ReadingTime(req.Content)
	}
	if req.Categories != "" {
		categories, err := h.validCategories(req.Categories)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		article.CategoriesText = strings.Join(categories, ",")
	}
	if err := h.articles.Update(article); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": article})
}

// Delete removes an article with everything attached to it. Authors
// delete their own work, moderators delete anything.
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	article, err := h.articles.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if article.AuthorID != middleware.GetUserID(c) && !middleware.GetRole(c).IsModerator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.articles.DeleteCascade(article.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if article.CoverPhotoID != "" {
		_ = h.uploads.Delete(c.Request.Context(), article.CoverPhotoID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

// Mine lists the signed-in author's articles, pending included.
func (h *ArticleHandler) Mine(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.articles.ListByAuthor(middleware.GetUserID(c), true, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load articles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": list})
}

// Search matches approved articles by title or body.
func (h *ArticleHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}
	limit, offset := pagination(c)
	list, err := h.articles.Search(q, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": list})
}

// ByCategory lists approved articles in one category.
func (h *ArticleHandler) ByCategory(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.articles.ListByCategory(c.Param("category"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load articles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": list})
}

// Categories lists the curated category set.
func (h *ArticleHandler) Categories(c *gin.Context) {
	list, err := h.articles.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}
