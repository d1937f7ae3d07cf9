package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/middleware"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/internal/service"
	"github.com/kawojue/phrednetwork/pkg/format"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *repository.CommentRepository
	articles *repository.ArticleRepository
	users    *repository.UserRepository
	notifier *service.Notifier
}

func NewCommentHandler(comments *repository.CommentRepository, articles *repository.ArticleRepository, users *repository.UserRepository, notifier *service.Notifier) *CommentHandler {
	return &CommentHandler{comments: comments, articles: articles, users: users, notifier: notifier}
}

type CommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1024"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	article, err := h.articles.GetByID(uint(articleID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	userID := middleware.GetUserID(c)
	comment := &models.Comment{
		ArticleID:   article.ID,
		UserID:      userID,
		Content:     req.Content,
		CommentedAt: time.Now(),
	}
	if err := h.comments.Create(comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save comment"})
		return
	}
	if userID != article.AuthorID {
		if commenter, err := h.users.GetByID(userID); err == nil {
			h.notifier.NewComment(article.AuthorID, format.TitleName(commenter.Fullname), article.Title)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *CommentHandler) List(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	limit, offset := pagination(c)
	list, err := h.comments.ListByArticle(uint(articleID), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load comments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": list})
}

// Delete removes a comment. The commenter, the article author and
// moderators may delete.
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}
	comment, err := h.comments.GetByID(uint(commentID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	userID := middleware.GetUserID(c)
	allowed := comment.UserID == userID || middleware.GetRole(c).IsModerator()
	if !allowed {
		if article, err := h.articles.GetByID(comment.ArticleID); err == nil && article.AuthorID == userID {
			allowed = true
		}
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.comments.Delete(comment.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *CommentHandler) Reply(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.comments.GetByID(uint(commentID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	reply := &models.Reply{
		CommentID: uint(commentID),
		UserID:    middleware.GetUserID(c),
		Content:   req.Content,
		RepliedAt: time.Now(),
	}
	if err := h.comments.CreateReply(reply); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save reply"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reply": reply})
}

func (h *CommentHandler) DeleteReply(c *gin.Context) {
	replyID, err := strconv.ParseUint(c.Param("replyId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reply id"})
		return
	}
	reply, err := h.comments.GetReplyByID(uint(replyID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reply not found"})
		return
	}
	if reply.UserID != middleware.GetUserID(c) && !middleware.GetRole(c).IsModerator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.comments.DeleteReply(reply.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reply deleted"})
}

// LikeArticle toggles the signed-in user's like on an article.
func (h *CommentHandler) LikeArticle(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	if _, err := h.articles.GetByID(uint(articleID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	liked, err := h.comments.ToggleArticleLike(middleware.GetUserID(c), uint(articleID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not toggle like"})
		return
	}
	count, _ := h.comments.CountArticleLikes(uint(articleID))
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": count})
}

// LikeComment toggles the signed-in user's like on a comment.
func (h *CommentHandler) LikeComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}
	if _, err := h.comments.GetByID(uint(commentID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	liked, err := h.comments.ToggleCommentLike(middleware.GetUserID(c), uint(commentID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not toggle like"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// Bookmark saves an article for later, capped per user.
func (h *CommentHandler) Bookmark(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	if _, err := h.articles.GetByID(uint(articleID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	userID := middleware.GetUserID(c)
	if already, _ := h.comments.HasBookmarked(userID, uint(articleID)); !already {
		count, err := h.comments.CountBookmarks(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not bookmark"})
			return
		}
		if count >= domain.MaxBookmarks {
			c.JSON(http.StatusConflict, gin.H{"error": "bookmark limit reached, remove one first"})
			return
		}
	}
	b := &models.Bookmark{UserID: userID, ArticleID: uint(articleID), BookmarkedAt: time.Now()}
	if err := h.comments.AddBookmark(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not bookmark"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bookmarked"})
}

func (h *CommentHandler) Unbookmark(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	if err := h.comments.RemoveBookmark(middleware.GetUserID(c), uint(articleID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove bookmark"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bookmark removed"})
}

func (h *CommentHandler) Bookmarks(c *gin.Context) {
	list, err := h.comments.ListBookmarks(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load bookmarks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": list})
}
