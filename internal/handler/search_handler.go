package handler

import (
	"net/http"

	"github.com/kawojue/phrednetwork/internal/repository"

	"github.com/gin-gonic/gin"
)

// SearchHandler runs the global search across people, articles, forums
// and jobs in one call.
type SearchHandler struct {
	users    *repository.UserRepository
	articles *repository.ArticleRepository
	forums   *repository.ForumRepository
	jobs     *repository.JobRepository
}

func NewSearchHandler(
	users *repository.UserRepository,
	articles *repository.ArticleRepository,
	forums *repository.ForumRepository,
	jobs *repository.JobRepository,
) *SearchHandler {
	return &SearchHandler{users: users, articles: articles, forums: forums, jobs: jobs}
}

func (h *SearchHandler) Global(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}
	limit, offset := pagination(c)

	people, err := h.users.Search(q, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	articles, err := h.articles.Search(q, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	forums, err := h.forums.Search(q, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	jobs, err := h.jobs.Search(q, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"people":   people,
		"articles": articles,
		"forums":   forums,
		"jobs":     jobs,
	})
}
