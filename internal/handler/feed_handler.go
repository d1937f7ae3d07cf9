package handler

import (
	"net/http"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/middleware"
	"github.com/kawojue/phrednetwork/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	composer *service.FeedComposer
}

func NewFeedHandler(composer *service.FeedComposer) *FeedHandler {
	return &FeedHandler{composer: composer}
}

// Newsfeed serves one page of the composed feed. tab is for_you or
// following; following falls back to for_you for anonymous readers.
func (h *FeedHandler) Newsfeed(c *gin.Context) {
	tab := c.DefaultQuery("tab", domain.TabForYou)
	if tab != domain.TabForYou && tab != domain.TabFollowing {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tab"})
		return
	}
	userID := middleware.GetUserID(c)
	if tab == domain.TabFollowing && userID == 0 {
		tab = domain.TabForYou
	}
	limit, offset := pagination(c)
	items, err := h.composer.Compose(tab, userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build feed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tab": tab, "items": items})
}

// Discover serves the discovery page: a handful of unique random
// approved articles.
func (h *FeedHandler) Discover(c *gin.Context) {
	items, err := h.composer.Discover()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build discovery page"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
