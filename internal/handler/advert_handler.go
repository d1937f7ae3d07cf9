package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/middleware"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/internal/service"
	"github.com/kawojue/phrednetwork/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type AdvertHandler struct {
	adverts *repository.AdvertRepository
	ledger  *service.LedgerService
	uploads cloudinary.Client
}

func NewAdvertHandler(adverts *repository.AdvertRepository, ledger *service.LedgerService, uploads cloudinary.Client) *AdvertHandler {
	return &AdvertHandler{adverts: adverts, ledger: ledger, uploads: uploads}
}

type CreateAdvertRequest struct {
	ProductName string `form:"product_name" binding:"required,min=2,max=128"`
	Description string `form:"description" binding:"required,max=1024"`
	ActionLink  string `form:"action_link" binding:"required,url"`
	Keywords    string `form:"keywords" binding:"required"`
}

// Create posts an advert. The flat price is charged up front and the
// advert waits for admin approval; rejection refunds it.
func (h *AdvertHandler) Create(c *gin.Context) {
	var req CreateAdvertRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	if _, err := h.ledger.PurchaseResource(userID, domain.AdvertPrice, "advert"); err != nil {
		if err == repository.ErrInsufficientBalance {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not charge wallet"})
		return
	}

	advert := &models.Advert{
		PostedByID:      userID,
		ProductName:     req.ProductName,
		Description:     req.Description,
		ActionLink:      req.ActionLink,
		KeywordsText:    req.Keywords,
		AmountPaid:      domain.AdvertPrice,
		PendingApproval: true,
		AdvertExpiry:    time.Now().AddDate(0, 0, domain.AdvertLifetimeDays),
	}
	if file, _, err := c.Request.FormFile("product_image"); err == nil {
		defer file.Close()
		res, err := h.uploads.Upload(c.Request.Context(), file, "adverts", fmt.Sprintf("advert-%d-%d", userID, time.Now().UnixNano()))
		if err != nil {
			// money already left the wallet, put it back
			_ = h.ledger.CreditEarning(userID, domain.AdvertPrice, "advert-refund")
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		advert.ProductImageURL = res.SecureURL
		advert.ProductImageID = res.PublicID
	}
	if err := h.adverts.Create(advert); err != nil {
		_ = h.ledger.CreditEarning(userID, domain.AdvertPrice, "advert-refund")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save advert"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"advert": advert})
}

// Delete removes an advert. Only the poster or a moderator may remove
// it, and voluntary removal does not refund the posting fee.
func (h *AdvertHandler) Delete(c *gin.Context) {
	advertID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid advert id"})
		return
	}
	ad, err := h.adverts.GetByID(uint(advertID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "advert not found"})
		return
	}
	if ad.PostedByID != middleware.GetUserID(c) && !middleware.GetRole(c).IsModerator() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.adverts.Delete(ad.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if ad.ProductImageID != "" {
		_ = h.uploads.Delete(c.Request.Context(), ad.ProductImageID)
	}
	c.JSON(http.StatusOK, gin.H{"message": "advert removed"})
}

// Mine lists the signed-in user's adverts, pending included.
func (h *AdvertHandler) Mine(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.adverts.ListByPoster(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load adverts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"adverts": list})
}
