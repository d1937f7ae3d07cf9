package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/kawojue/phrednetwork/internal/middleware"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/internal/service"
	"github.com/kawojue/phrednetwork/pkg/cloudinary"
	"github.com/kawojue/phrednetwork/pkg/format"
	"github.com/kawojue/phrednetwork/pkg/paystack"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users    *repository.UserRepository
	articles *repository.ArticleRepository
	uploads  cloudinary.Client
	payments *paystack.Client
	notifier *service.Notifier
}

func NewUserHandler(users *repository.UserRepository, articles *repository.ArticleRepository, uploads cloudinary.Client, payments *paystack.Client, notifier *service.Notifier) *UserHandler {
	return &UserHandler{users: users, articles: articles, uploads: uploads, payments: payments, notifier: notifier}
}

// Me returns the signed-in user's own profile with wallet and
// verification state.
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.users.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":           u,
		"license_status": u.Verification.LicenseStatus(),
		"is_member":      service.MembershipActive(u.Membership, time.Now()),
	})
}

// Profile returns a public profile by username.
func (h *UserHandler) Profile(c *gin.Context) {
	u, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	followers, _ := h.users.CountFollowers(u.ID)
	following, _ := h.users.CountFollowing(u.ID)
	articles, _ := h.articles.ListByAuthor(u.ID, false, 20, 0)

	resp := gin.H{
		"id":             u.ID,
		"username":       u.Username,
		"fullname":       format.TitleName(u.Fullname),
		"bio":            u.Bio,
		"avatar_url":     u.AvatarURL,
		"license_status": u.Verification.LicenseStatus(),
		"followers":      format.FormatNumber(followers),
		"following":      format.FormatNumber(following),
		"articles":       articles,
	}
	if viewerID := middleware.GetUserID(c); viewerID != 0 {
		isFollowing, _ := h.users.IsFollowing(viewerID, u.ID)
		resp["is_following"] = isFollowing
	}
	c.JSON(http.StatusOK, resp)
}

type UpdateProfileRequest struct {
	Fullname string `json:"fullname" binding:"omitempty,min=2,max=128"`
	Bio      string `json:"bio" binding:"omitempty,max=512"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if req.Fullname != "" {
		u.Fullname = req.Fullname
	}
	if req.Bio != "" {
		u.Bio = req.Bio
	}
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UploadAvatar replaces the profile photo, deleting the previous upload.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file required"})
		return
	}
	defer file.Close()

	u, err := h.users.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	res, err := h.uploads.Upload(c.Request.Context(), file, "avatars", fmt.Sprintf("avatar-%d", u.ID))
	if err != nil {
		log.Printf("[User] avatar upload failed user=%d: %v", u.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	if u.AvatarID != "" && u.AvatarID != res.PublicID {
		_ = h.uploads.Delete(c.Request.Context(), u.AvatarID)
	}
	u.AvatarURL = res.SecureURL
	u.AvatarID = res.PublicID
	if err := h.users.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": u.AvatarURL})
}

// Follows

func (h *UserHandler) Follow(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	followerID := middleware.GetUserID(c)
	if uint(targetID) == followerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
		return
	}
	target, err := h.users.GetByID(uint(targetID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err := h.users.Follow(followerID, target.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "follow failed"})
		return
	}
	if follower, err := h.users.GetByID(followerID); err == nil {
		h.notifier.NewFollower(target.ID, format.TitleName(follower.Fullname))
	}
	c.JSON(http.StatusOK, gin.H{"message": "following"})
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := h.users.Unfollow(middleware.GetUserID(c), uint(targetID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unfollow failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

func (h *UserHandler) Followers(c *gin.Context) {
	u, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	limit, offset := pagination(c)
	list, err := h.users.Followers(u.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load followers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": list})
}

func (h *UserHandler) Following(c *gin.Context) {
	u, err := h.users.GetByUsername(c.Param("username"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	limit, offset := pagination(c)
	list, err := h.users.Following(u.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load following"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": list})
}

// Search matches users by username or fullname.
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}
	limit, offset := pagination(c)
	list, err := h.users.Search(q, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

// License submission

type SubmitLicenseRequest struct {
	LicenseNumber string `form:"license_number" binding:"required"`
	Specialty     string `form:"specialty" binding:"required"`
}

// SubmitLicense files the author's professional license for review. The
// attachment is optional.
func (h *UserHandler) SubmitLicense(c *gin.Context) {
	var req SubmitLicenseRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	v, err := h.users.GetVerification(userID)
	if err != nil {
		v = &models.Verification{UserID: userID}
	}
	v.LicenseNumber = req.LicenseNumber
	v.Specialty = req.Specialty
	v.Verified = false
	now := time.Now()
	v.SubmittedAt = &now

	if file, _, err := c.Request.FormFile("attachment"); err == nil {
		defer file.Close()
		res, err := h.uploads.Upload(c.Request.Context(), file, "licenses", fmt.Sprintf("license-%d", userID))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "attachment upload failed"})
			return
		}
		v.AttachmentURL = res.SecureURL
		v.AttachmentID = res.PublicID
	}
	if err := h.users.SaveVerification(v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit license"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "license submitted for review", "status": v.LicenseStatus()})
}

// Bank account

type LinkAccountRequest struct {
	AccountNumber string `json:"account_number" binding:"required,len=10"`
	BankCode      string `json:"bank_code" binding:"required"`
}

// LinkAccount resolves the account at Paystack before saving, so only
// real accounts can be linked for payouts.
func (h *UserHandler) LinkAccount(c *gin.Context) {
	var req LinkAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resolved, err := h.payments.ResolveAccount(c.Request.Context(), req.AccountNumber, req.BankCode)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not resolve account"})
		return
	}
	bank, _ := h.payments.BankByCode(c.Request.Context(), req.BankCode)
	detail := &models.AccountDetail{
		UserID:        middleware.GetUserID(c),
		AccountName:   resolved.AccountName,
		AccountNumber: req.AccountNumber,
		BankCode:      req.BankCode,
	}
	if bank != nil {
		detail.BankName = bank.Name
	}
	if err := h.users.SaveAccountDetail(detail); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": detail})
}

// Banks lists the supported banks for the link-account form.
func (h *UserHandler) Banks(c *gin.Context) {
	banks, err := h.payments.ListBanks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load banks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"banks": banks})
}

// DeleteAccount soft-deletes the signed-in user.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.users.Delete(middleware.GetUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// pagination reads limit and offset query params with sane caps.
func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
