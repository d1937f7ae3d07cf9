package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/internal/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminHandler bundles the moderation surface: content review, advert
// review, withdrawal approvals, license review, account controls and
// platform analytics.
type AdminHandler struct {
	users    *repository.UserRepository
	articles *repository.ArticleRepository
	adverts  *repository.AdvertRepository
	wallets  *repository.WalletRepository
	boosts   *repository.BoostingRepository
	ledger   *service.LedgerService
	notifier *service.Notifier
}

func NewAdminHandler(
	users *repository.UserRepository,
	articles *repository.ArticleRepository,
	adverts *repository.AdvertRepository,
	wallets *repository.WalletRepository,
	boosts *repository.BoostingRepository,
	ledger *service.LedgerService,
	notifier *service.Notifier,
) *AdminHandler {
	return &AdminHandler{
		users:    users,
		articles: articles,
		adverts:  adverts,
		wallets:  wallets,
		boosts:   boosts,
		ledger:   ledger,
		notifier: notifier,
	}
}

// PendingArticles lists submissions awaiting review, oldest first.
func (h *AdminHandler) PendingArticles(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.articles.ListPending(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load pending articles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": list})
}

func (h *AdminHandler) ApproveArticle(c *gin.Context) {
	article, ok := h.pendingArticle(c)
	if !ok {
		return
	}
	if err := h.articles.Approve(article.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "approve failed"})
		return
	}
	h.notifier.ArticleApproved(article.AuthorID, article.Title)
	c.JSON(http.StatusOK, gin.H{"message": "article approved"})
}

// RejectArticle removes a pending submission entirely.
func (h *AdminHandler) RejectArticle(c *gin.Context) {
	article, ok := h.pendingArticle(c)
	if !ok {
		return
	}
	if err := h.articles.DeleteCascade(article.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reject failed"})
		return
	}
	h.notifier.ArticleRejected(article.AuthorID, article.Title)
	c.JSON(http.StatusOK, gin.H{"message": "article rejected"})
}

func (h *AdminHandler) pendingArticle(c *gin.Context) (*models.Article, bool) {
	articleID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return nil, false
	}
	article, err := h.articles.GetByID(uint(articleID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return nil, false
	}
	if !article.PendingApproval {
		c.JSON(http.StatusConflict, gin.H{"error": "article already reviewed"})
		return nil, false
	}
	return article, true
}

func (h *AdminHandler) PendingAdverts(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.adverts.ListPending(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load pending adverts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"adverts": list})
}

func (h *AdminHandler) ApproveAdvert(c *gin.Context) {
	ad, ok := h.pendingAdvert(c)
	if !ok {
		return
	}
	if err := h.adverts.Approve(ad.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "approve failed"})
		return
	}
	h.notifier.AdvertApproved(ad.PostedByID, ad.ProductName)
	c.JSON(http.StatusOK, gin.H{"message": "advert approved"})
}

// RejectAdvert deletes the advert and returns what the poster paid.
func (h *AdminHandler) RejectAdvert(c *gin.Context) {
	ad, ok := h.pendingAdvert(c)
	if !ok {
		return
	}
	if err := h.adverts.Delete(ad.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reject failed"})
		return
	}
	if ad.AmountPaid > 0 {
		if err := h.ledger.CreditEarning(ad.PostedByID, ad.AmountPaid, "advert-refund"); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "advert removed but refund failed"})
			return
		}
	}
	h.notifier.AdvertRejected(ad.PostedByID, ad.ProductName, ad.AmountPaid)
	c.JSON(http.StatusOK, gin.H{"message": "advert rejected", "refunded": ad.AmountPaid})
}

func (h *AdminHandler) pendingAdvert(c *gin.Context) (*models.Advert, bool) {
	advertID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid advert id"})
		return nil, false
	}
	ad, err := h.adverts.GetByID(uint(advertID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "advert not found"})
		return nil, false
	}
	if !ad.PendingApproval {
		c.JSON(http.StatusConflict, gin.H{"error": "advert already reviewed"})
		return nil, false
	}
	return ad, true
}

// PendingWithdrawals lists wallets holding a withdrawal request,
// oldest request first.
func (h *AdminHandler) PendingWithdrawals(c *gin.Context) {
	list, err := h.wallets.ListPendingWithdrawals()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

// ApproveWithdrawal pushes the held funds to the user's bank via the
// payment gateway. The ledger row settles later through the webhook.
func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	entry, err := h.ledger.ApproveWithdrawal(c.Request.Context(), uint(userID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoPendingWithdrawal):
			c.JSON(http.StatusNotFound, gin.H{"error": "no pending withdrawal for this user"})
		case errors.Is(err, service.ErrNoAccountDetail):
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "user has no linked bank account"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "transfer could not be initiated"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transfer initiated", "transaction": entry})
}

func (h *AdminHandler) PendingLicenses(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.users.ListPendingLicenses(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load licenses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"licenses": list})
}

// ReviewLicense marks a submitted license verified or declined. A
// decline clears the submission so the user can resubmit.
func (h *AdminHandler) ReviewLicense(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.users.GetVerification(uint(userID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no license submission found"})
		return
	}
	if v.LicenseNumber == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "nothing submitted for review"})
		return
	}
	if req.Approve {
		v.Verified = true
	} else {
		v.Verified = false
		v.LicenseNumber = ""
		v.Specialty = ""
		v.SubmittedAt = nil
	}
	if err := h.users.SaveVerification(v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "review failed"})
		return
	}
	h.notifier.LicenseReviewed(uint(userID), req.Approve)
	c.JSON(http.StatusOK, gin.H{"message": "license reviewed", "verified": v.Verified})
}

type InviteAuditorRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=64"`
	Fullname string `json:"fullname" binding:"required,max=128"`
	Password string `json:"password" binding:"required,min=8"`
}

// InviteAuditor creates a moderation account directly, skipping email
// verification.
func (h *AdminHandler) InviteAuditor(c *gin.Context) {
	var req InviteAuditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if _, err := h.users.GetByEmail(email); !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
		return
	}
	if _, err := h.users.GetByUsername(username); !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "username already in use"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}
	auditor := &models.User{
		Email:        email,
		Username:     username,
		Fullname:     req.Fullname,
		PasswordHash: string(hash),
		Role:         domain.RoleAuditor,
		Status:       domain.StatusActive,
	}
	if err := h.users.Create(auditor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}
	if err := h.users.SaveVerification(&models.Verification{UserID: auditor.ID, EmailVerified: true}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account created but verification shell failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"auditor": auditor})
}

func (h *AdminHandler) Auditors(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.users.ListByRole(string(domain.RoleAuditor), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load auditors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auditors": list})
}

// RemoveAuditor deletes a moderation account. Normal users go through
// suspension instead.
func (h *AdminHandler) RemoveAuditor(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := h.users.GetByID(uint(userID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if user.Role != domain.RoleAuditor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not an auditor account"})
		return
	}
	if err := h.users.Delete(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "auditor removed"})
}

// Users pages through accounts, optionally filtered by role.
func (h *AdminHandler) Users(c *gin.Context) {
	limit, offset := pagination(c)
	role := c.DefaultQuery("role", string(domain.RoleUser))
	list, err := h.users.ListByRole(role, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (h *AdminHandler) SuspendUser(c *gin.Context)    { h.setStatus(c, domain.StatusSuspended) }
func (h *AdminHandler) ReactivateUser(c *gin.Context) { h.setStatus(c, domain.StatusActive) }

func (h *AdminHandler) setStatus(c *gin.Context, status domain.UserStatus) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, err := h.users.GetByID(uint(userID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if user.Role == domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot change an admin account"})
		return
	}
	user.Status = status
	if err := h.users.Update(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated", "status": status})
}

// Analytics aggregates platform-wide counters for the dashboard.
func (h *AdminHandler) Analytics(c *gin.Context) {
	users, _ := h.users.Count()
	articles, _ := h.articles.Count()
	views, _ := h.articles.SumViews()
	balances, _ := h.wallets.SumBalances()
	pendingTx, _ := h.wallets.CountTxByStatus(domain.TxPending)
	deposits, _ := h.wallets.SumTxAmount(domain.TxDeposit, domain.TxSuccess)
	withdrawals, _ := h.wallets.SumTxAmount(domain.TxWithdrawal, domain.TxSuccess)
	activeBoosts, _ := h.boosts.CountActive(time.Now())
	c.JSON(http.StatusOK, gin.H{
		"users":                users,
		"articles":             articles,
		"total_views":          views,
		"wallet_balances":      balances,
		"pending_transactions": pendingTx,
		"total_deposits":       deposits,
		"total_withdrawals":    withdrawals,
		"active_boosts":        activeBoosts,
	})
}

type CategoryRequest struct {
	Text string `json:"text" binding:"required,min=2,max=64"`
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat := &models.Category{Text: strings.TrimSpace(req.Text)}
	if err := h.articles.CreateCategory(cat); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": cat})
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	catID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}
	if err := h.articles.DeleteCategory(uint(catID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
