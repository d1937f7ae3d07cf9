package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/kawojue/phrednetwork/internal/billing"
	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/middleware"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/internal/service"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	wallets     *repository.WalletRepository
	ledger      *service.LedgerService
	boosts      *service.BoostService
	memberships *service.MembershipService
}

func NewWalletHandler(wallets *repository.WalletRepository, ledger *service.LedgerService, boosts *service.BoostService, memberships *service.MembershipService) *WalletHandler {
	return &WalletHandler{wallets: wallets, ledger: ledger, boosts: boosts, memberships: memberships}
}

func (h *WalletHandler) Get(c *gin.Context) {
	w, err := h.wallets.GetOrCreate(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load wallet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": w})
}

func (h *WalletHandler) History(c *gin.Context) {
	w, err := h.wallets.GetOrCreate(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load wallet"})
		return
	}
	limit, offset := pagination(c)
	list, err := h.wallets.ListHistory(w.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": list})
}

type FundRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// Fund settles a Paystack checkout reference into the wallet.
func (h *WalletHandler) Fund(c *gin.Context) {
	var req FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.ledger.FundWallet(c.Request.Context(), middleware.GetUserID(c), req.Reference)
	if err != nil {
		switch err {
		case service.ErrAlreadyFunded:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case service.ErrPaymentNotSettled:
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			log.Printf("[Wallet] fund failed ref=%s: %v", req.Reference, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "could not verify payment"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": entry})
}

type WithdrawRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// Withdraw opens a withdrawal request for admin review. The quoted fees
// come back in the response.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.ledger.RequestWithdrawal(middleware.GetUserID(c), req.Amount)
	if err != nil {
		switch err {
		case service.ErrBelowMinimum:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrNoAccountDetail:
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "link a bank account first"})
		case service.ErrWithdrawalInFlight:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case repository.ErrInsufficientBalance:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"transaction": entry})
}

// FeeQuote previews the withdrawal fees for an amount.
func (h *WalletHandler) FeeQuote(c *gin.Context) {
	amount, err := strconv.ParseFloat(c.Query("amount"), 64)
	if err != nil || amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount required"})
		return
	}
	fee := billing.WithdrawalFee(amount)
	c.JSON(http.StatusOK, gin.H{"amount": amount, "fee": fee, "payout": amount - fee.TotalFee})
}

type BoostRequest struct {
	ArticleID uint `json:"article_id" binding:"required"`
	Days      int  `json:"days" binding:"required,gt=0"`
}

// Boost buys ranking points for the caller's own article out of the
// wallet.
func (h *WalletHandler) Boost(c *gin.Context) {
	var req BoostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.boosts.Purchase(middleware.GetUserID(c), req.ArticleID, req.Days)
	if err != nil {
		switch err {
		case service.ErrNotArticleAuthor, service.ErrArticlePending:
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case service.ErrInvalidBoostDays:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case repository.ErrInsufficientBalance:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "boost failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"boosting": b, "price": billing.BoostingPrice(req.Days)})
}

// BoostQuote previews the boost price for a duration.
func (h *WalletHandler) BoostQuote(c *gin.Context) {
	days, err := strconv.Atoi(c.Query("days"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days, "price": billing.BoostingPrice(days)})
}

type MembershipRequest struct {
	Tier domain.MembershipTier `json:"tier" binding:"required"`
}

// Membership buys or restarts a membership out of the wallet.
func (h *WalletHandler) Membership(c *gin.Context) {
	var req MembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.memberships.Purchase(middleware.GetUserID(c), req.Tier)
	if err != nil {
		switch err {
		case service.ErrUnknownTier:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrMembershipActive:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case repository.ErrInsufficientBalance:
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "membership purchase failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"membership": m})
}

// MembershipTiers lists the tiers and prices for the membership page.
func (h *WalletHandler) MembershipTiers(c *gin.Context) {
	tiers := []domain.MembershipTier{domain.TierMonthly, domain.TierQuarterly, domain.TierSemiAnnual, domain.TierYearly}
	out := make([]gin.H, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, gin.H{
			"tier":   t,
			"months": billing.MembershipMonths(t),
			"amount": billing.MembershipAmount(t),
		})
	}
	c.JSON(http.StatusOK, gin.H{"tiers": out})
}
