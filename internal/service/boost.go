package service

import (
	"errors"
	"time"

	"github.com/kawojue/phrednetwork/internal/billing"
	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidBoostDays = errors.New("boost duration must be a positive number of days")
	ErrNotArticleAuthor = errors.New("only the author can boost an article")
	ErrArticlePending   = errors.New("article is awaiting approval")
)

// BoostStore is the slice of the boosting repository the service needs.
type BoostStore interface {
	GetByArticleID(articleID uint) (*models.Boosting, error)
	Save(b *models.Boosting) error
}

// ArticleGetter resolves articles for boost checks.
type ArticleGetter interface {
	GetByID(id uint) (*models.Article, error)
}

// BoostService sells ranking weight. An article has at most one boost
// record; buying while a boost is live stacks points and replaces the
// expiry, buying after expiry starts over.
type BoostService struct {
	boosts   BoostStore
	articles ArticleGetter
	ledger   *LedgerService
	now      func() time.Time
}

func NewBoostService(boosts BoostStore, articles ArticleGetter, ledger *LedgerService) *BoostService {
	return &BoostService{boosts: boosts, articles: articles, ledger: ledger, now: time.Now}
}

// Purchase charges the author's wallet for days of boost and applies the
// points.
func (s *BoostService) Purchase(userID, articleID uint, days int) (*models.Boosting, error) {
	if days <= 0 {
		return nil, ErrInvalidBoostDays
	}
	article, err := s.articles.GetByID(articleID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != userID {
		return nil, ErrNotArticleAuthor
	}
	if article.PendingApproval {
		return nil, ErrArticlePending
	}

	price := billing.BoostingPrice(days)
	if _, err := s.ledger.PurchaseResource(userID, price, "boosting"); err != nil {
		return nil, err
	}
	return s.apply(articleID, domain.BoostPointPurchase, days, price)
}

// AutoApply grants the flat boost given to moderator-published articles
// without charging a wallet.
func (s *BoostService) AutoApply(articleID uint) (*models.Boosting, error) {
	return s.apply(articleID, domain.BoostPointAuto, domain.AutoBoostDays, 0)
}

func (s *BoostService) apply(articleID uint, points, days int, paid float64) (*models.Boosting, error) {
	now := s.now()
	expiry := now.AddDate(0, 0, days)

	b, err := s.boosts.GetByArticleID(articleID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		b = &models.Boosting{
			ArticleID:      articleID,
			BoostingPoint:  points,
			AmountPaid:     paid,
			BoostedAt:      now,
			BoostingExpiry: expiry,
		}
	case err != nil:
		return nil, err
	case b.Active(now):
		// points stack while live; the rest reflects the new purchase
		b.BoostingPoint += points
		b.AmountPaid = paid
		b.BoostedAt = now
		b.BoostingExpiry = expiry
	default:
		// expired record: start over
		b.BoostingPoint = points
		b.AmountPaid = paid
		b.BoostedAt = now
		b.BoostingExpiry = expiry
	}
	if err := s.boosts.Save(b); err != nil {
		return nil, err
	}
	return b, nil
}
