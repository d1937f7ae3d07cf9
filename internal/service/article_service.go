package service

import (
	"errors"
	"time"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"
)

var ErrDailyLimitReached = errors.New("daily publish limit reached")

// ViewStore is the slice of the article repository the view tracker
// needs. RecordView increments the counter and settles any milestone
// payout in one database transaction.
type ViewStore interface {
	RecordView(articleID, authorID uint, milestone int64, payout float64, ref string) (int64, bool, error)
	CountPublishedToday(authorID uint, now time.Time) (int64, error)
}

// ArticleService carries the read-side bookkeeping around articles:
// durable view counts, milestone payouts and the daily publish limit.
type ArticleService struct {
	store    ViewStore
	notifier *Notifier
	now      func() time.Time
}

func NewArticleService(store ViewStore, notifier *Notifier) *ArticleService {
	return &ArticleService{store: store, notifier: notifier, now: time.Now}
}

// RecordView counts a read toward the durable view total. Only signed-in
// readers who are neither the author nor moderators count; everyone else
// reads without moving the number. Every ViewMilestone-th view pays the
// author atomically with the increment.
func (s *ArticleService) RecordView(article *models.Article, viewer *models.User) error {
	if viewer == nil || viewer.ID == article.AuthorID || viewer.IsModerator() {
		return nil
	}
	_, paid, err := s.store.RecordView(article.ID, article.AuthorID,
		domain.ViewMilestone, domain.MilestonePayout, Reference("milestone", article.AuthorID))
	if err != nil {
		return err
	}
	if paid && s.notifier != nil {
		s.notifier.MilestoneEarning(article.AuthorID, domain.MilestonePayout, article.Title)
	}
	return nil
}

// CheckPublishLimit enforces the daily cap for non-member authors.
// Members, admins and auditors publish without limit.
func (s *ArticleService) CheckPublishLimit(author *models.User) error {
	if author.IsModerator() || MembershipActive(author.Membership, s.now()) {
		return nil
	}
	n, err := s.store.CountPublishedToday(author.ID, s.now())
	if err != nil {
		return err
	}
	if n >= domain.FreeArticlesPerDay {
		return ErrDailyLimitReached
	}
	return nil
}
