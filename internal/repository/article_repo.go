package repository

import (
	"errors"
	"time"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"

	"gorm.io/gorm"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(a *models.Article) error {
	return r.db.Create(a).Error
}

func (r *ArticleRepository) GetByID(id uint) (*models.Article, error) {
	var a models.Article
	err := r.db.Preload("Author").Preload("Author.Verification").Preload("Boosting").First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ArticleRepository) Update(a *models.Article) error {
	return r.db.Save(a).Error
}

// DeleteCascade removes the article together with its comments, replies,
// likes, bookmarks and boosting record in one transaction.
func (r *ArticleRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("article_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.Reply{}).Error; err != nil {
				return err
			}
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Boosting{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Article{}, id).Error
	})
}

func (r *ArticleRepository) Approve(id uint) error {
	return r.db.Model(&models.Article{}).Where("id = ?", id).
		Updates(map[string]interface{}{"pending_approval": false, "published_at": time.Now()}).Error
}

// RecordView bumps the durable counter and, when the new total lands on
// a milestone, credits the author's wallet and writes the earning row in
// the same transaction.
func (r *ArticleRepository) RecordView(articleID, authorID uint, milestone int64, payout float64, ref string) (int64, bool, error) {
	var views int64
	var paid bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Article{}).Where("id = ?", articleID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Article{}).Where("id = ?", articleID).Pluck("views", &views).Error; err != nil {
			return err
		}
		if milestone <= 0 || views%milestone != 0 {
			return nil
		}
		var w models.Wallet
		if err := tx.Where("user_id = ?", authorID).First(&w).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			w = models.Wallet{UserID: authorID}
			if err := tx.Create(&w).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&w).Update("balance", gorm.Expr("balance + ?", payout)).Error; err != nil {
			return err
		}
		entry := &models.TxHistory{
			WalletID:  w.ID,
			Amount:    payout,
			Type:      domain.TxDeposit,
			Source:    domain.TxSourceWallet,
			Status:    domain.TxSuccess,
			Reference: ref,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		paid = true
		return nil
	})
	return views, paid, err
}

func (r *ArticleRepository) ListByAuthor(authorID uint, includePending bool, limit, offset int) ([]models.Article, error) {
	var list []models.Article
	q := r.db.Where("author_id = ?", authorID)
	if !includePending {
		q = q.Where("pending_approval = ?", false)
	}
	err := q.Preload("Boosting").Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ArticleRepository) ListPending(limit, offset int) ([]models.Article, error) {
	var list []models.Article
	err := r.db.Where("pending_approval = ?", true).Preload("Author").
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListBoosted returns one page of approved articles with a live boost,
// strongest boost first.
func (r *ArticleRepository) ListBoosted(limit, offset int) ([]models.Article, error) {
	var list []models.Article
	err := r.db.Joins("JOIN boostings ON boostings.article_id = articles.id").
		Where("articles.pending_approval = ? AND boostings.boosting_expiry > ?", false, time.Now()).
		Preload("Author").Preload("Boosting").
		Order("boostings.boosting_point DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// Random returns one approved article chosen uniformly. Callers drawing
// several articles call it repeatedly, so the same article can come up
// more than once.
func (r *ArticleRepository) Random() (*models.Article, error) {
	var a models.Article
	err := r.db.Where("pending_approval = ?", false).Preload("Author").
		Order("RAND()").First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListNonBoosted returns approved articles without a live boost, newest
// publication first.
func (r *ArticleRepository) ListNonBoosted(limit, offset int) ([]models.Article, error) {
	var list []models.Article
	err := r.db.Joins("LEFT JOIN boostings ON boostings.article_id = articles.id AND boostings.boosting_expiry > ?", time.Now()).
		Where("articles.pending_approval = ? AND boostings.id IS NULL", false).
		Preload("Author").
		Order("articles.published_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListByAuthors returns approved articles from any of the given authors,
// newest first. Used for the following feed tab.
func (r *ArticleRepository) ListByAuthors(authorIDs []uint, limit, offset int) ([]models.Article, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var list []models.Article
	err := r.db.Where("author_id IN ? AND pending_approval = ?", authorIDs, false).
		Preload("Author").Preload("Boosting").
		Order("published_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ArticleRepository) Search(q string, limit, offset int) ([]models.Article, error) {
	var list []models.Article
	like := "%" + q + "%"
	err := r.db.Where("pending_approval = ? AND (title LIKE ? OR content LIKE ?)", false, like, like).
		Preload("Author").Order("published_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ArticleRepository) ListByCategory(category string, limit, offset int) ([]models.Article, error) {
	var list []models.Article
	err := r.db.Where("pending_approval = ? AND CONCAT(',', categories_text, ',') LIKE ?", false, "%,"+category+",%").
		Preload("Author").Order("published_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// CountPublishedToday supports the daily publish limit for non-members.
func (r *ArticleRepository) CountPublishedToday(authorID uint, now time.Time) (int64, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var c int64
	err := r.db.Model(&models.Article{}).
		Where("author_id = ? AND created_at >= ?", authorID, dayStart).Count(&c).Error
	return c, err
}

func (r *ArticleRepository) Count() (int64, error) {
	var c int64
	err := r.db.Model(&models.Article{}).Count(&c).Error
	return c, err
}

func (r *ArticleRepository) SumViews() (int64, error) {
	var total int64
	err := r.db.Model(&models.Article{}).Select("COALESCE(SUM(views), 0)").Scan(&total).Error
	return total, err
}

// Categories

func (r *ArticleRepository) ListCategories() ([]models.Category, error) {
	var list []models.Category
	err := r.db.Order("text ASC").Find(&list).Error
	return list, err
}

func (r *ArticleRepository) CreateCategory(c *models.Category) error {
	return r.db.Where("text = ?", c.Text).FirstOrCreate(c).Error
}

func (r *ArticleRepository) DeleteCategory(id uint) error {
	return r.db.Delete(&models.Category{}, id).Error
}
