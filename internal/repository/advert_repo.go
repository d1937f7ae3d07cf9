package repository

import (
	"strings"
	"time"

	"github.com/kawojue/phrednetwork/internal/models"

	"gorm.io/gorm"
)

type AdvertRepository struct {
	db *gorm.DB
}

func NewAdvertRepository(db *gorm.DB) *AdvertRepository {
	return &AdvertRepository{db: db}
}

func (r *AdvertRepository) Create(a *models.Advert) error {
	return r.db.Create(a).Error
}

func (r *AdvertRepository) GetByID(id uint) (*models.Advert, error) {
	var a models.Advert
	err := r.db.Preload("PostedBy").First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdvertRepository) Update(a *models.Advert) error {
	return r.db.Save(a).Error
}

func (r *AdvertRepository) Delete(id uint) error {
	return r.db.Delete(&models.Advert{}, id).Error
}

func (r *AdvertRepository) Approve(id uint) error {
	return r.db.Model(&models.Advert{}).Where("id = ?", id).Update("pending_approval", false).Error
}

func (r *AdvertRepository) ListPending(limit, offset int) ([]models.Advert, error) {
	var list []models.Advert
	err := r.db.Where("pending_approval = ?", true).Preload("PostedBy").
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *AdvertRepository) ListByPoster(posterID uint, limit, offset int) ([]models.Advert, error) {
	var list []models.Advert
	err := r.db.Where("posted_by_id = ?", posterID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// MatchKeywords returns the eligible advert whose keywords best overlap
// the given terms, or nil when nothing matches.
func (r *AdvertRepository) MatchKeywords(terms []string, now time.Time) (*models.Advert, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	conds := make([]string, 0, len(terms))
	args := make([]interface{}, 0, len(terms)+2)
	args = append(args, false, now)
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		conds = append(conds, "keywords_text LIKE ?")
		args = append(args, "%"+t+"%")
	}
	if len(conds) == 0 {
		return nil, nil
	}
	var a models.Advert
	err := r.db.Where("pending_approval = ? AND advert_expiry > ? AND ("+strings.Join(conds, " OR ")+")", args...).
		Order("engagement ASC").First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// EligibleByPoster returns an eligible advert posted by the given user,
// or nil.
func (r *AdvertRepository) EligibleByPoster(posterID uint, now time.Time) (*models.Advert, error) {
	var a models.Advert
	err := r.db.Where("posted_by_id = ? AND pending_approval = ? AND advert_expiry > ?", posterID, false, now).
		Order("engagement ASC").First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// RandomEligible returns one eligible advert chosen at random, or nil
// when none are live.
func (r *AdvertRepository) RandomEligible(now time.Time) (*models.Advert, error) {
	var a models.Advert
	err := r.db.Where("pending_approval = ? AND advert_expiry > ?", false, now).
		Order("RAND()").First(&a).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AdvertRepository) IncrementEngagement(id uint) error {
	return r.db.Model(&models.Advert{}).Where("id = ?", id).
		UpdateColumn("engagement", gorm.Expr("engagement + 1")).Error
}

// DeleteExpired removes adverts past their lifetime. Run from the
// nightly sweep.
func (r *AdvertRepository) DeleteExpired(cutoff time.Time) (int64, error) {
	res := r.db.Where("advert_expiry < ?", cutoff).Delete(&models.Advert{})
	return res.RowsAffected, res.Error
}
