package repository

import (
	"time"

	"github.com/kawojue/phrednetwork/internal/models"

	"gorm.io/gorm"
)

type BoostingRepository struct {
	db *gorm.DB
}

func NewBoostingRepository(db *gorm.DB) *BoostingRepository {
	return &BoostingRepository{db: db}
}

func (r *BoostingRepository) GetByArticleID(articleID uint) (*models.Boosting, error) {
	var b models.Boosting
	err := r.db.Where("article_id = ?", articleID).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BoostingRepository) Save(b *models.Boosting) error {
	return r.db.Save(b).Error
}

func (r *BoostingRepository) DeleteByArticleID(articleID uint) error {
	return r.db.Where("article_id = ?", articleID).Delete(&models.Boosting{}).Error
}

// DeleteExpired clears boost records whose window closed before the
// cutoff. Run from the nightly sweep.
func (r *BoostingRepository) DeleteExpired(cutoff time.Time) (int64, error) {
	res := r.db.Where("boosting_expiry < ?", cutoff).Delete(&models.Boosting{})
	return res.RowsAffected, res.Error
}

func (r *BoostingRepository) CountActive(now time.Time) (int64, error) {
	var c int64
	err := r.db.Model(&models.Boosting{}).Where("boosting_expiry > ?", now).Count(&c).Error
	return c, err
}
