package repository

import (
	"github.com/kawojue/phrednetwork/internal/models"

	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(j *models.Job) error {
	return r.db.Create(j).Error
}

func (r *JobRepository) GetByID(id uint) (*models.Job, error) {
	var j models.Job
	err := r.db.Preload("PostedBy").First(&j, id).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) Update(j *models.Job) error {
	return r.db.Save(j).Error
}

func (r *JobRepository) Delete(id uint) error {
	return r.db.Delete(&models.Job{}, id).Error
}

func (r *JobRepository) List(limit, offset int) ([]models.Job, error) {
	var list []models.Job
	err := r.db.Preload("PostedBy").Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *JobRepository) ListByPoster(posterID uint, limit, offset int) ([]models.Job, error) {
	var list []models.Job
	err := r.db.Where("posted_by_id = ?", posterID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *JobRepository) Search(q string, limit, offset int) ([]models.Job, error) {
	var list []models.Job
	like := "%" + q + "%"
	err := r.db.Where("name LIKE ? OR description LIKE ? OR location LIKE ?", like, like, like).
		Preload("PostedBy").Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
