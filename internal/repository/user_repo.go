package repository

import (
	"time"

	"github.com/kawojue/phrednetwork/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.Preload("Wallet").Preload("Verification").Preload("AccountDetail").Preload("Membership").First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.Where("username = ?", username).Preload("Verification").Preload("Membership").First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// Search matches username or fullname, most recently joined first.
func (r *UserRepository) Search(q string, limit, offset int) ([]models.User, error) {
	var list []models.User
	like := "%" + q + "%"
	err := r.db.Where("username LIKE ? OR fullname LIKE ?", like, like).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *UserRepository) ListByRole(role string, limit, offset int) ([]models.User, error) {
	var list []models.User
	err := r.db.Where("role = ?", role).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *UserRepository) Count() (int64, error) {
	var c int64
	err := r.db.Model(&models.User{}).Count(&c).Error
	return c, err
}

// Follows

func (r *UserRepository) Follow(followerID, followingID uint) error {
	f := models.Follow{FollowerID: followerID, FollowingID: followingID}
	return r.db.Where(&f).FirstOrCreate(&f).Error
}

func (r *UserRepository) Unfollow(followerID, followingID uint) error {
	return r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{}).Error
}

func (r *UserRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&c).Error
	return c > 0, err
}

func (r *UserRepository) Followers(userID uint, limit, offset int) ([]models.User, error) {
	var list []models.User
	err := r.db.Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *UserRepository) Following(userID uint, limit, offset int) ([]models.User, error) {
	var list []models.User
	err := r.db.Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// FollowingIDs returns the ids of everyone the user follows, used to
// assemble the following feed tab.
func (r *UserRepository) FollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, err
}

func (r *UserRepository) CountFollowers(userID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&c).Error
	return c, err
}

func (r *UserRepository) CountFollowing(userID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&c).Error
	return c, err
}

// Account details

func (r *UserRepository) GetAccountDetail(userID uint) (*models.AccountDetail, error) {
	var a models.AccountDetail
	err := r.db.Where("user_id = ?", userID).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *UserRepository) SaveAccountDetail(a *models.AccountDetail) error {
	var existing models.AccountDetail
	err := r.db.Where("user_id = ?", a.UserID).First(&existing).Error
	if err == nil {
		a.ID = existing.ID
		a.CreatedAt = existing.CreatedAt
	}
	return r.db.Save(a).Error
}

// Verification

func (r *UserRepository) GetVerification(userID uint) (*models.Verification, error) {
	var v models.Verification
	err := r.db.Where("user_id = ?", userID).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *UserRepository) SaveVerification(v *models.Verification) error {
	var existing models.Verification
	err := r.db.Where("user_id = ?", v.UserID).First(&existing).Error
	if err == nil {
		v.ID = existing.ID
		v.CreatedAt = existing.CreatedAt
	}
	return r.db.Save(v).Error
}

// ListPendingLicenses returns submitted but unreviewed author licenses.
func (r *UserRepository) ListPendingLicenses(limit, offset int) ([]models.Verification, error) {
	var list []models.Verification
	err := r.db.Where("verified = ? AND license_number != ''", false).
		Order("submitted_at ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// Validation tokens

func (r *UserRepository) CreateValidation(v *models.Validation) error {
	// one live token per user and purpose
	r.db.Where("user_id = ? AND purpose = ?", v.UserID, v.Purpose).Delete(&models.Validation{})
	return r.db.Create(v).Error
}

func (r *UserRepository) GetValidationByToken(token string) (*models.Validation, error) {
	var v models.Validation
	err := r.db.Where("token = ?", token).First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *UserRepository) DeleteValidation(id uint) error {
	return r.db.Delete(&models.Validation{}, id).Error
}

func (r *UserRepository) DeleteExpiredValidations(now time.Time) error {
	return r.db.Where("token_expiry < ?", now).Delete(&models.Validation{}).Error
}

// Membership

func (r *UserRepository) GetMembership(userID uint) (*models.Membership, error) {
	var m models.Membership
	err := r.db.Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *UserRepository) SaveMembership(m *models.Membership) error {
	var existing models.Membership
	err := r.db.Where("user_id = ?", m.UserID).First(&existing).Error
	if err == nil {
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
	}
	return r.db.Save(m).Error
}

func (r *UserRepository) DeleteMembership(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Membership{}).Error
}
