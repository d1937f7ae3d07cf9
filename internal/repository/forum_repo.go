package repository

import (
	"strings"
	"time"

	"github.com/kawojue/phrednetwork/internal/models"

	"gorm.io/gorm"
)

type ForumRepository struct {
	db *gorm.DB
}

func NewForumRepository(db *gorm.DB) *ForumRepository {
	return &ForumRepository{db: db}
}

func (r *ForumRepository) Create(f *models.Forum) error {
	return r.db.Create(f).Error
}

func (r *ForumRepository) GetByID(id uint) (*models.Forum, error) {
	var f models.Forum
	err := r.db.Preload("Owner").First(&f, id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *ForumRepository) Update(f *models.Forum) error {
	return r.db.Save(f).Error
}

// Delete removes the forum and everything hanging off it.
func (r *ForumRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("forum_id = ?", id).Delete(&models.ForumMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("forum_id = ?", id).Delete(&models.ForumParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("forum_id = ?", id).Delete(&models.ForumJoinRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("forum_id = ?", id).Delete(&models.ForumReadStatus{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Forum{}, id).Error
	})
}

func (r *ForumRepository) List(limit, offset int) ([]models.Forum, error) {
	var list []models.Forum
	err := r.db.Preload("Owner").Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ForumRepository) ListByMember(userID uint) ([]models.Forum, error) {
	var list []models.Forum
	err := r.db.Joins("JOIN forum_participants ON forum_participants.forum_id = forums.id").
		Where("forum_participants.user_id = ?", userID).
		Preload("Owner").Order("forums.updated_at DESC").Find(&list).Error
	return list, err
}

func (r *ForumRepository) Search(q string, limit, offset int) ([]models.Forum, error) {
	var list []models.Forum
	like := "%" + strings.TrimSpace(q) + "%"
	err := r.db.Where("title LIKE ? OR description LIKE ? OR keywords_text LIKE ?", like, like, like).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// Participants

func (r *ForumRepository) IsParticipant(forumID, userID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.ForumParticipant{}).Where("forum_id = ? AND user_id = ?", forumID, userID).Count(&c).Error
	return c > 0, err
}

func (r *ForumRepository) AddParticipant(forumID, userID uint) error {
	p := models.ForumParticipant{ForumID: forumID, UserID: userID}
	return r.db.Where(&p).Attrs(models.ForumParticipant{JoinedAt: time.Now()}).FirstOrCreate(&p).Error
}

func (r *ForumRepository) RemoveParticipant(forumID, userID uint) error {
	return r.db.Where("forum_id = ? AND user_id = ?", forumID, userID).Delete(&models.ForumParticipant{}).Error
}

func (r *ForumRepository) ListParticipants(forumID uint) ([]models.User, error) {
	var list []models.User
	err := r.db.Joins("JOIN forum_participants ON forum_participants.user_id = users.id").
		Where("forum_participants.forum_id = ?", forumID).Find(&list).Error
	return list, err
}

func (r *ForumRepository) CountParticipants(forumID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.ForumParticipant{}).Where("forum_id = ?", forumID).Count(&c).Error
	return c, err
}

// Join requests

func (r *ForumRepository) CreateJoinRequest(forumID, userID uint) error {
	req := models.ForumJoinRequest{ForumID: forumID, UserID: userID}
	return r.db.Where(&req).Attrs(models.ForumJoinRequest{RequestedAt: time.Now()}).FirstOrCreate(&req).Error
}

func (r *ForumRepository) GetJoinRequest(forumID, userID uint) (*models.ForumJoinRequest, error) {
	var req models.ForumJoinRequest
	err := r.db.Where("forum_id = ? AND user_id = ?", forumID, userID).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ForumRepository) ListJoinRequests(forumID uint) ([]models.ForumJoinRequest, error) {
	var list []models.ForumJoinRequest
	err := r.db.Where("forum_id = ?", forumID).Preload("User").Order("requested_at ASC").Find(&list).Error
	return list, err
}

func (r *ForumRepository) DeleteJoinRequest(forumID, userID uint) error {
	return r.db.Where("forum_id = ? AND user_id = ?", forumID, userID).Delete(&models.ForumJoinRequest{}).Error
}

// Messages

func (r *ForumRepository) CreateMessage(m *models.ForumMessage) error {
	return r.db.Create(m).Error
}

func (r *ForumRepository) ListMessages(forumID uint, limit, offset int) ([]models.ForumMessage, error) {
	var list []models.ForumMessage
	err := r.db.Where("forum_id = ?", forumID).Preload("Sender").
		Order("sent_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// Read status

func (r *ForumRepository) MarkRead(forumID, userID, lastMessageID uint) error {
	var rs models.ForumReadStatus
	err := r.db.Where("forum_id = ? AND user_id = ?", forumID, userID).First(&rs).Error
	if err == gorm.ErrRecordNotFound {
		rs = models.ForumReadStatus{ForumID: forumID, UserID: userID, LastReadMessageID: lastMessageID}
		return r.db.Create(&rs).Error
	}
	if err != nil {
		return err
	}
	if lastMessageID > rs.LastReadMessageID {
		rs.LastReadMessageID = lastMessageID
	}
	return r.db.Save(&rs).Error
}

func (r *ForumRepository) UnreadCount(forumID, userID uint) (int64, error) {
	var rs models.ForumReadStatus
	lastRead := uint(0)
	if err := r.db.Where("forum_id = ? AND user_id = ?", forumID, userID).First(&rs).Error; err == nil {
		lastRead = rs.LastReadMessageID
	}
	var c int64
	err := r.db.Model(&models.ForumMessage{}).
		Where("forum_id = ? AND id > ? AND sender_id != ?", forumID, lastRead, userID).Count(&c).Error
	return c, err
}
