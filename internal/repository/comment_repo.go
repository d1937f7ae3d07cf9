package repository

import (
	"github.com/kawojue/phrednetwork/internal/models"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(c *models.Comment) error {
	return r.db.Create(c).Error
}

func (r *CommentRepository) GetByID(id uint) (*models.Comment, error) {
	var c models.Comment
	err := r.db.Preload("User").First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) ListByArticle(articleID uint, limit, offset int) ([]models.Comment, error) {
	var list []models.Comment
	err := r.db.Where("article_id = ?", articleID).
		Preload("User").Preload("Replies").Preload("Replies.User").Preload("Likes").
		Order("commented_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// Delete removes a comment with its replies and likes.
func (r *CommentRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
}

func (r *CommentRepository) CountByArticle(articleID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Comment{}).Where("article_id = ?", articleID).Count(&c).Error
	return c, err
}

// Replies

func (r *CommentRepository) CreateReply(reply *models.Reply) error {
	return r.db.Create(reply).Error
}

func (r *CommentRepository) GetReplyByID(id uint) (*models.Reply, error) {
	var rep models.Reply
	err := r.db.Preload("User").First(&rep, id).Error
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *CommentRepository) DeleteReply(id uint) error {
	return r.db.Delete(&models.Reply{}, id).Error
}

// Likes

// ToggleArticleLike flips the like for an article and reports whether it
// is now liked.
func (r *CommentRepository) ToggleArticleLike(userID, articleID uint) (bool, error) {
	var like models.Like
	err := r.db.Where("user_id = ? AND article_id = ?", userID, articleID).First(&like).Error
	if err == nil {
		return false, r.db.Delete(&like).Error
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	return true, r.db.Create(&models.Like{UserID: userID, ArticleID: &articleID}).Error
}

// ToggleCommentLike flips the like for a comment and reports whether it
// is now liked.
func (r *CommentRepository) ToggleCommentLike(userID, commentID uint) (bool, error) {
	var like models.Like
	err := r.db.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&like).Error
	if err == nil {
		return false, r.db.Delete(&like).Error
	}
	if err != gorm.ErrRecordNotFound {
		return false, err
	}
	return true, r.db.Create(&models.Like{UserID: userID, CommentID: &commentID}).Error
}

func (r *CommentRepository) CountArticleLikes(articleID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Like{}).Where("article_id = ?", articleID).Count(&c).Error
	return c, err
}

func (r *CommentRepository) HasLikedArticle(userID, articleID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.Like{}).Where("user_id = ? AND article_id = ?", userID, articleID).Count(&c).Error
	return c > 0, err
}

// Bookmarks

func (r *CommentRepository) CountBookmarks(userID uint) (int64, error) {
	var c int64
	err := r.db.Model(&models.Bookmark{}).Where("user_id = ?", userID).Count(&c).Error
	return c, err
}

func (r *CommentRepository) AddBookmark(b *models.Bookmark) error {
	return r.db.Where("user_id = ? AND article_id = ?", b.UserID, b.ArticleID).FirstOrCreate(b).Error
}

func (r *CommentRepository) RemoveBookmark(userID, articleID uint) error {
	return r.db.Where("user_id = ? AND article_id = ?", userID, articleID).Delete(&models.Bookmark{}).Error
}

func (r *CommentRepository) ListBookmarks(userID uint) ([]models.Bookmark, error) {
	var list []models.Bookmark
	err := r.db.Where("user_id = ?", userID).
		Preload("Article").Preload("Article.Author").
		Order("bookmarked_at DESC").Find(&list).Error
	return list, err
}

func (r *CommentRepository) HasBookmarked(userID, articleID uint) (bool, error) {
	var c int64
	err := r.db.Model(&models.Bookmark{}).Where("user_id = ? AND article_id = ?", userID, articleID).Count(&c).Error
	return c > 0, err
}
