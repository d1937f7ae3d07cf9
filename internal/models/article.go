package models

import (
	"time"

	"gorm.io/gorm"
)

type Article struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	AuthorID        uint           `gorm:"not null;index" json:"author_id"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Content         string         `gorm:"type:longtext" json:"content"`
	CategoriesText  string         `gorm:"size:512" json:"categories_text"`
	ReadingTime     string         `gorm:"size:20" json:"reading_time"`
	Views           int64          `gorm:"not null;default:0" json:"views"`
	PendingApproval bool           `gorm:"default:true;index" json:"pending_approval"`
	CoverPhotoURL   string         `gorm:"size:512" json:"cover_photo_url"`
	CoverPhotoID    string         `gorm:"size:255" json:"-"`
	PublishedAt     time.Time      `gorm:"index" json:"published_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Author   User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Boosting *Boosting `gorm:"foreignKey:ArticleID" json:"boosting,omitempty"`
}

func (Article) TableName() string { return "articles" }

// Boosting is the at-most-one ranking-weight record for an article.
// Repurchase while active accumulates points and replaces the expiry;
// repurchase after expiry resets the record.
type Boosting struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ArticleID      uint      `gorm:"uniqueIndex;not null" json:"article_id"`
	BoostingPoint  int       `gorm:"not null" json:"boosting_point"`
	AmountPaid     float64   `json:"amount_paid"`
	BoostedAt      time.Time `gorm:"not null" json:"boosted_at"`
	BoostingExpiry time.Time `gorm:"not null;index" json:"boosting_expiry"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Boosting) TableName() string { return "boostings" }

func (b *Boosting) Active(now time.Time) bool { return !now.After(b.BoostingExpiry) }

type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ArticleID   uint      `gorm:"not null;index" json:"article_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Content     string    `gorm:"size:1024;not null" json:"content"`
	CommentedAt time.Time `json:"commented_at"`
	CreatedAt   time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []Reply `gorm:"foreignKey:CommentID" json:"replies,omitempty"`
	Likes   []Like  `gorm:"foreignKey:CommentID" json:"likes,omitempty"`
}

func (Comment) TableName() string { return "comments" }

type Reply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;index" json:"comment_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"size:1024;not null" json:"content"`
	RepliedAt time.Time `json:"replied_at"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Reply) TableName() string { return "replies" }

// Like targets either an article or a comment; exactly one of the two
// foreign keys is set.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_like_article,unique;index:idx_like_comment,unique" json:"user_id"`
	ArticleID *uint     `gorm:"index:idx_like_article,unique" json:"article_id"`
	CommentID *uint     `gorm:"index:idx_like_comment,unique" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string { return "likes" }

type Bookmark struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index:idx_bookmark_pair,unique" json:"user_id"`
	ArticleID    uint      `gorm:"not null;index:idx_bookmark_pair,unique;index" json:"article_id"`
	BookmarkedAt time.Time `json:"bookmarked_at"`
	CreatedAt    time.Time `json:"created_at"`

	Article Article `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
}

func (Bookmark) TableName() string { return "bookmarks" }

// Category is the admin-curated list article categories are validated against.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Text string `gorm:"uniqueIndex;size:64;not null" json:"text"`
}

func (Category) TableName() string { return "categories" }
