package models

import (
	"time"

	"gorm.io/gorm"
)

// Advert is sponsored content attached to article reads. It stays
// pending until an admin approves it; rejection deletes the record and
// refunds the poster's wallet.
type Advert struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PostedByID      uint           `gorm:"not null;index" json:"posted_by_id"`
	ProductName     string         `gorm:"size:128;not null" json:"product_name"`
	Description     string         `gorm:"size:1024" json:"description"`
	ActionLink      string         `gorm:"size:512" json:"action_link"`
	KeywordsText    string         `gorm:"size:512" json:"keywords_text"`
	ProductImageURL string         `gorm:"size:512" json:"product_image_url"`
	ProductImageID  string         `gorm:"size:255" json:"-"`
	AmountPaid      float64        `json:"amount_paid"`
	Engagement      int64          `gorm:"not null;default:0" json:"engagement"`
	PendingApproval bool           `gorm:"default:true;index" json:"pending_approval"`
	AdvertExpiry    time.Time      `gorm:"not null;index" json:"advert_expiry"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	PostedBy User `gorm:"foreignKey:PostedByID" json:"-"`
}

func (Advert) TableName() string { return "adverts" }

func (a *Advert) Eligible(now time.Time) bool {
	return !a.PendingApproval && !now.After(a.AdvertExpiry)
}
