package models

import (
	"time"

	"github.com/kawojue/phrednetwork/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	Email        string            `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username     string            `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Fullname     string            `gorm:"size:128;not null" json:"fullname"`
	PasswordHash string            `gorm:"size:255" json:"-"`
	Role         domain.Role       `gorm:"size:20;not null;index;default:'user'" json:"role"`
	Status       domain.UserStatus `gorm:"size:20;not null;default:'Active'" json:"status"`
	Bio          string            `gorm:"size:512" json:"bio"`
	AvatarURL    string            `gorm:"size:512" json:"avatar_url"`
	AvatarID     string            `gorm:"size:255" json:"-"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`

	Wallet        *Wallet        `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
	Verification  *Verification  `gorm:"foreignKey:UserID" json:"verification,omitempty"`
	AccountDetail *AccountDetail `gorm:"foreignKey:UserID" json:"account_detail,omitempty"`
	Membership    *Membership    `gorm:"foreignKey:UserID" json:"membership,omitempty"`
}

func (User) TableName() string { return "users" }

func (u *User) IsModerator() bool { return u.Role.IsModerator() }
func (u *User) IsSuspended() bool { return u.Status == domain.StatusSuspended }

// Verification tracks email confirmation and license review for an author.
type Verification struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	EmailVerified bool       `gorm:"default:false" json:"email_verified"`
	Verified      bool       `gorm:"default:false" json:"verified"`
	LicenseNumber string     `gorm:"size:64" json:"license_number"`
	Specialty     string     `gorm:"size:128" json:"specialty"`
	AttachmentURL string     `gorm:"size:512" json:"attachment_url"`
	AttachmentID  string     `gorm:"size:255" json:"-"`
	SubmittedAt   *time.Time `json:"submitted_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Verification) TableName() string { return "verifications" }

// LicenseStatus summarizes the review state for profile responses.
func (v *Verification) LicenseStatus() string {
	if v == nil {
		return "NOT VERIFIED"
	}
	if v.Verified {
		return "SUCCESS"
	}
	if v.LicenseNumber == "" || v.Specialty == "" {
		return "NOT VERIFIED"
	}
	return "PENDING"
}

// AccountDetail holds the payout bank account linked by a user.
type AccountDetail struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	AccountName   string    `gorm:"size:128;not null" json:"account_name"`
	AccountNumber string    `gorm:"size:32;not null" json:"account_number"`
	BankCode      string    `gorm:"size:16;not null" json:"bank_code"`
	BankName      string    `gorm:"size:128" json:"bank_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (AccountDetail) TableName() string { return "account_details" }

// Validation is a short-lived token for email verification or password reset.
type Validation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Token       string    `gorm:"uniqueIndex;size:128;not null" json:"-"`
	Purpose     string    `gorm:"size:16;not null" json:"purpose"` // email | password
	TokenExpiry time.Time `gorm:"not null" json:"token_expiry"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Validation) TableName() string { return "validations" }

func (v *Validation) Expired(now time.Time) bool { return now.After(v.TokenExpiry) }

// Follow links a follower to the user they follow.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;index:idx_follow_pair,unique" json:"follower_id"`
	FollowingID uint      `gorm:"not null;index:idx_follow_pair,unique;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }

// Membership grants unlimited reads and lifted publish limits while active.
type Membership struct {
	ID         uint                  `gorm:"primaryKey" json:"id"`
	UserID     uint                  `gorm:"uniqueIndex;not null" json:"user_id"`
	Tier       domain.MembershipTier `gorm:"size:20;not null" json:"tier"`
	AmountPaid float64               `gorm:"not null" json:"amount_paid"`
	MemberedAt time.Time             `gorm:"not null" json:"membered_at"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func (Membership) TableName() string { return "memberships" }

type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Description string    `gorm:"size:512" json:"description"`
	Read        bool      `gorm:"default:false;index" json:"read"`
	NotifiedAt  time.Time `gorm:"index" json:"notified_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
