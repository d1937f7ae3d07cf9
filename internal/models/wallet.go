package models

import (
	"time"
)

// Wallet holds a user's balance. Amounts are NGN with kobo precision.
// AmountToWithdraw is only nonzero while a withdrawal request is pending
// or mid-settlement; Balance never goes negative.
type Wallet struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance              float64    `gorm:"not null;default:0" json:"balance"`
	AmountToWithdraw     float64    `gorm:"not null;default:0" json:"amount_to_withdraw"`
	RequestingWithdrawal bool       `gorm:"default:false;index" json:"requesting_withdrawal"`
	LastRequestedAt      *time.Time `json:"last_requested_at"`
	LastApprovedAt       *time.Time `json:"last_approved_at"`
	LastAmountSent       float64    `json:"last_amount_sent"`
	LastAmountApproved   float64    `json:"last_amount_approved"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string { return "wallets" }

// TxHistory is an append-only ledger row. Reference correlates the row
// with an external gateway transaction; webhook reconciliation only ever
// flips Status, never re-creates a row for the same reference.
type TxHistory struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	WalletID          uint      `gorm:"not null;index" json:"wallet_id"`
	Amount            float64   `gorm:"not null" json:"amount"`
	Type              string    `gorm:"size:20;not null;index" json:"type"`   // DEPOSIT | WITHDRAWAL | RESOURCE
	Source            string    `gorm:"size:20;not null" json:"source"`       // wallet | external
	Status            string    `gorm:"size:20;not null;index" json:"status"` // SUCCESS | PENDING | FAILED | REVERSED
	Reference         string    `gorm:"uniqueIndex;size:128;not null" json:"reference"`
	ExternalRef       string    `gorm:"index;size:128" json:"external_ref,omitempty"`
	ProcessingFee     float64   `json:"processingFee"`
	PaystackFee       float64   `json:"paystackFee"`
	TotalFee          float64   `json:"totalFee"`
	Channel           string    `gorm:"size:32" json:"channel"`
	AuthorizationCode string    `gorm:"size:64" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (TxHistory) TableName() string { return "tx_histories" }
