package repository

import (
	"errors"
	"time"

	"github.com/kawojue/phrednetwork/internal/models"

	"gorm.io/gorm"
)

var ErrInsufficientBalance = errors.New("insufficient wallet balance")

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	w = &models.Wallet{UserID: userID, Balance: 0}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WalletRepository) Save(w *models.Wallet) error {
	return r.db.Save(w).Error
}

// Credit adds to the balance and writes the matching ledger row in one
// transaction.
func (r *WalletRepository) Credit(userID uint, amount float64, entry *models.TxHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var w models.Wallet
		if err := tx.Where("user_id = ?", userID).First(&w).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			w = models.Wallet{UserID: userID}
			if err := tx.Create(&w).Error; err != nil {
				return err
			}
		}
		w.Balance += amount
		if err := tx.Model(&w).Update("balance", w.Balance).Error; err != nil {
			return err
		}
		if entry != nil {
			entry.WalletID = w.ID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Debit subtracts from the balance and writes the matching ledger row in
// one transaction. Fails with ErrInsufficientBalance before touching
// anything if the balance cannot cover the amount.
func (r *WalletRepository) Debit(userID uint, amount float64, entry *models.TxHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var w models.Wallet
		if err := tx.Where("user_id = ?", userID).First(&w).Error; err != nil {
			return err
		}
		if w.Balance < amount {
			return ErrInsufficientBalance
		}
		w.Balance -= amount
		if err := tx.Model(&w).Update("balance", w.Balance).Error; err != nil {
			return err
		}
		if entry != nil {
			entry.WalletID = w.ID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// HoldForWithdrawal moves the requested amount out of the spendable
// balance and marks the wallet as awaiting approval.
func (r *WalletRepository) HoldForWithdrawal(userID uint, amount float64, entry *models.TxHistory) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var w models.Wallet
		if err := tx.Where("user_id = ?", userID).First(&w).Error; err != nil {
			return err
		}
		if w.Balance < amount {
			return ErrInsufficientBalance
		}
		now := time.Now()
		updates := map[string]interface{}{
			"balance":               w.Balance - amount,
			"amount_to_withdraw":    w.AmountToWithdraw + amount,
			"requesting_withdrawal": true,
			"last_requested_at":     now,
		}
		if err := tx.Model(&w).Updates(updates).Error; err != nil {
			return err
		}
		if entry != nil {
			entry.WalletID = w.ID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReleaseHold settles a held withdrawal: the held amount is cleared and
// the wallet leaves the requesting state. amountSent is what actually
// left via the gateway, amountApproved the gross amount the user asked
// for. The ledger row is updated by the caller.
func (r *WalletRepository) ReleaseHold(userID uint, amountSent, amountApproved float64) error {
	now := time.Now()
	return r.db.Model(&models.Wallet{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"amount_to_withdraw":    0,
		"requesting_withdrawal": false,
		"last_approved_at":      now,
		"last_amount_sent":      amountSent,
		"last_amount_approved":  amountApproved,
	}).Error
}

// RefundHold returns a held amount to the spendable balance, used when a
// transfer fails or is reversed.
func (r *WalletRepository) RefundHold(userID uint, amount float64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var w models.Wallet
		if err := tx.Where("user_id = ?", userID).First(&w).Error; err != nil {
			return err
		}
		return tx.Model(&w).Updates(map[string]interface{}{
			"balance":               w.Balance + amount,
			"amount_to_withdraw":    0,
			"requesting_withdrawal": false,
		}).Error
	})
}

func (r *WalletRepository) CreateTx(entry *models.TxHistory) error {
	return r.db.Create(entry).Error
}

func (r *WalletRepository) GetTxByReference(reference string) (*models.TxHistory, error) {
	var t models.TxHistory
	err := r.db.Where("reference = ?", reference).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTxByExternalRef looks a deposit up by the gateway checkout
// reference, which is the idempotency key for wallet funding.
func (r *WalletRepository) GetTxByExternalRef(externalRef string) (*models.TxHistory, error) {
	var t models.TxHistory
	err := r.db.Where("external_ref = ?", externalRef).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// PendingWithdrawalTx finds the open withdrawal row written when the
// hold was taken.
func (r *WalletRepository) PendingWithdrawalTx(walletID uint) (*models.TxHistory, error) {
	var t models.TxHistory
	err := r.db.Where("wallet_id = ? AND type = ? AND status = ?", walletID, "WITHDRAWAL", "PENDING").
		Order("created_at DESC").First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *WalletRepository) UpdateTx(entry *models.TxHistory) error {
	return r.db.Save(entry).Error
}

func (r *WalletRepository) ListHistory(walletID uint, limit, offset int) ([]models.TxHistory, error) {
	var list []models.TxHistory
	err := r.db.Where("wallet_id = ?", walletID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// ListPendingWithdrawals returns wallets awaiting admin approval, with
// the owning user preloaded for the review queue.
func (r *WalletRepository) ListPendingWithdrawals() ([]models.Wallet, error) {
	var list []models.Wallet
	err := r.db.Where("requesting_withdrawal = ?", true).Preload("User").Order("last_requested_at ASC").Find(&list).Error
	return list, err
}

// SumBalances is used by the admin analytics dashboard.
func (r *WalletRepository) SumBalances() (float64, error) {
	var total float64
	err := r.db.Model(&models.Wallet{}).Select("COALESCE(SUM(balance), 0)").Scan(&total).Error
	return total, err
}

func (r *WalletRepository) CountTxByStatus(status string) (int64, error) {
	var c int64
	err := r.db.Model(&models.TxHistory{}).Where("status = ?", status).Count(&c).Error
	return c, err
}

// SumTxAmount totals ledger amounts for a type and status, e.g. settled
// withdrawals for the analytics view.
func (r *WalletRepository) SumTxAmount(txType, status string) (float64, error) {
	var total float64
	err := r.db.Model(&models.TxHistory{}).
		Where("type = ? AND status = ?", txType, status).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}
