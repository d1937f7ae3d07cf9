package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/kawojue/phrednetwork/internal/billing"
	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/pkg/paystack"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBelowMinimum        = errors.New("amount below withdrawal minimum")
	ErrNoAccountDetail     = errors.New("no bank account on file")
	ErrWithdrawalInFlight  = errors.New("a withdrawal request is already pending")
	ErrNoPendingWithdrawal = errors.New("no pending withdrawal request")
	ErrAlreadyFunded       = errors.New("reference already settled")
	ErrPaymentNotSettled   = errors.New("payment not settled at gateway")
)

// WalletStore is the slice of the wallet repository the ledger needs.
type WalletStore interface {
	GetOrCreate(userID uint) (*models.Wallet, error)
	GetByUserID(userID uint) (*models.Wallet, error)
	Credit(userID uint, amount float64, entry *models.TxHistory) error
	Debit(userID uint, amount float64, entry *models.TxHistory) error
	HoldForWithdrawal(userID uint, amount float64, entry *models.TxHistory) error
	ReleaseHold(userID uint, amountSent, amountApproved float64) error
	RefundHold(userID uint, amount float64) error
	GetTxByReference(reference string) (*models.TxHistory, error)
	GetTxByExternalRef(externalRef string) (*models.TxHistory, error)
	PendingWithdrawalTx(walletID uint) (*models.TxHistory, error)
	UpdateTx(entry *models.TxHistory) error
}

// AccountStore resolves a user's linked payout account.
type AccountStore interface {
	GetAccountDetail(userID uint) (*models.AccountDetail, error)
}

// TransferGateway is the slice of the Paystack client the ledger needs.
type TransferGateway interface {
	CreateRecipient(ctx context.Context, req paystack.RecipientRequest) (*paystack.Recipient, error)
	InitiateTransfer(ctx context.Context, req paystack.TransferRequest) (*paystack.Transfer, error)
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
}

// LedgerService owns every balance mutation. All money moves through
// here so the ledger rows and wallet balances never drift apart.
type LedgerService struct {
	wallets  WalletStore
	accounts AccountStore
	gateway  TransferGateway
	notifier *Notifier
}

func NewLedgerService(wallets WalletStore, accounts AccountStore, gateway TransferGateway, notifier *Notifier) *LedgerService {
	return &LedgerService{wallets: wallets, accounts: accounts, gateway: gateway, notifier: notifier}
}

// Reference builds a ledger reference of the form
// {purpose}-{ownerID}-{code}. The purpose prefix survives into webhook
// payloads, which is how reconciliation recognizes its own transfers.
func Reference(purpose string, ownerID uint) string {
	code := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s-%d-%s", purpose, ownerID, code)
}

// RequestWithdrawal holds the requested amount out of the spendable
// balance and opens a PENDING withdrawal ledger row for admin review.
// Fees are computed now and locked into the row.
func (s *LedgerService) RequestWithdrawal(userID uint, amount float64) (*models.TxHistory, error) {
	if amount < domain.MinWithdrawal {
		return nil, ErrBelowMinimum
	}
	if _, err := s.accounts.GetAccountDetail(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoAccountDetail
		}
		return nil, err
	}
	w, err := s.wallets.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if w.RequestingWithdrawal {
		return nil, ErrWithdrawalInFlight
	}

	fee := billing.WithdrawalFee(amount)
	entry := &models.TxHistory{
		Amount:        amount,
		Type:          domain.TxWithdrawal,
		Source:        domain.TxSourceWallet,
		Status:        domain.TxPending,
		Reference:     Reference("withdrawal", userID),
		ProcessingFee: fee.ProcessingFee,
		PaystackFee:   fee.GatewayFee,
		TotalFee:      fee.TotalFee,
	}
	if err := s.wallets.HoldForWithdrawal(userID, amount, entry); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.WithdrawalRequested(userID, amount)
	}
	return entry, nil
}

// ApproveWithdrawal sends the held amount, less fees, to the user's
// linked bank account. The ledger row stays PENDING until the transfer
// webhook settles it.
func (s *LedgerService) ApproveWithdrawal(ctx context.Context, userID uint) (*models.TxHistory, error) {
	w, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if !w.RequestingWithdrawal || w.AmountToWithdraw <= 0 {
		return nil, ErrNoPendingWithdrawal
	}
	acct, err := s.accounts.GetAccountDetail(userID)
	if err != nil {
		// the user gets told to link an account; the admin just sees
		// that nothing was sent
		if s.notifier != nil {
			s.notifier.AccountDetailNeeded(userID)
		}
		return nil, ErrNoAccountDetail
	}

	amount := w.AmountToWithdraw
	fee := billing.WithdrawalFee(amount)
	payout := amount - fee.TotalFee
	reference := Reference("withdrawal", userID)
	entry, findErr := s.wallets.PendingWithdrawalTx(w.ID)
	if findErr == nil && entry != nil {
		// reuse the reference opened at request time so the webhook
		// settles the same row
		reference = entry.Reference
	}

	recipient, err := s.gateway.CreateRecipient(ctx, paystack.RecipientRequest{
		Type:          "nuban",
		Currency:      "NGN",
		Name:          acct.AccountName,
		BankCode:      acct.BankCode,
		AccountNumber: acct.AccountNumber,
	})
	if err != nil {
		return nil, err
	}
	transfer, err := s.gateway.InitiateTransfer(ctx, paystack.TransferRequest{
		Source:    "balance",
		Amount:    payout * 100,
		Reason:    "Wallet withdrawal",
		Recipient: recipient.RecipientCode,
		Reference: reference,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[Ledger] transfer initiated user=%d amount=%.2f status=%s", userID, payout, transfer.Status)

	if err := s.wallets.ReleaseHold(userID, payout, amount); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.WithdrawalApproved(userID, payout)
	}
	if entry != nil {
		return entry, nil
	}
	return &models.TxHistory{Reference: reference, Amount: amount, Status: domain.TxPending}, nil
}

// ReconcileTransferEvent settles a withdrawal ledger row from a Paystack
// transfer webhook. Unknown references and rows already settled are
// no-ops, which makes redelivery safe. amountKobo is the gateway amount
// in minor units.
func (s *LedgerService) ReconcileTransferEvent(event, reference string, amountKobo float64) error {
	entry, err := s.wallets.GetTxByReference(reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if entry.Status != domain.TxPending {
		return nil
	}

	switch event {
	case "transfer.success":
		entry.Status = domain.TxSuccess
		if err := s.wallets.UpdateTx(entry); err != nil {
			return err
		}
		if s.notifier != nil {
			s.notifier.WithdrawalSettled(s.txOwner(entry), entry.Amount)
		}
	case "transfer.failed", "transfer.reversed":
		if event == "transfer.failed" {
			entry.Status = domain.TxFailed
		} else {
			entry.Status = domain.TxReversed
		}
		if err := s.wallets.UpdateTx(entry); err != nil {
			return err
		}
		// the gateway reports the net amount sent; the fees were
		// deducted from the user so both come back
		refund := amountKobo/100 + entry.TotalFee
		ownerID := s.txOwner(entry)
		if err := s.wallets.Credit(ownerID, refund, nil); err != nil {
			return err
		}
		if s.notifier != nil {
			s.notifier.WithdrawalReturned(ownerID, refund)
		}
	default:
		log.Printf("[Ledger] ignoring transfer event %q ref=%s", event, reference)
	}
	return nil
}

// txOwner maps a ledger row back to its user through the wallet. Ledger
// references embed the owner id, so parse it from there.
func (s *LedgerService) txOwner(entry *models.TxHistory) uint {
	parts := strings.Split(entry.Reference, "-")
	if len(parts) >= 2 {
		var id uint
		if _, err := fmt.Sscanf(parts[1], "%d", &id); err == nil {
			return id
		}
	}
	return 0
}

// FundWallet verifies a checkout reference at the gateway and credits
// the wallet once. The ledger row gets a fresh internal reference; the
// checkout reference lands in its own column and is what makes a second
// verification return ErrAlreadyFunded without touching the balance.
func (s *LedgerService) FundWallet(ctx context.Context, userID uint, externalRef string) (*models.TxHistory, error) {
	if existing, err := s.wallets.GetTxByExternalRef(externalRef); err == nil && existing != nil {
		return nil, ErrAlreadyFunded
	}
	txn, err := s.gateway.VerifyTransaction(ctx, externalRef)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(txn.Status, "success") {
		return nil, ErrPaymentNotSettled
	}
	amount := txn.Amount / 100
	entry := &models.TxHistory{
		Amount:            amount,
		Type:              domain.TxDeposit,
		Source:            domain.TxSourceExternal,
		Status:            domain.TxSuccess,
		Reference:         Reference("deposit", userID),
		ExternalRef:       externalRef,
		Channel:           txn.Authorization.Channel,
		AuthorizationCode: txn.Authorization.AuthorizationCode,
	}
	if err := s.wallets.Credit(userID, amount, entry); err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.WalletFunded(userID, amount)
	}
	return entry, nil
}

// PurchaseResource debits the wallet for an in-platform purchase such as
// a boost, an advert or a membership, writing the RESOURCE ledger row
// atomically with the debit.
func (s *LedgerService) PurchaseResource(userID uint, amount float64, purpose string) (*models.TxHistory, error) {
	entry := &models.TxHistory{
		Amount:    amount,
		Type:      domain.TxResource,
		Source:    domain.TxSourceWallet,
		Status:    domain.TxSuccess,
		Reference: Reference(purpose, userID),
	}
	if err := s.wallets.Debit(userID, amount, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CreditEarning pays platform earnings such as view milestones into the
// author's wallet with a DEPOSIT ledger row.
func (s *LedgerService) CreditEarning(userID uint, amount float64, purpose string) error {
	entry := &models.TxHistory{
		Amount:    amount,
		Type:      domain.TxDeposit,
		Source:    domain.TxSourceWallet,
		Status:    domain.TxSuccess,
		Reference: Reference(purpose, userID),
	}
	return s.wallets.Credit(userID, amount, entry)
}
