package service

import (
	"context"
	"testing"

	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/pkg/paystack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeWalletStore keeps balances and ledger rows in memory.
type fakeWalletStore struct {
	wallets map[uint]*models.Wallet
	txs     map[string]*models.TxHistory
	nextTx  uint
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{wallets: map[uint]*models.Wallet{}, txs: map[string]*models.TxHistory{}}
}

func (f *fakeWalletStore) GetOrCreate(userID uint) (*models.Wallet, error) {
	if w, ok := f.wallets[userID]; ok {
		return w, nil
	}
	w := &models.Wallet{ID: userID, UserID: userID}
	f.wallets[userID] = w
	return w, nil
}

func (f *fakeWalletStore) GetByUserID(userID uint) (*models.Wallet, error) {
	w, ok := f.wallets[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return w, nil
}

func (f *fakeWalletStore) record(walletID uint, entry *models.TxHistory) {
	if entry == nil {
		return
	}
	f.nextTx++
	entry.ID = f.nextTx
	entry.WalletID = walletID
	f.txs[entry.Reference] = entry
}

func (f *fakeWalletStore) Credit(userID uint, amount float64, entry *models.TxHistory) error {
	w, _ := f.GetOrCreate(userID)
	w.Balance += amount
	f.record(w.ID, entry)
	return nil
}

func (f *fakeWalletStore) Debit(userID uint, amount float64, entry *models.TxHistory) error {
	w, err := f.GetByUserID(userID)
	if err != nil {
		return err
	}
	if w.Balance < amount {
		return repository.ErrInsufficientBalance
	}
	w.Balance -= amount
	f.record(w.ID, entry)
	return nil
}

func (f *fakeWalletStore) HoldForWithdrawal(userID uint, amount float64, entry *models.TxHistory) error {
	w, err := f.GetByUserID(userID)
	if err != nil {
		return err
	}
	if w.Balance < amount {
		return repository.ErrInsufficientBalance
	}
	w.Balance -= amount
	w.AmountToWithdraw += amount
	w.RequestingWithdrawal = true
	f.record(w.ID, entry)
	return nil
}

func (f *fakeWalletStore) ReleaseHold(userID uint, amountSent, amountApproved float64) error {
	w, err := f.GetByUserID(userID)
	if err != nil {
		return err
	}
	w.AmountToWithdraw = 0
	w.RequestingWithdrawal = false
	w.LastAmountSent = amountSent
	w.LastAmountApproved = amountApproved
	return nil
}

func (f *fakeWalletStore) RefundHold(userID uint, amount float64) error {
	w, err := f.GetByUserID(userID)
	if err != nil {
		return err
	}
	w.Balance += amount
	w.AmountToWithdraw = 0
	w.RequestingWithdrawal = false
	return nil
}

func (f *fakeWalletStore) GetTxByReference(reference string) (*models.TxHistory, error) {
	t, ok := f.txs[reference]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeWalletStore) GetTxByExternalRef(externalRef string) (*models.TxHistory, error) {
	for _, t := range f.txs {
		if t.ExternalRef == externalRef {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWalletStore) PendingWithdrawalTx(walletID uint) (*models.TxHistory, error) {
	for _, t := range f.txs {
		if t.WalletID == walletID && t.Type == domain.TxWithdrawal && t.Status == domain.TxPending {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWalletStore) UpdateTx(entry *models.TxHistory) error {
	f.txs[entry.Reference] = entry
	return nil
}

type fakeAccounts struct {
	accounts map[uint]*models.AccountDetail
}

func (f *fakeAccounts) GetAccountDetail(userID uint) (*models.AccountDetail, error) {
	a, ok := f.accounts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

type fakeGateway struct {
	transfers    []paystack.TransferRequest
	verification *paystack.Transaction
	verifyErr    error
}

func (f *fakeGateway) CreateRecipient(ctx context.Context, req paystack.RecipientRequest) (*paystack.Recipient, error) {
	return &paystack.Recipient{RecipientCode: "RCP_test"}, nil
}

func (f *fakeGateway) InitiateTransfer(ctx context.Context, req paystack.TransferRequest) (*paystack.Transfer, error) {
	f.transfers = append(f.transfers, req)
	return &paystack.Transfer{Status: "pending", Amount: req.Amount, Reference: req.Reference}, nil
}

func (f *fakeGateway) VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verification, nil
}

func newLedger(wallets *fakeWalletStore, accounts *fakeAccounts, gateway *fakeGateway) *LedgerService {
	if accounts == nil {
		accounts = &fakeAccounts{accounts: map[uint]*models.AccountDetail{}}
	}
	if gateway == nil {
		gateway = &fakeGateway{}
	}
	return NewLedgerService(wallets, accounts, gateway, nil)
}

func TestRequestWithdrawalHoldsBalanceAndOpensPendingRow(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 6000}
	accounts := &fakeAccounts{accounts: map[uint]*models.AccountDetail{
		1: {UserID: 1, AccountName: "Ada O", AccountNumber: "0123456789", BankCode: "058"},
	}}
	svc := newLedger(wallets, accounts, nil)

	entry, err := svc.RequestWithdrawal(1, 6000)
	require.NoError(t, err)

	assert.Equal(t, domain.TxPending, entry.Status)
	assert.Equal(t, domain.TxWithdrawal, entry.Type)
	assert.Equal(t, 50.0, entry.ProcessingFee)
	assert.Equal(t, 10.0, entry.PaystackFee)
	assert.Equal(t, 60.0, entry.TotalFee)

	w := wallets.wallets[1]
	assert.Equal(t, 0.0, w.Balance)
	assert.Equal(t, 6000.0, w.AmountToWithdraw)
	assert.True(t, w.RequestingWithdrawal)
}

func TestRequestWithdrawalBelowMinimum(t *testing.T) {
	svc := newLedger(newFakeWalletStore(), nil, nil)
	_, err := svc.RequestWithdrawal(1, 49.99)
	assert.ErrorIs(t, err, ErrBelowMinimum)
}

func TestRequestWithdrawalNeedsAccountDetail(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 500}
	svc := newLedger(wallets, nil, nil)

	_, err := svc.RequestWithdrawal(1, 100)
	assert.ErrorIs(t, err, ErrNoAccountDetail)
}

func TestRequestWithdrawalRejectsSecondRequest(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 1000}
	accounts := &fakeAccounts{accounts: map[uint]*models.AccountDetail{1: {UserID: 1}}}
	svc := newLedger(wallets, accounts, nil)

	_, err := svc.RequestWithdrawal(1, 200)
	require.NoError(t, err)
	_, err = svc.RequestWithdrawal(1, 200)
	assert.ErrorIs(t, err, ErrWithdrawalInFlight)
}

func TestApproveWithdrawalTransfersNetOfFees(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 10000}
	accounts := &fakeAccounts{accounts: map[uint]*models.AccountDetail{
		1: {UserID: 1, AccountName: "Ada O", AccountNumber: "0123456789", BankCode: "058"},
	}}
	gateway := &fakeGateway{}
	svc := newLedger(wallets, accounts, gateway)

	requested, err := svc.RequestWithdrawal(1, 6000)
	require.NoError(t, err)

	entry, err := svc.ApproveWithdrawal(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, requested.Reference, entry.Reference)

	require.Len(t, gateway.transfers, 1)
	// 6000 less 60 in fees, sent in kobo
	assert.Equal(t, 594000.0, gateway.transfers[0].Amount)
	assert.Equal(t, requested.Reference, gateway.transfers[0].Reference)

	w := wallets.wallets[1]
	assert.False(t, w.RequestingWithdrawal)
	assert.Equal(t, 0.0, w.AmountToWithdraw)
	assert.Equal(t, 5940.0, w.LastAmountSent)
	assert.Equal(t, 6000.0, w.LastAmountApproved)
}

func TestApproveWithdrawalMissingAccountLeavesHoldForRetry(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, AmountToWithdraw: 500, RequestingWithdrawal: true}
	gateway := &fakeGateway{}
	svc := newLedger(wallets, nil, gateway)

	_, err := svc.ApproveWithdrawal(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoAccountDetail)
	assert.Empty(t, gateway.transfers)
	// the hold stays in place for a retry once the user links an account
	assert.True(t, wallets.wallets[1].RequestingWithdrawal)
	assert.Equal(t, 500.0, wallets.wallets[1].AmountToWithdraw)
}

func TestApproveWithdrawalWithoutRequest(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 100}
	svc := newLedger(wallets, nil, nil)

	_, err := svc.ApproveWithdrawal(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoPendingWithdrawal)
}

func TestReconcileTransferSuccessSettlesOnce(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 0}
	ref := "withdrawal-1-abc123"
	wallets.txs[ref] = &models.TxHistory{WalletID: 1, Amount: 6000, Type: domain.TxWithdrawal, Status: domain.TxPending, Reference: ref, TotalFee: 60}
	svc := newLedger(wallets, nil, nil)

	require.NoError(t, svc.ReconcileTransferEvent("transfer.success", ref, 594000))
	assert.Equal(t, domain.TxSuccess, wallets.txs[ref].Status)

	// redelivery is a no-op
	require.NoError(t, svc.ReconcileTransferEvent("transfer.success", ref, 594000))
	assert.Equal(t, 0.0, wallets.wallets[1].Balance)
}

func TestReconcileTransferReversedRefundsAmountPlusFees(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 0}
	ref := "withdrawal-1-abc123"
	wallets.txs[ref] = &models.TxHistory{WalletID: 1, Amount: 6000, Type: domain.TxWithdrawal, Status: domain.TxPending, Reference: ref, TotalFee: 60}
	svc := newLedger(wallets, nil, nil)

	require.NoError(t, svc.ReconcileTransferEvent("transfer.reversed", ref, 594000))
	assert.Equal(t, domain.TxReversed, wallets.txs[ref].Status)
	assert.Equal(t, 6000.0, wallets.wallets[1].Balance)

	// a second delivery must not refund again
	require.NoError(t, svc.ReconcileTransferEvent("transfer.reversed", ref, 594000))
	assert.Equal(t, 6000.0, wallets.wallets[1].Balance)
}

func TestReconcileUnknownReferenceIsNoop(t *testing.T) {
	svc := newLedger(newFakeWalletStore(), nil, nil)
	assert.NoError(t, svc.ReconcileTransferEvent("transfer.success", "withdrawal-9-nope", 1000))
}

func TestFundWalletCreditsOnce(t *testing.T) {
	wallets := newFakeWalletStore()
	gateway := &fakeGateway{verification: &paystack.Transaction{
		Status:    "success",
		Amount:    250000,
		Reference: "fund-1-xyz",
		Authorization: paystack.Authorization{
			AuthorizationCode: "AUTH_x",
			Channel:           "card",
		},
	}}
	svc := newLedger(wallets, nil, gateway)

	entry, err := svc.FundWallet(context.Background(), 1, "fund-1-xyz")
	require.NoError(t, err)
	assert.Equal(t, 2500.0, entry.Amount)
	assert.Equal(t, domain.TxDeposit, entry.Type)
	assert.Equal(t, "card", entry.Channel)
	assert.Equal(t, 2500.0, wallets.wallets[1].Balance)

	// the ledger row carries its own reference; the checkout reference
	// lives in the external column
	assert.Regexp(t, `^deposit-1-[0-9a-f]{12}$`, entry.Reference)
	assert.Equal(t, "fund-1-xyz", entry.ExternalRef)

	_, err = svc.FundWallet(context.Background(), 1, "fund-1-xyz")
	assert.ErrorIs(t, err, ErrAlreadyFunded)
	assert.Equal(t, 2500.0, wallets.wallets[1].Balance)
}

func TestFundWalletRejectsUnsettledPayment(t *testing.T) {
	gateway := &fakeGateway{verification: &paystack.Transaction{Status: "abandoned"}}
	svc := newLedger(newFakeWalletStore(), nil, gateway)

	_, err := svc.FundWallet(context.Background(), 1, "fund-1-abc")
	assert.ErrorIs(t, err, ErrPaymentNotSettled)
}

func TestPurchaseResourceFailsOnShortBalance(t *testing.T) {
	wallets := newFakeWalletStore()
	wallets.wallets[1] = &models.Wallet{ID: 1, UserID: 1, Balance: 100}
	svc := newLedger(wallets, nil, nil)

	_, err := svc.PurchaseResource(1, 500, "boosting")
	assert.Error(t, err)
	assert.Equal(t, 100.0, wallets.wallets[1].Balance)
}

func TestReferenceEmbedsPurposeAndOwner(t *testing.T) {
	ref := Reference("boosting", 42)
	assert.Regexp(t, `^boosting-42-[0-9a-f]{12}$`, ref)
	assert.NotEqual(t, ref, Reference("boosting", 42))
}
