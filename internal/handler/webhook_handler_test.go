package handler

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kawojue/phrednetwork/config"
	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// ledgerWallets records reconciliation lookups without a database.
type ledgerWallets struct {
	byRef   map[string]*models.TxHistory
	updated []*models.TxHistory
}

func (f *ledgerWallets) GetOrCreate(userID uint) (*models.Wallet, error) { return nil, nil }
func (f *ledgerWallets) GetByUserID(userID uint) (*models.Wallet, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *ledgerWallets) Credit(userID uint, amount float64, entry *models.TxHistory) error {
	return nil
}
func (f *ledgerWallets) Debit(userID uint, amount float64, entry *models.TxHistory) error {
	return nil
}
func (f *ledgerWallets) HoldForWithdrawal(userID uint, amount float64, entry *models.TxHistory) error {
	return nil
}
func (f *ledgerWallets) ReleaseHold(userID uint, amountSent, amountApproved float64) error {
	return nil
}
func (f *ledgerWallets) RefundHold(userID uint, amount float64) error { return nil }
func (f *ledgerWallets) GetTxByReference(reference string) (*models.TxHistory, error) {
	if tx, ok := f.byRef[reference]; ok {
		return tx, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *ledgerWallets) GetTxByExternalRef(externalRef string) (*models.TxHistory, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *ledgerWallets) PendingWithdrawalTx(walletID uint) (*models.TxHistory, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *ledgerWallets) UpdateTx(entry *models.TxHistory) error {
	f.updated = append(f.updated, entry)
	return nil
}

func webhookFixture(t *testing.T, secret string) (*gin.Engine, *ledgerWallets) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	wallets := &ledgerWallets{byRef: map[string]*models.TxHistory{}}
	ledger := service.NewLedgerService(wallets, nil, nil, nil)
	h := NewWebhookHandler(ledger, &config.PaystackConfig{WebhookSecret: secret})
	r := gin.New()
	r.POST("/wallet/paystack/transfer-webhook", h.HandleTransfer)
	return r, wallets
}

func deliver(r *gin.Engine, header, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/wallet/paystack/transfer-webhook", strings.NewReader(body))
	if header != "" {
		req.Header.Set("x-webhook-pred", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	r, _ := webhookFixture(t, "s3cret")
	w := deliver(r, "", `{"event":"transfer.success"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	r, _ := webhookFixture(t, "s3cret")
	bad := base64.StdEncoding.EncodeToString([]byte("not-the-secret"))
	w := deliver(r, bad, `{"event":"transfer.success"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRejectsUndecodableSignature(t *testing.T) {
	r, _ := webhookFixture(t, "s3cret")
	w := deliver(r, "%%%not-base64%%%", `{"event":"transfer.success"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookAcksEmptyReference(t *testing.T) {
	r, _ := webhookFixture(t, "s3cret")
	good := base64.StdEncoding.EncodeToString([]byte("s3cret"))
	w := deliver(r, good, `{"event":"transfer.success","data":{"reference":""}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
}

func TestWebhookAcksUnknownReference(t *testing.T) {
	r, wallets := webhookFixture(t, "s3cret")
	good := base64.StdEncoding.EncodeToString([]byte("s3cret"))
	w := deliver(r, good, `{"event":"transfer.success","data":{"reference":"withdrawal-9-abcdef012345","amount":50000}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, wallets.updated)
}

func TestWebhookSettlesPendingWithdrawal(t *testing.T) {
	r, wallets := webhookFixture(t, "s3cret")
	ref := "withdrawal-9-abcdef012345"
	wallets.byRef[ref] = &models.TxHistory{Reference: ref, Status: "PENDING", Type: "WITHDRAWAL"}
	good := base64.StdEncoding.EncodeToString([]byte("s3cret"))
	w := deliver(r, good, `{"event":"transfer.success","data":{"reference":"`+ref+`","amount":50000,"status":"success"}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	if assert.Len(t, wallets.updated, 1) {
		assert.Equal(t, "SUCCESS", wallets.updated[0].Status)
	}
}

func TestWebhookRejectsMalformedJSON(t *testing.T) {
	r, _ := webhookFixture(t, "s3cret")
	good := base64.StdEncoding.EncodeToString([]byte("s3cret"))
	w := deliver(r, good, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
