package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kawojue/phrednetwork/internal/models"
	"github.com/kawojue/phrednetwork/internal/service"
	"github.com/kawojue/phrednetwork/pkg/paystack"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fundGateway struct {
	txn *paystack.Transaction
	err error
}

func (g *fundGateway) CreateRecipient(ctx context.Context, req paystack.RecipientRequest) (*paystack.Recipient, error) {
	return &paystack.Recipient{RecipientCode: "RCP_test"}, nil
}

func (g *fundGateway) InitiateTransfer(ctx context.Context, req paystack.TransferRequest) (*paystack.Transfer, error) {
	return &paystack.Transfer{Status: "pending"}, nil
}

func (g *fundGateway) VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.txn, nil
}

func fundFixture(t *testing.T, gateway *fundGateway) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	wallets := &ledgerWallets{byRef: map[string]*models.TxHistory{}}
	ledger := service.NewLedgerService(wallets, nil, gateway, nil)
	h := NewWalletHandler(nil, ledger, nil, nil)
	r := gin.New()
	r.POST("/me/wallet/fund", h.Fund)
	return r
}

func TestFundUnsettledPaymentIsPaymentRequired(t *testing.T) {
	r := fundFixture(t, &fundGateway{txn: &paystack.Transaction{Status: "abandoned"}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/me/wallet/fund", strings.NewReader(`{"reference":"fund-1-abc"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}
