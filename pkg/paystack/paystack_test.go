package paystack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient("sk_test_x")
	c.BaseURL = srv.URL
	return c, srv
}

func TestVerifyTransaction(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/dep-1-ab", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_x", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","amount":120000,"reference":"dep-1-ab","authorization":{"authorization_code":"AUTH_x","channel":"card"}}}`))
	})
	defer srv.Close()

	tx, err := c.VerifyTransaction(context.Background(), "dep-1-ab")
	require.NoError(t, err)
	assert.Equal(t, "success", tx.Status)
	assert.Equal(t, 120000.0, tx.Amount)
	assert.Equal(t, "card", tx.Authorization.Channel)
}

func TestInitiateTransferGatewayError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Your balance is not enough"}`))
	})
	defer srv.Close()

	_, err := c.InitiateTransfer(context.Background(), TransferRequest{Amount: 5000})
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Your balance is not enough", apiErr.Message)
}

func TestResolveAccount(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bank/resolve", r.URL.Path)
		assert.Equal(t, "0123456789", r.URL.Query().Get("account_number"))
		assert.Equal(t, "058", r.URL.Query().Get("bank_code"))
		w.Write([]byte(`{"status":true,"message":"ok","data":{"account_number":"0123456789","account_name":"ADA LOVELACE"}}`))
	})
	defer srv.Close()

	acct, err := c.ResolveAccount(context.Background(), "0123456789", "058")
	require.NoError(t, err)
	assert.Equal(t, "ADA LOVELACE", acct.AccountName)
}

func TestBankByCode(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"message":"ok","data":[{"name":"GTBank","code":"058"},{"name":"Zenith","code":"057"}]}`))
	})
	defer srv.Close()

	bank, err := c.BankByCode(context.Background(), "057")
	require.NoError(t, err)
	require.NotNil(t, bank)
	assert.Equal(t, "Zenith", bank.Name)

	missing, err := c.BankByCode(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
