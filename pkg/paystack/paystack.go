// Package paystack is a thin client for the parts of the Paystack API the
// platform needs: account resolution, transfer recipients, transfers,
// transaction verification and the bank list.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.paystack.co"

// APIError is a structured gateway failure. The message comes straight
// from Paystack and is surfaced to callers rather than masked.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paystack: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL   string
	secretKey string
	client    *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		BaseURL:   defaultBaseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// send performs a request and decodes the data field of the response
// envelope into out. Non-2xx responses and status=false envelopes become
// APIErrors carrying Paystack's own message.
func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("paystack: %s %s: %d %s", method, path, resp.StatusCode, string(respBody))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		code := resp.StatusCode
		if code >= 200 && code < 300 {
			code = http.StatusBadRequest
		}
		return &APIError{StatusCode: code, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

type ResolvedAccount struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// ResolveAccount confirms an account number against a bank code and
// returns the registered account name.
func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*ResolvedAccount, error) {
	path := fmt.Sprintf("/bank/resolve?account_number=%s&bank_code=%s",
		url.QueryEscape(accountNumber), url.QueryEscape(bankCode))
	var out ResolvedAccount
	if err := c.send(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type RecipientRequest struct {
	Type          string `json:"type"`
	Currency      string `json:"currency"`
	Name          string `json:"name"`
	BankCode      string `json:"bank_code"`
	AccountNumber string `json:"account_number"`
}

type Recipient struct {
	RecipientCode string `json:"recipient_code"`
}

func (c *Client) CreateRecipient(ctx context.Context, req RecipientRequest) (*Recipient, error) {
	var out Recipient
	if err := c.send(ctx, http.MethodPost, "/transferrecipient", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type TransferRequest struct {
	Source    string  `json:"source"`
	Amount    float64 `json:"amount"` // minor units (kobo)
	Reason    string  `json:"reason"`
	Recipient string  `json:"recipient"`
	Reference string  `json:"reference"`
}

type Transfer struct {
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"` // minor units (kobo)
	Reference string  `json:"reference"`
}

// InitiateTransfer starts a payout. Transfers are never retried here;
// idempotency rests on the caller-supplied reference.
func (c *Client) InitiateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	var out Transfer
	if err := c.send(ctx, http.MethodPost, "/transfer", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type Authorization struct {
	AuthorizationCode string `json:"authorization_code"`
	Channel           string `json:"channel"`
}

type Transaction struct {
	Status        string        `json:"status"`
	Amount        float64       `json:"amount"` // minor units (kobo)
	Reference     string        `json:"reference"`
	Authorization Authorization `json:"authorization"`
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	var out Transaction
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.send(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	var out []Bank
	if err := c.send(ctx, http.MethodGet, "/bank?country=nigeria&perPage=300", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BankByCode looks a bank up in the list endpoint. Returns nil when the
// code is not a supported bank.
func (c *Client) BankByCode(ctx context.Context, code string) (*Bank, error) {
	banks, err := c.ListBanks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range banks {
		if banks[i].Code == code {
			return &banks[i], nil
		}
	}
	return nil, nil
}
