package handler

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/kawojue/phrednetwork/config"
	"github.com/kawojue/phrednetwork/internal/service"

	"github.com/gin-gonic/gin"
)

// TransferEvent is the slice of the Paystack webhook payload the ledger
// cares about.
type TransferEvent struct {
	Event string `json:"event"`
	Data  struct {
		Amount    float64 `json:"amount"` // minor units (kobo)
		Reference string  `json:"reference"`
		Status    string  `json:"status"`
	} `json:"data"`
}

type WebhookHandler struct {
	ledger *service.LedgerService
	cfg    *config.PaystackConfig
}

func NewWebhookHandler(ledger *service.LedgerService, cfg *config.PaystackConfig) *WebhookHandler {
	return &WebhookHandler{ledger: ledger, cfg: cfg}
}

// HandleTransfer processes Paystack transfer webhooks. Deliveries carry
// the shared secret base64-encoded in the x-webhook-pred header; bad or
// missing secrets are rejected. Unknown references and repeat
// deliveries acknowledge with 200 so the gateway stops retrying.
func (h *WebhookHandler) HandleTransfer(c *gin.Context) {
	encoded := c.GetHeader("x-webhook-pred")
	if encoded == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing webhook signature"})
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || string(decoded) != h.cfg.WebhookSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook signature"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	var event TransferEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("[Webhook] unmarshal failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if event.Data.Reference == "" {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.ledger.ReconcileTransferEvent(event.Event, event.Data.Reference, event.Data.Amount); err != nil {
		log.Printf("[Webhook] reconcile failed event=%s ref=%s: %v", event.Event, event.Data.Reference, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reconciliation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
