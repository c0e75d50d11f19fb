package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/metrics"
	"github.com/practicelearn/course-portal/internal/usecase"
)

type provisioner interface {
	Provision(ctx context.Context, input usecase.ProvisionInput) (*domain.Account, error)
}

// Providers we accept events from, and the event each one provisions on.
const (
	providerPayment = "payment"
	providerPartner = "partner"

	eventCheckoutCompleted = "checkout.completed"
	eventOrderCreated      = "order.created"
)

// productTiers maps purchasable products onto access tiers. An unknown
// product is a malformed event, never a default tier.
var productTiers = map[string]domain.Tier{
	"online-course": domain.TierOnlineOnly,
	"full-course":   domain.TierFullCourse,
}

type WebhookHandler struct {
	provision provisioner
	secret    []byte
	logger    *slog.Logger
}

func NewWebhookHandler(provision provisioner, secret []byte, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		provision: provision,
		secret:    secret,
		logger:    logger.With("component", "webhook_handler"),
	}
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		Product    string `json:"product"`
		CustomerID string `json:"customer_id"`
		OrderID    string `json:"order_id"`
	} `json:"data"`
}

// POST /webhooks/:provider
// The signature is verified over the raw body before any JSON parsing;
// an unsigned or mismatched delivery is rejected with no side effects.
func (h *WebhookHandler) Handle(c *gin.Context) {
	provider := c.Param("provider")
	if provider != providerPayment && provider != providerPartner {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if !h.signatureValid(c.GetHeader("X-Webhook-Signature"), body) {
		metrics.WebhookEventsTotal.WithLabelValues(provider, "bad_signature").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues(provider, "malformed").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		return
	}

	if !provisioningEvent(provider, event.Type) {
		// Unrecognized event types are acknowledged so the provider stops
		// redelivering them.
		metrics.WebhookEventsTotal.WithLabelValues(provider, "ignored").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	tier, ok := productTiers[event.Data.Product]
	if !ok || event.Data.Email == "" {
		metrics.WebhookEventsTotal.WithLabelValues(provider, "malformed").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		return
	}

	input := usecase.ProvisionInput{
		Email: event.Data.Email,
		Name:  event.Data.Name,
		Tier:  tier,
	}
	if event.Data.CustomerID != "" {
		input.CustomerID = &event.Data.CustomerID
	}
	if event.Data.OrderID != "" {
		input.OrderID = &event.Data.OrderID
	}

	if _, err := h.provision.Provision(c.Request.Context(), input); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "webhook provision", "provider", provider, "error", err)
		metrics.WebhookEventsTotal.WithLabelValues(provider, "error").Inc()
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errUpstream})
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(provider, "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "processed"})
}

func (h *WebhookHandler) signatureValid(header string, body []byte) bool {
	supplied, err := hex.DecodeString(header)
	if err != nil || len(supplied) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(supplied, mac.Sum(nil))
}

func provisioningEvent(provider, eventType string) bool {
	switch provider {
	case providerPayment:
		return eventType == eventCheckoutCompleted
	case providerPartner:
		return eventType == eventOrderCreated
	}
	return false
}
