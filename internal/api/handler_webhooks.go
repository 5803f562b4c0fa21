package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boo-display-backend/internal/parse"
	"boo-display-backend/internal/store"
)

const urlRequired = "Body must contain a 'url' string"

type webhookRequest struct {
	URL *string `json:"url"`
}

// bindWebhookURL reads {"url": "..."} and validates the url.
func bindWebhookURL(c *gin.Context) (string, bool) {
	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == nil || *req.URL == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": urlRequired})
		return "", false
	}
	u, err := parse.WebhookURL(*req.URL)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return u, true
}

// ListWebhooks handles GET /webhooks.
func (h *Handler) ListWebhooks(c *gin.Context) {
	hooks, err := h.store.ListWebhooks(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to list webhooks", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": hooks})
}

// CreateWebhook handles POST /webhooks.
func (h *Handler) CreateWebhook(c *gin.Context) {
	u, ok := bindWebhookURL(c)
	if !ok {
		return
	}

	hook, err := h.store.CreateWebhook(c.Request.Context(), u)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateWebhook) {
			h.fail(c, "Webhook URL already registered", err)
			return
		}
		h.fail(c, "Failed to register webhook", err)
		return
	}

	h.log.Infow("webhook registered", "id", hook.ID, "url", hook.URL)
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": hook.ID, "url": hook.URL})
}

// DeleteWebhook handles DELETE /webhooks.
func (h *Handler) DeleteWebhook(c *gin.Context) {
	u, ok := bindWebhookURL(c)
	if !ok {
		return
	}

	if err := h.store.DeleteWebhook(c.Request.Context(), u); err != nil {
		if errors.Is(err, store.ErrWebhookNotFound) {
			h.fail(c, "Webhook URL not found", err)
			return
		}
		h.fail(c, "Failed to delete webhook", err)
		return
	}

	h.log.Infow("webhook removed", "url", u)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
