package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boo-display-backend/internal/event"
	"boo-display-backend/internal/parse"
	"boo-display-backend/internal/store"
)

const maxTextBody = 4 << 10

// SetText handles POST /text. The raw body is the text to scroll.
func (h *Handler) SetText(c *gin.Context) {
	body, err := readBody(c, maxTextBody)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Body must contain text"})
		return
	}
	text, err := parse.Text(body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Body must contain text"})
		return
	}

	ctx := c.Request.Context()
	if err := h.device.SetText(ctx, text); err != nil {
		h.fail(c, "Failed to set text", err)
		return
	}

	// The display already shows the new text, so a history write failure
	// does not fail the request.
	if _, err := h.store.AppendText(ctx, text); err != nil {
		h.log.Errorw("failed to record text history", "err", err)
	}

	h.notifier.Notify(event.Armed(text))
	h.sink.NotifyTextChanged(text)

	c.JSON(http.StatusOK, gin.H{"ok": true, "text": text})
}

// GetText handles GET /text.
func (h *Handler) GetText(c *gin.Context) {
	entry, err := h.store.LatestText(c.Request.Context())
	if err != nil {
		if errors.Is(err, store.ErrNoTextHistory) {
			h.fail(c, "No text has been set", err)
			return
		}
		h.fail(c, "Failed to read text", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": entry.Text, "set_at": entry.SetAt})
}
