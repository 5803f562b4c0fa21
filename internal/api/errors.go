package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boo-display-backend/internal/device"
	"boo-display-backend/internal/parse"
	"boo-display-backend/internal/store"
)

// statusFor maps a domain error to the HTTP status returned to the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, device.ErrUnreachable), errors.Is(err, device.ErrRejected):
		return http.StatusBadGateway
	case errors.Is(err, parse.ErrInvalidURL),
		errors.Is(err, parse.ErrEmptyText),
		errors.Is(err, parse.ErrInvalidText),
		errors.Is(err, store.ErrNoTextHistory):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicateWebhook):
		return http.StatusConflict
	case errors.Is(err, store.ErrWebhookNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes msg with the status mapped from err. Device failures carry the
// device's response status when there was one.
func (h *Handler) fail(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	body := gin.H{"error": msg}

	switch status {
	case http.StatusBadGateway:
		body["status"] = device.StatusOf(err)
		body["detail"] = err.Error()
		h.log.Warnw("device call failed", "path", c.FullPath(), "err", err)
	case http.StatusInternalServerError:
		h.log.Errorw("request failed", "path", c.FullPath(), "err", err)
	}

	c.AbortWithStatusJSON(status, body)
}
