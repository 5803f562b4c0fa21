package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"boo-display-backend/config"
	"boo-display-backend/internal/mw"
)

// EventStream serves the live event feed.
type EventStream interface {
	ServeWS(c *gin.Context)
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.ServerConfig, events EventStream) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger(h.log))
	r.Use(mw.CORS())

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	caching := mw.Cache(time.Duration(cfg.CacheTTLSeconds) * time.Second)

	api := r.Group("/")
	api.Use(rateLimiter)
	{
		api.POST("/text", h.SetText)
		api.GET("/text", h.GetText)
		api.GET("/alarm", h.GetAlarm)
		api.GET("/health", caching, h.Health)

		api.GET("/webhooks", h.ListWebhooks)
		api.POST("/webhooks", h.CreateWebhook)
		api.DELETE("/webhooks", h.DeleteWebhook)

		api.GET("/push/vapid_public_key", h.GetVAPIDPublicKey)
	}

	if events != nil {
		r.GET("/events", events.ServeWS)
	}

	return r
}
