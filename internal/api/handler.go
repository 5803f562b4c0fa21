package api

import (
	"context"
	"time"

	"boo-display-backend/internal/logger"
	"boo-display-backend/internal/notification"
	"boo-display-backend/internal/push"
	"boo-display-backend/internal/store"
)

// Device is the subset of the device client the handlers call.
type Device interface {
	ReadBinarySensor(ctx context.Context, name string) (bool, error)
	ReadNumericSensor(ctx context.Context, name string) (float64, error)
	SetText(ctx context.Context, value string) error
}

// Deps are the collaborators shared by every handler.
type Deps struct {
	Device         Device
	Store          store.Store
	Notifier       notification.Notifier
	Sink           push.TextSink
	VAPIDPublicKey string
	GitSHA         string
	StartedAt      time.Time
	Log            *logger.Logger
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	device         Device
	store          store.Store
	notifier       notification.Notifier
	sink           push.TextSink
	vapidPublicKey string
	gitSHA         string
	startedAt      time.Time
	log            *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		device:         d.Device,
		store:          d.Store,
		notifier:       d.Notifier,
		sink:           d.Sink,
		vapidPublicKey: d.VAPIDPublicKey,
		gitSHA:         d.GitSHA,
		startedAt:      d.StartedAt,
		log:            d.Log,
	}
	if h.sink == nil {
		h.sink = push.Noop{}
	}
	if h.log == nil {
		h.log = logger.Nop()
	}
	if h.startedAt.IsZero() {
		h.startedAt = time.Now()
	}
	return h
}
