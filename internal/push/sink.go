// Package push fires a single best-effort notification whenever the display
// text is changed through the API.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"boo-display-backend/config"
	"boo-display-backend/internal/logger"
)

// TextSink is notified when the display text changes. NotifyTextChanged never
// blocks on delivery and never reports failure.
type TextSink interface {
	NotifyTextChanged(text string)
	Wait(ctx context.Context) error
}

// Message is the body sent to the push destination.
type Message struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func textMessage(title, text string) Message {
	return Message{Title: title, Message: fmt.Sprintf("Text set: %s", text)}
}

func (m Message) encode() ([]byte, error) {
	return json.Marshal(m)
}

// New selects a sink from cfg. The HTTP sink wins when both are configured.
func New(cfg *config.PushConfig, log *logger.Logger) TextSink {
	switch {
	case cfg.URL != "" && cfg.Token != "":
		log.Infow("push notifications enabled", "sink", "http", "url", cfg.URL)
		return NewHTTPSink(cfg.URL, cfg.Token, cfg.Title, log)
	case cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" && cfg.Endpoint != "":
		log.Infow("push notifications enabled", "sink", "webpush")
		return NewWebPushSink(cfg, log)
	default:
		log.Infow("push notifications disabled")
		return Noop{}
	}
}

// Noop discards every notification.
type Noop struct{}

// NotifyTextChanged implements TextSink.
func (Noop) NotifyTextChanged(string) {}

// Wait implements TextSink.
func (Noop) Wait(context.Context) error { return nil }

// background tracks in-flight sends so shutdown and tests can wait for them.
type background struct {
	wg sync.WaitGroup
}

func (b *background) spawn(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// Wait blocks until every send has settled or ctx is done.
func (b *background) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
