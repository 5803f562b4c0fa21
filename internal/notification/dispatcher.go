package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"boo-display-backend/internal/event"
	"boo-display-backend/internal/logger"
)

// Notifier accepts events for delivery. Notify must not block on delivery and
// never reports failure to the caller.
type Notifier interface {
	Notify(ev event.Event)
}

// URLSource yields the current subscriber set.
type URLSource interface {
	WebhookURLs(ctx context.Context) ([]string, error)
}

// Dispatcher fans events out to every registered webhook.
type Dispatcher struct {
	urls   URLSource
	sender WebhookSender
	log    *logger.Logger
	newID  func() string

	inflight sync.WaitGroup
}

// NewDispatcher creates a webhook dispatcher.
func NewDispatcher(urls URLSource, sender WebhookSender, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		urls:   urls,
		sender: sender,
		log:    log,
		newID:  uuid.NewString,
	}
}

// Result summarises one dispatch.
type Result struct {
	DeliveryID string
	Attempted  int
	Failed     int
}

// Notify dispatches ev in the background. It must not be called concurrently
// with Wait.
func (d *Dispatcher) Notify(ev event.Event) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		d.dispatch(context.Background(), ev)
	}()
}

// Wait blocks until every dispatch started so far has observed all of its
// delivery outcomes, or ctx is done. Call it only after the last Notify has
// returned; a Notify racing with Wait may or may not be waited for.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatch snapshots the subscriber set and delivers ev to each url
// concurrently. Subscribers added or removed while it runs may or may not see
// this event.
func (d *Dispatcher) dispatch(ctx context.Context, ev event.Event) Result {
	res := Result{DeliveryID: d.newID()}

	urls, err := d.urls.WebhookURLs(ctx)
	if err != nil {
		d.log.Errorw("failed to load webhook subscribers", "event", ev.Type, "err", err)
		return res
	}
	if len(urls) == 0 {
		return res
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		d.log.Errorw("failed to encode event", "event", ev.Type, "err", err)
		return res
	}

	d.log.Infow("firing webhooks",
		"event", ev.Type,
		"count", len(urls),
		"delivery_id", res.DeliveryID,
	)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, u := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			if err := d.deliver(ctx, url, payload, res.DeliveryID); err != nil {
				d.log.Warnw("webhook delivery failed",
					"url", url,
					"event", ev.Type,
					"delivery_id", res.DeliveryID,
					"reason", err.Error(),
				)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(u)
	}
	wg.Wait()

	res.Attempted = len(urls)
	res.Failed = failed
	return res
}

func (d *Dispatcher) deliver(ctx context.Context, url string, payload []byte, deliveryID string) error {
	status, err := d.sender.Send(ctx, url, payload, deliveryID)
	if err != nil {
		return err
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return fmt.Errorf("subscriber responded with status %d", status)
	}
	return nil
}
