package notification

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookSender delivers one serialised payload to one subscriber url and
// reports the response status.
type WebhookSender interface {
	Send(ctx context.Context, url string, payload []byte, deliveryID string) (int, error)
}

// RestySender is the real WebhookSender. It makes exactly one attempt.
type RestySender struct {
	client *resty.Client
}

// NewRestySender creates a sender whose requests are bounded by timeout.
func NewRestySender(timeout time.Duration) *RestySender {
	return &RestySender{
		client: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0),
	}
}

// Send POSTs payload as JSON.
func (s *RestySender) Send(ctx context.Context, url string, payload []byte, deliveryID string) (int, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Delivery-Id", deliveryID).
		SetBody(payload).
		Post(url)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode(), nil
}
