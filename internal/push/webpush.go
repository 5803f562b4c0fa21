package push

import (
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"boo-display-backend/config"
	"boo-display-backend/internal/logger"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real NotificationSender.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WebPushSink delivers the text-changed message to one browser subscription.
type WebPushSink struct {
	background

	sub     *webpush.Subscription
	options *webpush.Options
	title   string
	sender  NotificationSender
	log     *logger.Logger
}

// NewWebPushSink creates a WebPushSink from the VAPID settings and stored
// subscription in cfg.
func NewWebPushSink(cfg *config.PushConfig, log *logger.Logger) *WebPushSink {
	return &WebPushSink{
		sub: &webpush.Subscription{
			Endpoint: cfg.Endpoint,
			Keys: webpush.Keys{
				P256dh: cfg.P256DH,
				Auth:   cfg.Auth,
			},
		},
		options: &webpush.Options{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			Subscriber:      cfg.Subject,
			TTL:             cfg.TTL,
		},
		title:  cfg.Title,
		sender: &WebPushSender{},
		log:    log,
	}
}

// NotifyTextChanged implements TextSink.
func (s *WebPushSink) NotifyTextChanged(text string) {
	msg := textMessage(s.title, text)
	s.spawn(func() {
		payload, err := msg.encode()
		if err != nil {
			s.log.Errorw("failed to encode push message", "err", err)
			return
		}
		resp, err := s.sender.Send(payload, s.sub, s.options)
		if err != nil {
			s.log.Warnw("web push failed", "endpoint", s.sub.Endpoint, "reason", err.Error())
			return
		}
		defer resp.Body.Close()

		// Expired subscriptions answer 410; there is nothing to retry.
		if resp.StatusCode == http.StatusGone {
			s.log.Warnw("web push subscription expired", "endpoint", s.sub.Endpoint)
			return
		}
		if resp.StatusCode >= http.StatusBadRequest {
			s.log.Warnw("web push rejected", "endpoint", s.sub.Endpoint, "status", resp.StatusCode)
		}
	})
}
