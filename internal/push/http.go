package push

import (
	"time"

	"github.com/go-resty/resty/v2"

	"boo-display-backend/internal/logger"
)

const httpTimeout = 10 * time.Second

// HTTPSink POSTs a JSON message to a fixed URL with a bearer token.
type HTTPSink struct {
	background

	client *resty.Client
	url    string
	title  string
	log    *logger.Logger
}

// NewHTTPSink creates an HTTPSink.
func NewHTTPSink(url, token, title string, log *logger.Logger) *HTTPSink {
	return &HTTPSink{
		client: resty.New().
			SetTimeout(httpTimeout).
			SetRetryCount(0).
			SetAuthToken(token),
		url:   url,
		title: title,
		log:   log,
	}
}

// NotifyTextChanged implements TextSink.
func (s *HTTPSink) NotifyTextChanged(text string) {
	msg := textMessage(s.title, text)
	s.spawn(func() {
		body, err := msg.encode()
		if err != nil {
			s.log.Errorw("failed to encode push message", "err", err)
			return
		}
		resp, err := s.client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(s.url)
		if err != nil {
			s.log.Warnw("push notification failed", "url", s.url, "reason", err.Error())
			return
		}
		if resp.IsError() {
			s.log.Warnw("push notification rejected", "url", s.url, "status", resp.StatusCode())
			return
		}
		s.log.Debugw("push notification sent", "url", s.url)
	})
}
