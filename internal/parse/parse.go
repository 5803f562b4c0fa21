// Package parse validates client input before it reaches the device or store.
package parse

import (
	"errors"
	"net/url"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidURL is returned for a webhook url that is not an absolute
	// http(s) url with a host.
	ErrInvalidURL = errors.New("url must be an absolute http or https url")
	// ErrEmptyText is returned for an empty display text body.
	ErrEmptyText = errors.New("body must contain text")
	// ErrInvalidText is returned for a body that is not valid UTF-8.
	ErrInvalidText = errors.New("body must be utf-8 text")
)

const maxURLLength = 2048

// WebhookURL trims raw and checks that it can be delivered to.
func WebhookURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" || len(s) > maxURLLength {
		return "", ErrInvalidURL
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", ErrInvalidURL
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", ErrInvalidURL
	}
	if u.Host == "" || u.Hostname() == "" {
		return "", ErrInvalidURL
	}
	return s, nil
}

// Text checks a raw POST /text body. The text is passed through unchanged.
func Text(body []byte) (string, error) {
	if len(body) == 0 {
		return "", ErrEmptyText
	}
	if !utf8.Valid(body) {
		return "", ErrInvalidText
	}
	return string(body), nil
}
