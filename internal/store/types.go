package store

import "errors"

// Errors returned by Store implementations. Callers match them with errors.Is.
var (
	// ErrDuplicateWebhook is returned when the url is already registered.
	ErrDuplicateWebhook = errors.New("webhook url already registered")
	// ErrWebhookNotFound is returned when deleting a url that is not registered.
	ErrWebhookNotFound = errors.New("webhook url not found")
	// ErrNoTextHistory is returned when no text has ever been set.
	ErrNoTextHistory = errors.New("no text history")
)
