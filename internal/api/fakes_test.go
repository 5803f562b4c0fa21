package api

import (
	"context"
	"sync"
	"time"

	"boo-display-backend/internal/event"
	"boo-display-backend/internal/model"
	"boo-display-backend/internal/store"
)

// mockDevice is a mock implementation of the Device interface.
type mockDevice struct {
	mu          sync.Mutex
	setTexts    []string
	binaryFunc  func(name string) (bool, error)
	numericFunc func(name string) (float64, error)
	setTextErr  error
}

func (d *mockDevice) ReadBinarySensor(ctx context.Context, name string) (bool, error) {
	return d.binaryFunc(name)
}

func (d *mockDevice) ReadNumericSensor(ctx context.Context, name string) (float64, error) {
	return d.numericFunc(name)
}

func (d *mockDevice) SetText(ctx context.Context, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setTexts = append(d.setTexts, value)
	return d.setTextErr
}

func (d *mockDevice) SetTextCalls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.setTexts...)
}

// memStore is an in-memory store.Store.
type memStore struct {
	mu      sync.Mutex
	hooks   []model.Webhook
	texts   []model.TextEntry
	nextID  int64
	failAll error
}

func (s *memStore) CreateWebhook(ctx context.Context, url string) (model.Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return model.Webhook{}, s.failAll
	}
	for _, h := range s.hooks {
		if h.URL == url {
			return model.Webhook{}, store.ErrDuplicateWebhook
		}
	}
	s.nextID++
	h := model.Webhook{ID: s.nextID, URL: url, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	s.hooks = append(s.hooks, h)
	return h, nil
}

func (s *memStore) ListWebhooks(ctx context.Context) ([]model.Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	return append([]model.Webhook{}, s.hooks...), nil
}

func (s *memStore) WebhookURLs(ctx context.Context) ([]string, error) {
	hooks, err := s.ListWebhooks(ctx)
	urls := make([]string, 0, len(hooks))
	for _, h := range hooks {
		urls = append(urls, h.URL)
	}
	return urls, err
}

func (s *memStore) DeleteWebhook(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return s.failAll
	}
	for i, h := range s.hooks {
		if h.URL == url {
			s.hooks = append(s.hooks[:i], s.hooks[i+1:]...)
			return nil
		}
	}
	return store.ErrWebhookNotFound
}

func (s *memStore) AppendText(ctx context.Context, text string) (model.TextEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return model.TextEntry{}, s.failAll
	}
	e := model.TextEntry{ID: int64(len(s.texts) + 1), Text: text, SetAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	s.texts = append(s.texts, e)
	return e, nil
}

func (s *memStore) LatestText(ctx context.Context) (model.TextEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return model.TextEntry{}, s.failAll
	}
	if len(s.texts) == 0 {
		return model.TextEntry{}, store.ErrNoTextHistory
	}
	return s.texts[len(s.texts)-1], nil
}

// recordingNotifier records every event.
type recordingNotifier struct {
	mu     sync.Mutex
	events []event.Event
}

func (n *recordingNotifier) Notify(ev event.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) Events() []event.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]event.Event(nil), n.events...)
}

// recordingSink records every text change.
type recordingSink struct {
	mu    sync.Mutex
	texts []string
}

func (s *recordingSink) NotifyTextChanged(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
}

func (s *recordingSink) Wait(ctx context.Context) error { return nil }
