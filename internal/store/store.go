package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"boo-display-backend/internal/model"
)

// Store defines the persistence operations for webhook subscriptions and the
// text history log.
type Store interface {
	CreateWebhook(ctx context.Context, url string) (model.Webhook, error)
	ListWebhooks(ctx context.Context) ([]model.Webhook, error)
	WebhookURLs(ctx context.Context) ([]string, error)
	DeleteWebhook(ctx context.Context, url string) error
	AppendText(ctx context.Context, text string) (model.TextEntry, error)
	LatestText(ctx context.Context) (model.TextEntry, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, now: time.Now}
}

// CreateWebhook inserts url. A url that already exists yields
// ErrDuplicateWebhook; the conflict is detected from the affected row count of
// an ON CONFLICT DO NOTHING insert rather than from the driver's error text.
func (s *gormStore) CreateWebhook(ctx context.Context, url string) (model.Webhook, error) {
	hook := model.Webhook{URL: url, CreatedAt: s.now().UTC()}

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoNothing: true,
	}).Create(&hook)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return model.Webhook{}, ErrDuplicateWebhook
		}
		return model.Webhook{}, fmt.Errorf("failed to insert webhook %q: %w", url, res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Webhook{}, ErrDuplicateWebhook
	}
	return hook, nil
}

// ListWebhooks returns all subscriptions ordered by id.
func (s *gormStore) ListWebhooks(ctx context.Context) ([]model.Webhook, error) {
	hooks := make([]model.Webhook, 0)
	if err := s.db.WithContext(ctx).Order("id").Find(&hooks).Error; err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	return hooks, nil
}

// WebhookURLs returns a snapshot of the subscriber urls.
func (s *gormStore) WebhookURLs(ctx context.Context) ([]string, error) {
	var urls []string
	if err := s.db.WithContext(ctx).Model(&model.Webhook{}).Order("id").Pluck("url", &urls).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch webhook urls: %w", err)
	}
	return urls, nil
}

// DeleteWebhook removes url, returning ErrWebhookNotFound when nothing matched.
func (s *gormStore) DeleteWebhook(ctx context.Context, url string) error {
	res := s.db.WithContext(ctx).Where("url = ?", url).Delete(&model.Webhook{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete webhook %q: %w", url, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrWebhookNotFound
	}
	return nil
}

// AppendText adds a row to the text history.
func (s *gormStore) AppendText(ctx context.Context, text string) (model.TextEntry, error) {
	entry := model.TextEntry{Text: text, SetAt: s.now().UTC()}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return model.TextEntry{}, fmt.Errorf("failed to append text history: %w", err)
	}
	return entry, nil
}

// LatestText returns the most recently appended entry.
func (s *gormStore) LatestText(ctx context.Context) (model.TextEntry, error) {
	var entry model.TextEntry
	err := s.db.WithContext(ctx).Last(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.TextEntry{}, ErrNoTextHistory
	}
	if err != nil {
		return model.TextEntry{}, fmt.Errorf("failed to read latest text: %w", err)
	}
	return entry, nil
}
