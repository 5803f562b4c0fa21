package model

import "time"

// Webhook is a subscriber URL that receives POSTed event payloads.
type Webhook struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	URL       string    `gorm:"uniqueIndex;size:2048;not null" json:"url"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
