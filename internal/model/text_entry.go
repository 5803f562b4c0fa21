package model

import "time"

// TextEntry records one successful text change on the display. Rows are only
// ever appended; the highest ID is the current text.
type TextEntry struct {
	ID    int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Text  string    `gorm:"not null" json:"text"`
	SetAt time.Time `gorm:"not null;autoCreateTime" json:"set_at"`
}

// TableName keeps the history table name stable.
func (TextEntry) TableName() string {
	return "text_history"
}
