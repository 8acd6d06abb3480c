package models

import "time"

// Announcement is a news item shown on the homepage, newest first.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Type      string    `gorm:"size:100;not null" json:"type"`
	ImageURL  string    `gorm:"column:image_url;size:500" json:"imageUrl"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
