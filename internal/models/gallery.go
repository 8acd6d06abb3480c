package models

// GalleryImage is a picture in the public gallery.
type GalleryImage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"column:image_url;size:500;not null" json:"imageUrl"`
	Category    string `gorm:"size:100;not null;index" json:"category"`
}
