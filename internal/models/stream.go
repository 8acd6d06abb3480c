package models

// Stream is a channel promoted on the site. At most one stream is featured.
type Stream struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	URL         string `gorm:"column:url;size:500;not null" json:"url"`
	Description string `gorm:"type:text" json:"description"`
	Type        string `gorm:"size:100;not null" json:"type"` // free text, e.g. "IRL" or "Gaming"
	IsFeatured  bool   `gorm:"not null;default:false" json:"isFeatured"`
}
