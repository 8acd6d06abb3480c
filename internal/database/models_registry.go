package database

import "streamsite/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Stream{},
		&models.Announcement{},
		&models.GalleryImage{},
		&models.SiteSettings{},
	}
}
