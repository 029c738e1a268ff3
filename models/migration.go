package models

import "gorm.io/gorm"

// MigrateTable runs AutoMigrate for the two collections this system owns.
func MigrateTable(db *gorm.DB) error {
	return db.AutoMigrate(
		&Moc{},
		&EnvReview{},
	)
}
