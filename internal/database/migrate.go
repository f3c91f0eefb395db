package database

import (
	"gorm.io/gorm"

	"github.com/hydromate/backend/internal/models"
)

// AutoMigrate keeps the dev schema in sync with the models. Production
// schemas are managed by the SQL migrations under migrations/ instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.HydrationPlan{},
		&models.WaterLog{},
		&models.UserDevice{},
	)
}
