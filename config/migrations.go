package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/parksidehq/portal/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20260115_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Dealership{}, &models.User{},
					&models.Contractor{}, &models.ContractorJob{}, &models.AvailabilitySlot{})
			},
		},
		{
			ID: "20260210_add_inventory_table",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Vehicle{})
			},
		},
		{
			ID: "20260318_add_notifications",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Notification{})
			},
		},
		{
			ID: "20260412_add_contractor_location",
			Migrate: func(tx *gorm.DB) error {
				// Early contractor rows predate distance-ordered dispatch.
				cols := []string{
					"ALTER TABLE contractors ADD COLUMN IF NOT EXISTS latitude double precision DEFAULT 0",
					"ALTER TABLE contractors ADD COLUMN IF NOT EXISTS longitude double precision DEFAULT 0",
					"ALTER TABLE contractor_jobs ADD COLUMN IF NOT EXISTS latitude double precision DEFAULT 0",
					"ALTER TABLE contractor_jobs ADD COLUMN IF NOT EXISTS longitude double precision DEFAULT 0",
				}
				for _, stmt := range cols {
					if err := tx.Exec(stmt).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	})

	return m.Migrate()
}
