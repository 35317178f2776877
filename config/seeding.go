package config

import (
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/parksidehq/portal/models"
	"github.com/parksidehq/portal/utils"
)

// RunAllSeeding runs all seeding operations in the correct order.
// Every seeder skips silently when data already exists, so it is safe
// to run on every startup. The db handle is a parameter (rather than
// the package global) so tests can seed isolated fixtures.
func RunAllSeeding(db *gorm.DB) error {
	log.Println("=== Starting Database Seeding ===")

	log.Println("\n[1/4] Seeding Dealerships...")
	SeedDealerships(db)

	log.Println("\n[2/4] Seeding Users...")
	SeedUsers(db)

	log.Println("\n[3/4] Seeding Contractors...")
	SeedContractors(db)

	log.Println("\n[4/4] Seeding Jobs and Availability...")
	SeedDispatchData(db)

	log.Println("\n=== Database Seeding Complete ===")
	return nil
}

// SeedDealerships creates the default tenant.
func SeedDealerships(db *gorm.DB) {
	dealerships := []models.Dealership{
		{
			Name:        "Parkside Homes & RV",
			Code:        "PARKSIDE",
			Description: "Manufactured home and RV sales with field service",
			IsActive:    true,
		},
	}

	for _, d := range dealerships {
		var existing models.Dealership
		err := db.Where("code = ?", d.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&d).Error; err != nil {
				log.Printf("❌ Failed to seed dealership %s: %v", d.Code, err)
				continue
			}
			log.Printf("✅ Seeded dealership: %s", d.Name)
		}
	}
}

// SeedUsers creates a default admin and dispatcher for the default
// dealership.
func SeedUsers(db *gorm.DB) {
	dealership, ok := defaultDealership(db)
	if !ok {
		return
	}

	users := []struct {
		name, email, phone, role, password string
	}{
		{"Portal Admin", "admin@parksidehomes.example", "6165550100", models.RoleAdmin, "admin123"},
		{"Dana Dispatcher", "dispatch@parksidehomes.example", "6165550101", models.RoleDispatcher, "dispatch123"},
	}

	for _, u := range users {
		var existing models.User
		err := db.Where("email = ?", u.email).First(&existing).Error
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("❌ Failed to hash password for %s: %v", u.email, err)
			continue
		}
		user := models.User{
			Name:         u.name,
			Email:        u.email,
			Phone:        u.phone,
			PasswordHash: string(hash),
			Role:         u.role,
			DealershipID: &dealership.ID,
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Failed to seed user %s: %v", u.email, err)
			continue
		}
		log.Printf("✅ Seeded user: %s (%s)", u.name, u.role)
	}
}

// SeedContractors creates a starter contractor roster.
func SeedContractors(db *gorm.DB) {
	var count int64
	db.Model(&models.Contractor{}).Count(&count)
	if count > 0 {
		return
	}

	dealership, ok := defaultDealership(db)
	if !ok {
		return
	}

	contractors := []models.Contractor{
		{
			DealershipID: dealership.ID, Name: "Mike's Electrical Service",
			Trade: models.TradeElectrical, Email: "mike@mikeselectrical.example",
			Phone: "6165550111", Latitude: 42.9634, Longitude: -85.6681,
			Rating: 4.8, ReviewCount: 42, IsActive: true,
		},
		{
			DealershipID: dealership.ID, Name: "Precision Plumbing Co",
			Trade: models.TradePlumbing, Email: "service@precisionplumbing.example",
			Phone: "6165550112", Latitude: 42.9125, Longitude: -85.7051,
			Rating: 4.6, ReviewCount: 31, IsActive: true,
		},
		{
			DealershipID: dealership.ID, Name: "Lakeside Skirting & Setup",
			Trade: models.TradeSkirting, Email: "crew@lakesideskirting.example",
			Phone: "6165550113", Latitude: 43.0331, Longitude: -85.5872,
			Rating: 4.9, ReviewCount: 57, IsActive: true,
		},
		{
			DealershipID: dealership.ID, Name: "Comfort Zone HVAC",
			Trade: models.TradeHVAC, Email: "office@comfortzonehvac.example",
			Phone: "6165550114", Latitude: 42.8851, Longitude: -85.5232,
			Rating: 4.4, ReviewCount: 19, IsActive: true,
		},
	}

	for _, c := range contractors {
		if err := db.Create(&c).Error; err != nil {
			log.Printf("❌ Failed to seed contractor %s: %v", c.Name, err)
			continue
		}
		log.Printf("✅ Seeded contractor: %s (%s)", c.Name, c.Trade)
	}
}

// SeedDispatchData creates a handful of pending jobs and this week's
// availability so the dispatch board is not empty on first boot.
func SeedDispatchData(db *gorm.DB) {
	var jobCount int64
	db.Model(&models.ContractorJob{}).Count(&jobCount)
	if jobCount > 0 {
		return
	}

	dealership, ok := defaultDealership(db)
	if !ok {
		return
	}

	week := utils.WeekWindow(time.Now())

	jobs := []models.ContractorJob{
		{
			DealershipID: dealership.ID, UnitAddress: "214 Birchwood Ln, Lot 18",
			Latitude: 42.9701, Longitude: -85.6420,
			JobType: models.JobTypeRepair, Trade: models.TradeElectrical,
			ScheduledDate: week[1], EstimatedDuration: 2,
			Status: models.JobStatusPending, Priority: models.JobPriorityHigh,
			Description: "Breaker panel trips when AC compressor starts",
		},
		{
			DealershipID: dealership.ID, UnitAddress: "88 Maple Ct, Lot 5",
			Latitude: 42.9402, Longitude: -85.7122,
			JobType: models.JobTypeInstallation, Trade: models.TradeSkirting,
			ScheduledDate: week[2], EstimatedDuration: 6,
			Status: models.JobStatusPending, Priority: models.JobPriorityMedium,
			Description: "Full skirting install on new double-wide",
		},
		{
			DealershipID: dealership.ID, UnitAddress: "1420 Shoreline Dr",
			Latitude: 43.0210, Longitude: -85.6015,
			JobType: models.JobTypeInspection, Trade: models.TradePlumbing,
			ScheduledDate: week[3], EstimatedDuration: 1.5,
			Status: models.JobStatusPending, Priority: models.JobPriorityLow,
			Description: "Pre-sale water line inspection",
		},
	}
	for _, j := range jobs {
		if err := db.Create(&j).Error; err != nil {
			log.Printf("❌ Failed to seed job at %s: %v", j.UnitAddress, err)
		}
	}

	var contractors []models.Contractor
	if err := db.Where("dealership_id = ?", dealership.ID).Find(&contractors).Error; err != nil {
		log.Printf("❌ Failed to load contractors for slot seeding: %v", err)
		return
	}
	for _, c := range contractors {
		for _, day := range week[:5] { // weekday mornings and afternoons
			slots := []models.AvailabilitySlot{
				{DealershipID: dealership.ID, ContractorID: c.ID, Date: day,
					StartTime: "08:00", EndTime: "12:00", Status: models.SlotStatusAvailable},
				{DealershipID: dealership.ID, ContractorID: c.ID, Date: day,
					StartTime: "13:00", EndTime: "17:00", Status: models.SlotStatusAvailable},
			}
			for _, s := range slots {
				if err := db.Create(&s).Error; err != nil {
					log.Printf("❌ Failed to seed slot for %s on %s: %v", c.Name, day, err)
				}
			}
		}
	}
	log.Printf("✅ Seeded %d jobs and weekday availability for %d contractors", len(jobs), len(contractors))
}

func defaultDealership(db *gorm.DB) (models.Dealership, bool) {
	var dealership models.Dealership
	if err := db.Where("code = ?", "PARKSIDE").First(&dealership).Error; err != nil {
		log.Printf("⚠️  Default dealership not found, skipping dependent seeding")
		return models.Dealership{}, false
	}
	return dealership, true
}
