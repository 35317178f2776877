package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VehicleType tags which inventory schema a row follows.
type VehicleType string

const (
	VehicleTypeRV      VehicleType = "RV"
	VehicleTypeMH      VehicleType = "MH"
	VehicleTypeUnknown VehicleType = "unknown"
)

// Vehicle inventory statuses.
const (
	VehicleStatusAvailable = "available"
	VehicleStatusPending   = "pending"
	VehicleStatusSold      = "sold"
)

// Vehicle is one inventory unit, either an RV listing or a
// manufactured home. The two variants share one table: RV-only and
// MH-only columns are nullable, and the long tail of optional
// manufactured-home descriptive fields lands in Attributes rather than
// getting a column each.
type Vehicle struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DealershipID uuid.UUID   `gorm:"type:uuid;index;not null" json:"dealershipId"`
	Dealership   Dealership  `gorm:"foreignKey:DealershipID" json:"dealership,omitempty"`
	VehicleType  VehicleType `gorm:"size:10;index;not null" json:"vehicleType"`

	// Shared listing fields
	Make        string         `gorm:"size:100" json:"make"`
	Model       string         `gorm:"size:100" json:"model"`
	Year        int            `json:"year"`
	Price       float64        `json:"price"` // asking price for MH rows
	Status      string         `gorm:"size:15;not null;default:available" json:"status"`
	Condition   *string        `gorm:"size:20" json:"condition,omitempty"` // new | used
	Description *string        `json:"description,omitempty"`
	Photos      pq.StringArray `gorm:"type:text[]" json:"photos"`

	// RV listing fields
	VIN       *string  `gorm:"size:30;index" json:"vin,omitempty"`
	BodyStyle *string  `gorm:"size:50" json:"bodyStyle,omitempty"` // travel trailer, fifth wheel, class A...
	Mileage   *int     `json:"mileage,omitempty"`
	FuelType  *string  `gorm:"size:20" json:"fuelType,omitempty"`
	Slideouts *int     `json:"slideouts,omitempty"`
	LengthFt  *float64 `json:"lengthFt,omitempty"` // also used for MH section length

	// Manufactured-home fields
	HomeType     *string  `gorm:"size:30" json:"homeType,omitempty"` // single_wide, double_wide, triple_wide, park_model
	SerialNumber *string  `gorm:"size:50;index" json:"serialNumber,omitempty"`
	LotRent      *float64 `json:"lotRent,omitempty"`
	Community    *string  `gorm:"size:100" json:"community,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *float64 `json:"bathrooms,omitempty"`
	WidthFt      *float64 `json:"widthFt,omitempty"`
	Address1     *string  `gorm:"size:255" json:"address1,omitempty"`
	City         *string  `gorm:"size:100" json:"city,omitempty"`
	State        *string  `gorm:"size:2" json:"state,omitempty"`
	Zip9         *string  `gorm:"size:10" json:"zip9,omitempty"`

	// Everything else the import mapped but has no column for
	// (appliances, roof type, siding, handicap features, ...).
	Attributes datatypes.JSON `gorm:"type:jsonb" json:"attributes,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
