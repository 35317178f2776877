package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dealership represents one tenant of the portal (an RV or
// manufactured-home dealership). Every operational row carries a
// DealershipID so queries can be scoped per tenant.
type Dealership struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Code        string    `gorm:"size:20;uniqueIndex;not null" json:"code"` // e.g. "PARKSIDE", "RVW"
	Description string    `gorm:"size:255" json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"isActive"`
	Settings    *string   `gorm:"type:jsonb" json:"settings,omitempty"` // dealership-specific settings blob
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relationships
	Users       []User       `gorm:"foreignKey:DealershipID" json:"-"`
	Contractors []Contractor `gorm:"foreignKey:DealershipID" json:"-"`
}

func (d *Dealership) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
