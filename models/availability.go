package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SlotStatus marks what a contractor's time window currently means.
type SlotStatus string

const (
	SlotStatusAvailable   SlotStatus = "available"
	SlotStatusBooked      SlotStatus = "booked"
	SlotStatusUnavailable SlotStatus = "unavailable"
)

// AvailabilitySlot is a bounded wall-clock window on one calendar day
// for one contractor. Dates are plain "2006-01-02" strings and times
// plain "HH:MM" strings; there is no time-zone modeling. A booked slot
// carries the id of the job occupying it.
//
// Overlapping slots for the same contractor/date are accepted as-is;
// utils.RangesOverlap exists for reporting but nothing rejects on it.
type AvailabilitySlot struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DealershipID uuid.UUID  `gorm:"type:uuid;index;not null" json:"dealershipId"`
	ContractorID uuid.UUID  `gorm:"type:uuid;index;not null" json:"contractorId"`
	Contractor   Contractor `gorm:"foreignKey:ContractorID" json:"-"`

	Date      string     `gorm:"size:10;index;not null" json:"date"`    // "2006-01-02"
	StartTime string     `gorm:"size:5;not null" json:"startTime"`      // "HH:MM"
	EndTime   string     `gorm:"size:5;not null" json:"endTime"`        // "HH:MM"
	Status    SlotStatus `gorm:"size:15;not null;default:available" json:"status"`
	JobID     *uuid.UUID `gorm:"type:uuid;index" json:"jobId,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
