package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trade is a contractor's specialty category, used to match jobs to
// eligible contractors on the dispatch board.
type Trade string

const (
	TradeElectrical  Trade = "electrical"
	TradePlumbing    Trade = "plumbing"
	TradeSkirting    Trade = "skirting"
	TradeHVAC        Trade = "hvac"
	TradeFlooring    Trade = "flooring"
	TradeRoofing     Trade = "roofing"
	TradeGeneral     Trade = "general"
	TradeLandscaping Trade = "landscaping"
)

// AllTrades lists every valid trade, in display order.
var AllTrades = []Trade{
	TradeElectrical, TradePlumbing, TradeSkirting, TradeHVAC,
	TradeFlooring, TradeRoofing, TradeGeneral, TradeLandscaping,
}

// ValidTrade reports whether s names a known trade.
func ValidTrade(s string) bool {
	for _, t := range AllTrades {
		if Trade(s) == t {
			return true
		}
	}
	return false
}

// Contractor is a dispatchable service provider. The list of jobs a
// contractor currently holds is NOT stored here: it is derived from
// ContractorJob.AssignedContractorID so the two sides can never drift
// apart. Handlers attach the computed list to API payloads.
type Contractor struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DealershipID uuid.UUID  `gorm:"type:uuid;index;not null" json:"dealershipId"`
	Dealership   Dealership `gorm:"foreignKey:DealershipID" json:"dealership,omitempty"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Trade        Trade      `gorm:"size:20;index;not null" json:"trade"`
	Email        string     `gorm:"size:100;not null" json:"email"`
	Phone        string     `gorm:"size:20;not null" json:"phone"`
	Address      *string    `gorm:"size:255" json:"address,omitempty"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	Rating       float64    `gorm:"default:0" json:"rating"`
	ReviewCount  int        `gorm:"default:0" json:"reviewCount"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	Notes        *string    `json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ContractorView is a Contractor plus its derived assigned-job list,
// as returned by the directory and dispatch endpoints.
type ContractorView struct {
	Contractor
	AssignedJobIDs []uuid.UUID `json:"assignedJobIds"`
}
