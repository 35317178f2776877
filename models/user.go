package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Portal roles. Authorization policy is deliberately thin here: the
// dispatch and import surfaces only distinguish who may mutate.
const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
	RoleViewer     = "viewer"
)

type User struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string      `gorm:"size:100;not null" json:"name"`
	Email        string      `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string      `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"`
	Role         string      `gorm:"size:20;not null;default:viewer" json:"role"`
	DealershipID *uuid.UUID  `gorm:"type:uuid;index" json:"dealershipId,omitempty"`
	Dealership   *Dealership `gorm:"foreignKey:DealershipID" json:"dealership,omitempty"`
	IsActive     bool        `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// CanDispatch reports whether the user may mutate dispatch state
// (assign/unassign jobs, edit availability).
func (u *User) CanDispatch() bool {
	return u.Role == RoleAdmin || u.Role == RoleDispatcher
}
