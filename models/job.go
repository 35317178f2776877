package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// JobStatus is the closed set of lifecycle states for a contractor job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusAssigned  JobStatus = "assigned"
	JobStatusEnRoute   JobStatus = "en_route"
	JobStatusOnSite    JobStatus = "on_site"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobType categorizes the work to be done at a unit.
type JobType string

const (
	JobTypeInstallation JobType = "installation"
	JobTypeRepair       JobType = "repair"
	JobTypeMaintenance  JobType = "maintenance"
	JobTypeInspection   JobType = "inspection"
	JobTypeSetup        JobType = "setup"
	JobTypeRemoval      JobType = "removal"
)

// Job priorities.
const (
	JobPriorityLow    = "low"
	JobPriorityMedium = "medium"
	JobPriorityHigh   = "high"
	JobPriorityUrgent = "urgent"
)

// jobTransitions is the allowed forward progression. A job moves
// pending -> assigned -> en_route -> on_site -> completed; cancelled is
// reachable from any non-terminal state; assigned may fall back to
// pending via unassignment. completed and cancelled are terminal.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:  {JobStatusAssigned, JobStatusCancelled},
	JobStatusAssigned: {JobStatusEnRoute, JobStatusPending, JobStatusCancelled},
	JobStatusEnRoute:  {JobStatusOnSite, JobStatusCancelled},
	JobStatusOnSite:   {JobStatusCompleted, JobStatusCancelled},
}

// ValidateJobTransition returns an error when moving a job from one
// status to another is not allowed. Transitions are rejected here, at
// the store boundary, rather than trusting callers to respect the
// progression.
func ValidateJobTransition(from, to JobStatus) error {
	if from == to {
		return nil
	}
	for _, next := range jobTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("invalid job status transition %q -> %q", from, to)
}

// IsTerminal reports whether a status admits no further transitions.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// ContractorJob is a unit of dispatchable work at a home or RV unit.
// Created unassigned (pending); at most one contractor holds it at a
// time via AssignedContractorID.
type ContractorJob struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DealershipID uuid.UUID  `gorm:"type:uuid;index;not null" json:"dealershipId"`
	Dealership   Dealership `gorm:"foreignKey:DealershipID" json:"dealership,omitempty"`

	UnitAddress       string  `gorm:"size:255;not null" json:"unitAddress"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	JobType           JobType `gorm:"size:20;not null" json:"jobType"`
	Trade             Trade   `gorm:"size:20;index;not null" json:"trade"`
	ScheduledDate     string  `gorm:"size:10;index;not null" json:"scheduledDate"` // "2006-01-02"
	EstimatedDuration float64 `gorm:"not null" json:"estimatedDuration"`           // hours

	Status               JobStatus  `gorm:"size:20;index;not null;default:pending" json:"status"`
	AssignedContractorID *uuid.UUID `gorm:"type:uuid;index" json:"assignedContractorId,omitempty"`
	AssignedContractor   *Contractor `gorm:"foreignKey:AssignedContractorID" json:"-"`
	AssignedContractorName *string  `gorm:"size:100" json:"assignedContractorName,omitempty"`

	Description         string         `json:"description"`
	Priority            string         `gorm:"size:10;not null;default:medium" json:"priority"`
	CustomerName        *string        `gorm:"size:100" json:"customerName,omitempty"`
	CustomerPhone       *string        `gorm:"size:20" json:"customerPhone,omitempty"`
	CustomerEmail       *string        `gorm:"size:100" json:"customerEmail,omitempty"`
	SpecialInstructions *string        `json:"specialInstructions,omitempty"`
	Photos              pq.StringArray `gorm:"type:text[]" json:"photos"`
	Notes               *string        `json:"notes,omitempty"`

	CompletedAt *JSONTime      `json:"completedAt,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
