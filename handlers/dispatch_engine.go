package handlers

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parksidehq/portal/config"
	"github.com/parksidehq/portal/models"
	"github.com/parksidehq/portal/utils"
)

// Dispatch errors surfaced to HTTP handlers.
var (
	ErrContractorNotFound = errors.New("contractor not found")
	ErrJobNotFound        = errors.New("job not found")
	ErrJobNotPending      = errors.New("job is not pending")
	ErrSlotNotFound       = errors.New("availability slot not found")
	ErrSlotUnavailable    = errors.New("availability slot is not available")
)

// DispatchEngine owns the composite assignment operations that touch
// jobs, contractors, and availability slots together. Every composite
// runs inside one transaction so a failing step rolls the whole
// operation back.
type DispatchEngine struct {
	db       *gorm.DB
	notifier *NotificationService
}

// NewDispatchEngine creates a dispatch engine on the shared DB handle.
func NewDispatchEngine() *DispatchEngine {
	return &DispatchEngine{
		db:       config.DB,
		notifier: NewNotificationService(),
	}
}

// AssignJobToContractor assigns a pending job to a contractor and,
// when slotID is given, books that slot for the job. On success the
// simulated outbound notification is emitted. Lookups are scoped to
// the caller's dealership; another tenant's rows read as not found.
func (de *DispatchEngine) AssignJobToContractor(dealershipID, jobID, contractorID uuid.UUID, slotID *uuid.UUID) (*models.ContractorJob, error) {
	var job models.ContractorJob
	var contractor models.Contractor

	err := de.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contractor, "id = ? AND dealership_id = ?", contractorID, dealershipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContractorNotFound
			}
			return fmt.Errorf("load contractor: %w", err)
		}
		if err := tx.First(&job, "id = ? AND dealership_id = ?", jobID, dealershipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return fmt.Errorf("load job: %w", err)
		}
		if job.Status != models.JobStatusPending {
			return ErrJobNotPending
		}
		if err := models.ValidateJobTransition(job.Status, models.JobStatusAssigned); err != nil {
			return err
		}

		job.Status = models.JobStatusAssigned
		job.AssignedContractorID = &contractor.ID
		job.AssignedContractorName = &contractor.Name
		if err := tx.Save(&job).Error; err != nil {
			return fmt.Errorf("update job: %w", err)
		}

		if slotID != nil {
			var slot models.AvailabilitySlot
			if err := tx.First(&slot, "id = ? AND contractor_id = ?", *slotID, contractor.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSlotNotFound
				}
				return fmt.Errorf("load slot: %w", err)
			}
			if slot.Status != models.SlotStatusAvailable {
				return ErrSlotUnavailable
			}
			slot.Status = models.SlotStatusBooked
			slot.JobID = &job.ID
			if err := tx.Save(&slot).Error; err != nil {
				return fmt.Errorf("book slot: %w", err)
			}
		}

		return de.notifier.NotifyJobAssigned(tx, &job, &contractor)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Assigned job %s to %s", job.ID, contractor.Name)
	return &job, nil
}

// UnassignJob reverses an assignment: the job goes back to pending and
// any slot booked for it is freed. Calling it on a job that is already
// unassigned is a no-op, not an error.
func (de *DispatchEngine) UnassignJob(dealershipID, jobID uuid.UUID) (*models.ContractorJob, error) {
	var job models.ContractorJob

	err := de.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&job, "id = ? AND dealership_id = ?", jobID, dealershipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return fmt.Errorf("load job: %w", err)
		}
		if job.AssignedContractorID == nil && job.Status == models.JobStatusPending {
			return nil // already unassigned
		}
		if err := models.ValidateJobTransition(job.Status, models.JobStatusPending); err != nil {
			return err
		}

		contractorID := job.AssignedContractorID
		job.Status = models.JobStatusPending
		job.AssignedContractorID = nil
		job.AssignedContractorName = nil
		if err := tx.Save(&job).Error; err != nil {
			return fmt.Errorf("update job: %w", err)
		}

		if err := freeSlotsForJob(tx, job.ID); err != nil {
			return err
		}

		if contractorID != nil {
			var contractor models.Contractor
			if err := tx.First(&contractor, "id = ?", *contractorID).Error; err == nil {
				return de.notifier.NotifyJobUnassigned(tx, &job, &contractor)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Unassigned job %s", job.ID)
	return &job, nil
}

// CancelJob cancels a live job, freeing any booked slot.
func (de *DispatchEngine) CancelJob(dealershipID, jobID uuid.UUID) (*models.ContractorJob, error) {
	var job models.ContractorJob

	err := de.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&job, "id = ? AND dealership_id = ?", jobID, dealershipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return fmt.Errorf("load job: %w", err)
		}
		if err := models.ValidateJobTransition(job.Status, models.JobStatusCancelled); err != nil {
			return err
		}
		job.Status = models.JobStatusCancelled
		if err := tx.Save(&job).Error; err != nil {
			return fmt.Errorf("update job: %w", err)
		}
		return freeSlotsForJob(tx, job.ID)
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteContractorCascade removes a contractor along with their
// availability and reverts any of their jobs to pending, so nothing is
// left dangling at either end.
func (de *DispatchEngine) DeleteContractorCascade(dealershipID, contractorID uuid.UUID) error {
	err := de.db.Transaction(func(tx *gorm.DB) error {
		var contractor models.Contractor
		if err := tx.First(&contractor, "id = ? AND dealership_id = ?", contractorID, dealershipID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContractorNotFound
			}
			return fmt.Errorf("load contractor: %w", err)
		}

		if err := tx.Unscoped().
			Where("contractor_id = ?", contractorID).
			Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return fmt.Errorf("delete slots: %w", err)
		}

		if err := tx.Model(&models.ContractorJob{}).
			Where("assigned_contractor_id = ? AND status NOT IN ?", contractorID,
				[]models.JobStatus{models.JobStatusCompleted, models.JobStatusCancelled}).
			Updates(map[string]interface{}{
				"status":                   models.JobStatusPending,
				"assigned_contractor_id":   nil,
				"assigned_contractor_name": nil,
			}).Error; err != nil {
			return fmt.Errorf("revert jobs: %w", err)
		}

		// Completed/cancelled jobs keep the contractor name for history
		// but drop the id reference.
		if err := tx.Model(&models.ContractorJob{}).
			Where("assigned_contractor_id = ?", contractorID).
			Update("assigned_contractor_id", nil).Error; err != nil {
			return fmt.Errorf("clear job references: %w", err)
		}

		if err := tx.Delete(&contractor).Error; err != nil {
			return fmt.Errorf("delete contractor: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("✅ Deleted contractor %s with cascade", contractorID)
	return nil
}

// freeSlotsForJob resets every slot booked for jobID (linear scan over
// the job's booked slots, there is at most one in practice).
func freeSlotsForJob(tx *gorm.DB, jobID uuid.UUID) error {
	if err := tx.Model(&models.AvailabilitySlot{}).
		Where("job_id = ?", jobID).
		Updates(map[string]interface{}{
			"status": models.SlotStatusAvailable,
			"job_id": nil,
		}).Error; err != nil {
		return fmt.Errorf("free slots: %w", err)
	}
	return nil
}

// ContractorCandidate is one row of the candidate ranking for a job.
type ContractorCandidate struct {
	Contractor     models.Contractor `json:"contractor"`
	DistanceMeters float64           `json:"distanceMeters"`
}

// CandidateContractors returns the active contractors matching a job's
// trade, nearest first.
func (de *DispatchEngine) CandidateContractors(dealershipID, jobID uuid.UUID) ([]ContractorCandidate, error) {
	var job models.ContractorJob
	if err := de.db.First(&job, "id = ? AND dealership_id = ?", jobID, dealershipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("load job: %w", err)
	}

	var contractors []models.Contractor
	if err := de.db.
		Where("dealership_id = ? AND trade = ? AND is_active = ?", job.DealershipID, job.Trade, true).
		Find(&contractors).Error; err != nil {
		return nil, fmt.Errorf("load contractors: %w", err)
	}

	candidates := make([]ContractorCandidate, 0, len(contractors))
	for _, c := range contractors {
		candidates = append(candidates, ContractorCandidate{
			Contractor:     c,
			DistanceMeters: utils.DistanceMeters(job.Latitude, job.Longitude, c.Latitude, c.Longitude),
		})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DistanceMeters < candidates[j].DistanceMeters
	})
	return candidates, nil
}

// assignedJobIDs computes a contractor's current job list from the
// single source of truth (ContractorJob.AssignedContractorID).
func assignedJobIDs(db *gorm.DB, contractorID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.Model(&models.ContractorJob{}).
		Where("assigned_contractor_id = ?", contractorID).
		Order("created_at").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

// touchCompleted stamps CompletedAt once when a job reaches completed.
func touchCompleted(job *models.ContractorJob) {
	if job.Status == models.JobStatusCompleted && job.CompletedAt == nil {
		now := models.JSONTime(time.Now())
		job.CompletedAt = &now
	}
}
