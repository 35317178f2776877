package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lib/pq"

	"github.com/parksidehq/portal/config"
	"github.com/parksidehq/portal/middleware"
	"github.com/parksidehq/portal/models"
	"github.com/parksidehq/portal/utils"
)

// CreateJobRequest represents the request to create a job
type CreateJobRequest struct {
	UnitAddress         string   `json:"unitAddress"`
	Latitude            float64  `json:"latitude"`
	Longitude           float64  `json:"longitude"`
	JobType             string   `json:"jobType"`
	Trade               string   `json:"trade"`
	ScheduledDate       string   `json:"scheduledDate"`
	EstimatedDuration   float64  `json:"estimatedDuration"`
	Description         string   `json:"description"`
	Priority            string   `json:"priority"`
	CustomerName        *string  `json:"customerName,omitempty"`
	CustomerPhone       *string  `json:"customerPhone,omitempty"`
	CustomerEmail       *string  `json:"customerEmail,omitempty"`
	SpecialInstructions *string  `json:"specialInstructions,omitempty"`
	Photos              []string `json:"photos,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
}

// UpdateJobRequest is a partial job update. Status changes go through
// UpdateJobStatus, not here.
type UpdateJobRequest struct {
	UnitAddress         *string  `json:"unitAddress,omitempty"`
	Latitude            *float64 `json:"latitude,omitempty"`
	Longitude           *float64 `json:"longitude,omitempty"`
	ScheduledDate       *string  `json:"scheduledDate,omitempty"`
	EstimatedDuration   *float64 `json:"estimatedDuration,omitempty"`
	Description         *string  `json:"description,omitempty"`
	Priority            *string  `json:"priority,omitempty"`
	CustomerName        *string  `json:"customerName,omitempty"`
	CustomerPhone       *string  `json:"customerPhone,omitempty"`
	CustomerEmail       *string  `json:"customerEmail,omitempty"`
	SpecialInstructions *string  `json:"specialInstructions,omitempty"`
	Photos              []string `json:"photos,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
}

// UpdateJobStatusRequest moves a job through its lifecycle
type UpdateJobStatusRequest struct {
	Status string `json:"status"`
}

var validJobTypes = map[models.JobType]bool{
	models.JobTypeInstallation: true,
	models.JobTypeRepair:       true,
	models.JobTypeMaintenance:  true,
	models.JobTypeInspection:   true,
	models.JobTypeSetup:        true,
	models.JobTypeRemoval:      true,
}

var validPriorities = map[string]bool{
	models.JobPriorityLow:    true,
	models.JobPriorityMedium: true,
	models.JobPriorityHigh:   true,
	models.JobPriorityUrgent: true,
}

// CreateJob creates a new job. New jobs always start pending and
// unassigned regardless of what the caller sends.
func CreateJob(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.UnitAddress == "" {
		http.Error(w, "unitAddress is required", http.StatusBadRequest)
		return
	}
	if !validJobTypes[models.JobType(req.JobType)] {
		http.Error(w, "Unknown jobType", http.StatusBadRequest)
		return
	}
	if !models.ValidTrade(req.Trade) {
		http.Error(w, "Unknown trade", http.StatusBadRequest)
		return
	}
	if _, err := utils.ParseDate(req.ScheduledDate); err != nil {
		http.Error(w, "Invalid scheduledDate, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if req.EstimatedDuration <= 0 {
		http.Error(w, "estimatedDuration must be positive", http.StatusBadRequest)
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.JobPriorityMedium
	}
	if !validPriorities[priority] {
		http.Error(w, "Unknown priority", http.StatusBadRequest)
		return
	}

	job := models.ContractorJob{
		DealershipID:        dealershipID,
		UnitAddress:         req.UnitAddress,
		Latitude:            req.Latitude,
		Longitude:           req.Longitude,
		JobType:             models.JobType(req.JobType),
		Trade:               models.Trade(req.Trade),
		ScheduledDate:       req.ScheduledDate,
		EstimatedDuration:   req.EstimatedDuration,
		Status:              models.JobStatusPending,
		Description:         req.Description,
		Priority:            priority,
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		CustomerEmail:       req.CustomerEmail,
		SpecialInstructions: req.SpecialInstructions,
		Photos:              pq.StringArray(req.Photos),
		Notes:               req.Notes,
	}

	if err := config.DB.Create(&job).Error; err != nil {
		log.Printf("❌ Failed to create job: %v", err)
		http.Error(w, "Failed to create job", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Created job: %s at %s (ID: %s)", job.JobType, job.UnitAddress, job.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

// GetJob returns one job. Another tenant's job reads as not found.
func GetJob(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var job models.ContractorJob
	if err := config.DB.First(&job, "id = ? AND dealership_id = ?", id, middleware.GetDealershipID(r)).Error; err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// GetAllJobs lists the tenant's jobs; optional status/trade filters.
func GetAllJobs(w http.ResponseWriter, r *http.Request) {
	dealershipID := middleware.GetDealershipID(r)
	params := r.URL.Query()

	q := config.DB.Where("dealership_id = ?", dealershipID)
	if status := params.Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if trade := params.Get("trade"); trade != "" {
		q = q.Where("trade = ?", trade)
	}
	if date := params.Get("scheduledDate"); date != "" {
		q = q.Where("scheduled_date = ?", date)
	}

	var jobs []models.ContractorJob
	if err := q.Order("scheduled_date, priority").Find(&jobs).Error; err != nil {
		http.Error(w, "Failed to load jobs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// GetPendingJobs is the dispatch-board queue: unassigned jobs ordered
// urgent-first.
func GetPendingJobs(w http.ResponseWriter, r *http.Request) {
	dealershipID := middleware.GetDealershipID(r)

	var jobs []models.ContractorJob
	if err := config.DB.
		Where("dealership_id = ? AND status = ?", dealershipID, models.JobStatusPending).
		Order("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, scheduled_date").
		Find(&jobs).Error; err != nil {
		http.Error(w, "Failed to load pending jobs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// GetJobsByContractor lists jobs currently assigned to one contractor
func GetJobsByContractor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	contractorID := vars["id"]

	var jobs []models.ContractorJob
	if err := config.DB.
		Where("assigned_contractor_id = ? AND dealership_id = ?", contractorID, middleware.GetDealershipID(r)).
		Order("scheduled_date").
		Find(&jobs).Error; err != nil {
		http.Error(w, "Failed to load jobs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// UpdateJob merges a partial update into a job's descriptive fields
func UpdateJob(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]

	var req UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var job models.ContractorJob
	if err := config.DB.First(&job, "id = ? AND dealership_id = ?", id, dealershipID).Error; err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	if req.UnitAddress != nil {
		job.UnitAddress = *req.UnitAddress
	}
	if req.Latitude != nil {
		job.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		job.Longitude = *req.Longitude
	}
	if req.ScheduledDate != nil {
		if _, err := utils.ParseDate(*req.ScheduledDate); err != nil {
			http.Error(w, "Invalid scheduledDate, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		job.ScheduledDate = *req.ScheduledDate
	}
	if req.EstimatedDuration != nil {
		if *req.EstimatedDuration <= 0 {
			http.Error(w, "estimatedDuration must be positive", http.StatusBadRequest)
			return
		}
		job.EstimatedDuration = *req.EstimatedDuration
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Priority != nil {
		if !validPriorities[*req.Priority] {
			http.Error(w, "Unknown priority", http.StatusBadRequest)
			return
		}
		job.Priority = *req.Priority
	}
	if req.CustomerName != nil {
		job.CustomerName = req.CustomerName
	}
	if req.CustomerPhone != nil {
		job.CustomerPhone = req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		job.CustomerEmail = req.CustomerEmail
	}
	if req.SpecialInstructions != nil {
		job.SpecialInstructions = req.SpecialInstructions
	}
	if req.Photos != nil {
		job.Photos = pq.StringArray(req.Photos)
	}
	if req.Notes != nil {
		job.Notes = req.Notes
	}

	if err := config.DB.Save(&job).Error; err != nil {
		log.Printf("❌ Failed to update job %s: %v", id, err)
		http.Error(w, "Failed to update job", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

// UpdateJobStatus moves a job through its lifecycle. Invalid
// transitions are rejected here at the store boundary; assignment and
// unassignment go through the dispatch engine instead.
func UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]

	var req UpdateJobStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	jobID, err := parseUUID(id)
	if err != nil {
		http.Error(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	target := models.JobStatus(req.Status)
	engine := NewDispatchEngine()

	// Assignment state is engine territory: it has to move slots and
	// contractor references along with the status.
	switch target {
	case models.JobStatusPending:
		job, err := engine.UnassignJob(dealershipID, jobID)
		respondJobStatusChange(w, job, err)
		return
	case models.JobStatusCancelled:
		job, err := engine.CancelJob(dealershipID, jobID)
		respondJobStatusChange(w, job, err)
		return
	case models.JobStatusAssigned:
		http.Error(w, "Use the dispatch assign endpoint to assign jobs", http.StatusUnprocessableEntity)
		return
	}

	var job models.ContractorJob
	if err := config.DB.First(&job, "id = ? AND dealership_id = ?", jobID, dealershipID).Error; err != nil {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	if err := models.ValidateJobTransition(job.Status, target); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	job.Status = target
	touchCompleted(&job)
	if err := config.DB.Save(&job).Error; err != nil {
		log.Printf("❌ Failed to update job status %s: %v", id, err)
		http.Error(w, "Failed to update job status", http.StatusInternalServerError)
		return
	}

	// A completed job releases its booked slot.
	if job.Status == models.JobStatusCompleted {
		if err := freeSlotsForJob(config.DB, job.ID); err != nil {
			log.Printf("⚠️  Failed to free slots for completed job %s: %v", job.ID, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}

func respondJobStatusChange(w http.ResponseWriter, job *models.ContractorJob, err error) {
	if err != nil {
		switch {
		case errors.Is(err, ErrJobNotFound):
			http.Error(w, "Job not found", http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusConflict)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job)
}
