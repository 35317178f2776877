package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/parksidehq/portal/config"
	"github.com/parksidehq/portal/middleware"
	"github.com/parksidehq/portal/models"
	"github.com/parksidehq/portal/utils"
)

// BoardCell is one contractor/day intersection on the dispatch board.
type BoardCell struct {
	Date  string                    `json:"date"`
	Slots []models.AvailabilitySlot `json:"slots"`
	Jobs  []models.ContractorJob    `json:"jobs"`
}

// BoardRow is one contractor's week.
type BoardRow struct {
	Contractor     models.Contractor `json:"contractor"`
	DistanceMeters *float64          `json:"distanceMeters,omitempty"` // set when a job is focused
	Cells          []BoardCell       `json:"cells"`
}

// DispatchBoard is the full week x contractor grid plus the pending
// queue the UI drags jobs from.
type DispatchBoard struct {
	WeekStart   string                 `json:"weekStart"`
	Days        []string               `json:"days"`
	Rows        []BoardRow             `json:"rows"`
	PendingJobs []models.ContractorJob `json:"pendingJobs"`
}

// AssignJobRequest is the drop action payload
type AssignJobRequest struct {
	JobID        string  `json:"jobId"`
	ContractorID string  `json:"contractorId"`
	SlotID       *string `json:"slotId,omitempty"`
}

// UnassignJobRequest reverses an assignment
type UnassignJobRequest struct {
	JobID string `json:"jobId"`
}

// GetDispatchBoard renders the week x contractor grid.
// ?weekStart= picks the week (any date inside it; normalized to its
// Monday; default today), ?trade= narrows the contractor rows, and
// ?jobId= focuses a pending job so rows carry distance ordering.
func GetDispatchBoard(w http.ResponseWriter, r *http.Request) {
	dealershipID := middleware.GetDealershipID(r)
	params := r.URL.Query()

	anchor := time.Now()
	if ws := params.Get("weekStart"); ws != "" {
		parsed, err := utils.ParseDate(ws)
		if err != nil {
			http.Error(w, "Invalid weekStart, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		anchor = parsed
	}
	days := utils.WeekWindow(anchor)

	contractorQ := config.DB.Where("dealership_id = ? AND is_active = ?", dealershipID, true)
	if trade := params.Get("trade"); trade != "" {
		if !models.ValidTrade(trade) {
			http.Error(w, "Unknown trade", http.StatusBadRequest)
			return
		}
		contractorQ = contractorQ.Where("trade = ?", trade)
	}
	var contractors []models.Contractor
	if err := contractorQ.Order("name").Find(&contractors).Error; err != nil {
		http.Error(w, "Failed to load contractors", http.StatusInternalServerError)
		return
	}

	var slots []models.AvailabilitySlot
	if err := config.DB.
		Where("dealership_id = ? AND date IN ?", dealershipID, days).
		Order("start_time").
		Find(&slots).Error; err != nil {
		http.Error(w, "Failed to load availability", http.StatusInternalServerError)
		return
	}

	var jobs []models.ContractorJob
	if err := config.DB.
		Where("dealership_id = ? AND scheduled_date IN ? AND assigned_contractor_id IS NOT NULL", dealershipID, days).
		Find(&jobs).Error; err != nil {
		http.Error(w, "Failed to load jobs", http.StatusInternalServerError)
		return
	}

	var pending []models.ContractorJob
	if err := config.DB.
		Where("dealership_id = ? AND status = ?", dealershipID, models.JobStatusPending).
		Order("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, scheduled_date").
		Find(&pending).Error; err != nil {
		http.Error(w, "Failed to load pending jobs", http.StatusInternalServerError)
		return
	}

	board := buildBoard(days, contractors, slots, jobs)
	board.PendingJobs = pending

	// When a pending job is focused, rank rows by distance to it.
	if jobID := params.Get("jobId"); jobID != "" {
		var focus models.ContractorJob
		if err := config.DB.First(&focus, "id = ?", jobID).Error; err != nil {
			http.Error(w, "Focused job not found", http.StatusNotFound)
			return
		}
		focusBoardOnJob(board, &focus)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(board)
}

// buildBoard assembles the grid from already-loaded rows. Pure so the
// assembly rules are testable without a database.
func buildBoard(days []string, contractors []models.Contractor, slots []models.AvailabilitySlot, jobs []models.ContractorJob) *DispatchBoard {
	slotsByKey := make(map[uuid.UUID]map[string][]models.AvailabilitySlot)
	for _, s := range slots {
		if slotsByKey[s.ContractorID] == nil {
			slotsByKey[s.ContractorID] = make(map[string][]models.AvailabilitySlot)
		}
		slotsByKey[s.ContractorID][s.Date] = append(slotsByKey[s.ContractorID][s.Date], s)
	}

	jobsByKey := make(map[uuid.UUID]map[string][]models.ContractorJob)
	for _, j := range jobs {
		if j.AssignedContractorID == nil {
			continue
		}
		cid := *j.AssignedContractorID
		if jobsByKey[cid] == nil {
			jobsByKey[cid] = make(map[string][]models.ContractorJob)
		}
		jobsByKey[cid][j.ScheduledDate] = append(jobsByKey[cid][j.ScheduledDate], j)
	}

	rows := make([]BoardRow, 0, len(contractors))
	for _, c := range contractors {
		cells := make([]BoardCell, 0, len(days))
		for _, day := range days {
			cell := BoardCell{
				Date:  day,
				Slots: []models.AvailabilitySlot{},
				Jobs:  []models.ContractorJob{},
			}
			if byDate := slotsByKey[c.ID]; byDate != nil {
				cell.Slots = append(cell.Slots, byDate[day]...)
			}
			if byDate := jobsByKey[c.ID]; byDate != nil {
				cell.Jobs = append(cell.Jobs, byDate[day]...)
			}
			cells = append(cells, cell)
		}
		rows = append(rows, BoardRow{Contractor: c, Cells: cells})
	}

	return &DispatchBoard{
		WeekStart:   days[0],
		Days:        days,
		Rows:        rows,
		PendingJobs: []models.ContractorJob{},
	}
}

// focusBoardOnJob annotates rows with distance to the focused job and
// reorders them nearest first, trade matches before the rest.
func focusBoardOnJob(board *DispatchBoard, job *models.ContractorJob) {
	for i := range board.Rows {
		c := board.Rows[i].Contractor
		d := utils.DistanceMeters(job.Latitude, job.Longitude, c.Latitude, c.Longitude)
		board.Rows[i].DistanceMeters = &d
	}
	sortBoardRows(board.Rows, job.Trade)
}

func sortBoardRows(rows []BoardRow, trade models.Trade) {
	less := func(i, j int) bool {
		ti := rows[i].Contractor.Trade == trade
		tj := rows[j].Contractor.Trade == trade
		if ti != tj {
			return ti
		}
		di, dj := rows[i].DistanceMeters, rows[j].DistanceMeters
		if di != nil && dj != nil && *di != *dj {
			return *di < *dj
		}
		return rows[i].Contractor.Name < rows[j].Contractor.Name
	}
	// insertion sort keeps this dependency-free for the pure test path
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
}

// AssignJob is the drop action: assign a pending job to a contractor,
// optionally into a specific slot. A failed assignment changes
// nothing; the board the client re-fetches is exactly as before.
func AssignJob(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	var req AssignJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	jobID, err := parseUUID(req.JobID)
	if err != nil {
		http.Error(w, "Invalid jobId", http.StatusBadRequest)
		return
	}
	contractorID, err := parseUUID(req.ContractorID)
	if err != nil {
		http.Error(w, "Invalid contractorId", http.StatusBadRequest)
		return
	}
	var slotID *uuid.UUID
	if req.SlotID != nil && *req.SlotID != "" {
		id, err := parseUUID(*req.SlotID)
		if err != nil {
			http.Error(w, "Invalid slotId", http.StatusBadRequest)
			return
		}
		slotID = &id
	}

	engine := NewDispatchEngine()
	job, err := engine.AssignJobToContractor(dealershipID, jobID, contractorID, slotID)
	if err != nil {
		switch {
		case errors.Is(err, ErrContractorNotFound), errors.Is(err, ErrJobNotFound), errors.Is(err, ErrSlotNotFound):
			log.Printf("⚠️  Assignment failed: %v", err)
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrJobNotPending), errors.Is(err, ErrSlotUnavailable):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Printf("❌ Assignment failed: %v", err)
			http.Error(w, "Failed to assign job", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Job assigned successfully",
		"job":     job,
	})
}

// UnassignJob reverses an assignment from the board
func UnassignJob(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	var req UnassignJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	jobID, err := parseUUID(req.JobID)
	if err != nil {
		http.Error(w, "Invalid jobId", http.StatusBadRequest)
		return
	}

	engine := NewDispatchEngine()
	job, err := engine.UnassignJob(dealershipID, jobID)
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
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Job unassigned successfully",
		"job":     job,
	})
}

// GetJobCandidates ranks eligible contractors for a pending job,
// nearest first.
func GetJobCandidates(w http.ResponseWriter, r *http.Request) {
	jobID, err := parseUUID(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	engine := NewDispatchEngine()
	candidates, err := engine.CandidateContractors(middleware.GetDealershipID(r), jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			http.Error(w, "Job not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to rank contractors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(candidates)
}
