package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/parksidehq/portal/config"
	"github.com/parksidehq/portal/middleware"
	"github.com/parksidehq/portal/models"
	"github.com/parksidehq/portal/utils"
)

// AddSlotRequest represents a new availability window
type AddSlotRequest struct {
	Date      string `json:"date"`      // "2006-01-02"
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`   // "HH:MM"
	Status    string `json:"status,omitempty"`
}

// UpdateSlotRequest is a partial slot update
type UpdateSlotRequest struct {
	Date      *string `json:"date,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	Status    *string `json:"status,omitempty"`
}

// GetAvailability returns a contractor's slots, optionally filtered to
// one date. An empty result is an empty list, never an error.
func GetAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	contractorID := vars["id"]

	q := config.DB.Where("contractor_id = ? AND dealership_id = ?", contractorID, middleware.GetDealershipID(r)).
		Order("date, start_time")
	if date := r.URL.Query().Get("date"); date != "" {
		q = q.Where("date = ?", date)
	}

	slots := []models.AvailabilitySlot{}
	if err := q.Find(&slots).Error; err != nil {
		http.Error(w, "Failed to load availability", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(slots)
}

// validateSlotWindow checks a new window's shape against the
// contractor's existing slots for that day. Overlapping an existing
// window is deliberately not an error: dispatchers model split and
// double-stacked availability as separate rows and the board renders
// all of them.
func validateSlotWindow(date, start, end string, sameDay []models.AvailabilitySlot) error {
	if _, err := utils.ParseDate(date); err != nil {
		return errInvalidSlotDate
	}
	if err := utils.ValidateSlotTimes(start, end); err != nil {
		return err
	}
	// sameDay is inspected for nothing today: a window that overlaps
	// every existing one is as valid as a window on an empty day.
	return nil
}

var errInvalidSlotDate = errors.New("invalid date, expected YYYY-MM-DD")

// AddSlot appends a new availability window for a contractor.
func AddSlot(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	contractorIDStr := vars["id"]

	contractorID, err := parseUUID(contractorIDStr)
	if err != nil {
		http.Error(w, "Invalid contractor id", http.StatusBadRequest)
		return
	}

	var req AddSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	status := models.SlotStatusAvailable
	if req.Status != "" {
		switch models.SlotStatus(req.Status) {
		case models.SlotStatusAvailable, models.SlotStatusUnavailable:
			status = models.SlotStatus(req.Status)
		default:
			// booked slots are only created through assignment
			http.Error(w, "Status must be available or unavailable", http.StatusBadRequest)
			return
		}
	}

	var contractor models.Contractor
	if err := config.DB.First(&contractor, "id = ? AND dealership_id = ?", contractorID, dealershipID).Error; err != nil {
		http.Error(w, "Contractor not found", http.StatusNotFound)
		return
	}

	var sameDay []models.AvailabilitySlot
	if err := config.DB.
		Where("contractor_id = ? AND date = ?", contractorID, req.Date).
		Find(&sameDay).Error; err != nil {
		http.Error(w, "Failed to load availability", http.StatusInternalServerError)
		return
	}
	if err := validateSlotWindow(req.Date, req.StartTime, req.EndTime, sameDay); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slot := models.AvailabilitySlot{
		DealershipID: contractor.DealershipID,
		ContractorID: contractorID,
		Date:         req.Date,
		StartTime:    req.StartTime[:5],
		EndTime:      req.EndTime[:5],
		Status:       status,
	}
	if err := config.DB.Create(&slot).Error; err != nil {
		log.Printf("❌ Failed to create slot for %s: %v", contractorID, err)
		http.Error(w, "Failed to create slot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(slot)
}

// UpdateSlot merges a partial update into a slot. Missing ids report
// 404 rather than silently succeeding.
func UpdateSlot(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]

	var req UpdateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var slot models.AvailabilitySlot
	if err := config.DB.First(&slot, "id = ? AND dealership_id = ?", id, dealershipID).Error; err != nil {
		http.Error(w, "Slot not found", http.StatusNotFound)
		return
	}

	if req.Date != nil {
		if _, err := utils.ParseDate(*req.Date); err != nil {
			http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		slot.Date = *req.Date
	}
	start, end := slot.StartTime, slot.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if req.StartTime != nil || req.EndTime != nil {
		if err := utils.ValidateSlotTimes(start, end); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slot.StartTime = start[:5]
		slot.EndTime = end[:5]
	}
	if req.Status != nil {
		switch models.SlotStatus(*req.Status) {
		case models.SlotStatusAvailable, models.SlotStatusUnavailable:
			if slot.Status == models.SlotStatusBooked && slot.JobID != nil {
				http.Error(w, "Slot is booked; unassign the job first", http.StatusConflict)
				return
			}
			slot.Status = models.SlotStatus(*req.Status)
		default:
			http.Error(w, "Status must be available or unavailable", http.StatusBadRequest)
			return
		}
	}

	if err := config.DB.Save(&slot).Error; err != nil {
		log.Printf("❌ Failed to update slot %s: %v", id, err)
		http.Error(w, "Failed to update slot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(slot)
}

// DeleteSlot removes a slot. Deleting a booked slot is allowed; the
// job keeps its assignment and the caller is responsible for the
// back-reference, matching the directory's cascade behavior.
func DeleteSlot(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]

	res := config.DB.Unscoped().
		Where("id = ? AND dealership_id = ?", id, dealershipID).
		Delete(&models.AvailabilitySlot{})
	if res.Error != nil {
		http.Error(w, "Failed to delete slot", http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "Slot not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Slot deleted successfully",
	})
}
