package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/parksidehq/portal/config"
	"github.com/parksidehq/portal/middleware"
	"github.com/parksidehq/portal/models"
	"github.com/parksidehq/portal/utils"
)

// CreateContractorRequest represents the request to add a contractor
type CreateContractorRequest struct {
	Name      string  `json:"name"`
	Trade     string  `json:"trade"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   *string `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateContractorRequest represents a partial contractor update
type UpdateContractorRequest struct {
	Name      *string  `json:"name,omitempty"`
	Trade     *string  `json:"trade,omitempty"`
	Email     *string  `json:"email,omitempty"`
	Phone     *string  `json:"phone,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	IsActive  *bool    `json:"isActive,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

// CreateContractor adds a contractor to the directory
func CreateContractor(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	var req CreateContractorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Email == "" || req.Phone == "" {
		http.Error(w, "Name, email and phone are required", http.StatusBadRequest)
		return
	}
	if !models.ValidTrade(req.Trade) {
		http.Error(w, "Unknown trade", http.StatusBadRequest)
		return
	}
	if err := utils.ValidateCoordinate(req.Latitude, req.Longitude); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	contractor := models.Contractor{
		DealershipID: dealershipID,
		Name:         req.Name,
		Trade:        models.Trade(req.Trade),
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		IsActive:     true,
		Notes:        req.Notes,
	}

	if err := config.DB.Create(&contractor).Error; err != nil {
		log.Printf("❌ Failed to create contractor: %v", err)
		http.Error(w, "Failed to create contractor", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Created contractor: %s (%s)", contractor.Name, contractor.Trade)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(contractor)
}

// GetContractor returns one contractor with its derived job list.
// Another tenant's contractor reads as not found.
func GetContractor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var contractor models.Contractor
	if err := config.DB.First(&contractor, "id = ? AND dealership_id = ?", id, middleware.GetDealershipID(r)).Error; err != nil {
		http.Error(w, "Contractor not found", http.StatusNotFound)
		return
	}

	view, err := contractorView(contractor)
	if err != nil {
		http.Error(w, "Failed to load contractor jobs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

// GetAllContractors lists the tenant's contractors with derived job lists
func GetAllContractors(w http.ResponseWriter, r *http.Request) {
	dealershipID := middleware.GetDealershipID(r)

	var contractors []models.Contractor
	if err := config.DB.Where("dealership_id = ?", dealershipID).
		Order("name").Find(&contractors).Error; err != nil {
		http.Error(w, "Failed to load contractors", http.StatusInternalServerError)
		return
	}

	views := make([]models.ContractorView, 0, len(contractors))
	for _, c := range contractors {
		view, err := contractorView(c)
		if err != nil {
			http.Error(w, "Failed to load contractor jobs", http.StatusInternalServerError)
			return
		}
		views = append(views, view)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

// UpdateContractor merges a partial update into a contractor
func UpdateContractor(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]

	var req UpdateContractorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var contractor models.Contractor
	if err := config.DB.First(&contractor, "id = ? AND dealership_id = ?", id, dealershipID).Error; err != nil {
		http.Error(w, "Contractor not found", http.StatusNotFound)
		return
	}

	if req.Name != nil {
		contractor.Name = *req.Name
	}
	if req.Trade != nil {
		if !models.ValidTrade(*req.Trade) {
			http.Error(w, "Unknown trade", http.StatusBadRequest)
			return
		}
		contractor.Trade = models.Trade(*req.Trade)
	}
	if req.Email != nil {
		contractor.Email = *req.Email
	}
	if req.Phone != nil {
		contractor.Phone = *req.Phone
	}
	if req.Address != nil {
		contractor.Address = req.Address
	}
	if req.Latitude != nil && req.Longitude != nil {
		if err := utils.ValidateCoordinate(*req.Latitude, *req.Longitude); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		contractor.Latitude = *req.Latitude
		contractor.Longitude = *req.Longitude
	}
	if req.IsActive != nil {
		contractor.IsActive = *req.IsActive
	}
	if req.Notes != nil {
		contractor.Notes = req.Notes
	}

	if err := config.DB.Save(&contractor).Error; err != nil {
		log.Printf("❌ Failed to update contractor %s: %v", id, err)
		http.Error(w, "Failed to update contractor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(contractor)
}

// DeleteContractor removes a contractor and cascades: availability is
// deleted and live jobs revert to pending.
func DeleteContractor(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]

	contractorID, err := parseUUID(id)
	if err != nil {
		http.Error(w, "Invalid contractor id", http.StatusBadRequest)
		return
	}

	engine := NewDispatchEngine()
	if err := engine.DeleteContractorCascade(dealershipID, contractorID); err != nil {
		if errors.Is(err, ErrContractorNotFound) {
			http.Error(w, "Contractor not found", http.StatusNotFound)
			return
		}
		log.Printf("❌ Failed to delete contractor %s: %v", id, err)
		http.Error(w, "Failed to delete contractor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Contractor deleted successfully",
	})
}

// SearchContractors filters the directory. q matches name, email,
// phone, and notes case-insensitively; trade/active/minRating/
// availableToday are predicate filters on top.
func SearchContractors(w http.ResponseWriter, r *http.Request) {
	dealershipID := middleware.GetDealershipID(r)
	params := r.URL.Query()

	q := config.DB.Where("dealership_id = ?", dealershipID)

	if search := strings.TrimSpace(params.Get("q")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR LOWER(COALESCE(notes, '')) LIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if trade := params.Get("trade"); trade != "" {
		if !models.ValidTrade(trade) {
			http.Error(w, "Unknown trade", http.StatusBadRequest)
			return
		}
		q = q.Where("trade = ?", trade)
	}
	if active := params.Get("active"); active != "" {
		q = q.Where("is_active = ?", active == "true")
	}
	if minRating := params.Get("minRating"); minRating != "" {
		rating, err := strconv.ParseFloat(minRating, 64)
		if err != nil {
			http.Error(w, "Invalid minRating", http.StatusBadRequest)
			return
		}
		q = q.Where("rating >= ?", rating)
	}

	var contractors []models.Contractor
	if err := q.Order("name").Find(&contractors).Error; err != nil {
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}

	if params.Get("availableToday") == "true" {
		today := time.Now().Format(utils.DateLayout)
		filtered := contractors[:0]
		for _, c := range contractors {
			var count int64
			config.DB.Model(&models.AvailabilitySlot{}).
				Where("contractor_id = ? AND date = ? AND status = ?", c.ID, today, models.SlotStatusAvailable).
				Count(&count)
			if count > 0 {
				filtered = append(filtered, c)
			}
		}
		contractors = filtered
	}

	views := make([]models.ContractorView, 0, len(contractors))
	for _, c := range contractors {
		view, err := contractorView(c)
		if err != nil {
			http.Error(w, "Failed to load contractor jobs", http.StatusInternalServerError)
			return
		}
		views = append(views, view)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

func contractorView(c models.Contractor) (models.ContractorView, error) {
	ids, err := assignedJobIDs(config.DB, c.ID)
	if err != nil {
		return models.ContractorView{}, err
	}
	return models.ContractorView{Contractor: c, AssignedJobIDs: ids}, nil
}
