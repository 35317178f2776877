package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/parksidehq/portal/config"
	"github.com/parksidehq/portal/middleware"
	"github.com/parksidehq/portal/models"
)

// GetNotifications lists the tenant's notifications, newest first.
// ?unread=true narrows to unread ones.
func GetNotifications(w http.ResponseWriter, r *http.Request) {
	dealershipID := middleware.GetDealershipID(r)

	q := config.DB.Where("dealership_id = ?", dealershipID).Order("created_at DESC").Limit(200)
	if r.URL.Query().Get("unread") == "true" {
		q = q.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := q.Find(&notifications).Error; err != nil {
		http.Error(w, "failed to load notifications", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// MarkNotificationRead flags one notification as read.
func MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	dealershipID := middleware.GetDealershipID(r)

	var notification models.Notification
	if err := config.DB.First(&notification, "id = ? AND dealership_id = ?", id, dealershipID).Error; err != nil {
		http.Error(w, "notification not found", http.StatusNotFound)
		return
	}

	if !notification.IsRead {
		now := time.Now()
		notification.IsRead = true
		notification.ReadAt = &now
		if err := config.DB.Save(&notification).Error; err != nil {
			http.Error(w, "failed to update notification", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notification)
}
