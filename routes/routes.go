package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/parksidehq/portal/handlers"
	"github.com/parksidehq/portal/middleware"
	"github.com/parksidehq/portal/models"
)

var dispatcherRoles = []string{models.RoleAdmin, models.RoleDispatcher}
var adminRoles = []string{models.RoleAdmin}

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/me", handlers.GetCurrentUser).Methods("GET")
	api.HandleFunc("/profile", handleProfile).Methods("GET")

	registerContractorRoutes(api)
	registerDispatchRoutes(api)
	registerInventoryRoutes(api)
	registerNotificationRoutes(api)

	return r
}

func registerContractorRoutes(api *mux.Router) {
	// Directory reads
	api.HandleFunc("/contractors", handlers.GetAllContractors).Methods("GET")
	api.HandleFunc("/contractors/search", handlers.SearchContractors).Methods("GET")
	api.HandleFunc("/contractors/{id}", handlers.GetContractor).Methods("GET")
	api.HandleFunc("/contractors/{id}/jobs", handlers.GetJobsByContractor).Methods("GET")
	api.HandleFunc("/contractors/{id}/availability", handlers.GetAvailability).Methods("GET")

	// Directory writes (dispatcher and up)
	api.Handle("/contractors", requireDispatcher(handlers.CreateContractor)).Methods("POST")
	api.Handle("/contractors/{id}", requireDispatcher(handlers.UpdateContractor)).Methods("PUT")
	api.Handle("/contractors/{id}", requireAdmin(handlers.DeleteContractor)).Methods("DELETE")
	api.Handle("/contractors/{id}/availability", requireDispatcher(handlers.AddSlot)).Methods("POST")
	api.Handle("/availability/{id}", requireDispatcher(handlers.UpdateSlot)).Methods("PUT")
	api.Handle("/availability/{id}", requireDispatcher(handlers.DeleteSlot)).Methods("DELETE")
}

func registerDispatchRoutes(api *mux.Router) {
	// Jobs
	api.HandleFunc("/jobs", handlers.GetAllJobs).Methods("GET")
	api.HandleFunc("/jobs/pending", handlers.GetPendingJobs).Methods("GET")
	api.HandleFunc("/jobs/{id}", handlers.GetJob).Methods("GET")
	api.HandleFunc("/jobs/{id}/candidates", handlers.GetJobCandidates).Methods("GET")
	api.Handle("/jobs", requireDispatcher(handlers.CreateJob)).Methods("POST")
	api.Handle("/jobs/{id}", requireDispatcher(handlers.UpdateJob)).Methods("PUT")
	api.Handle("/jobs/{id}/status", requireDispatcher(handlers.UpdateJobStatus)).Methods("PUT")

	// Dispatch board
	api.HandleFunc("/dispatch/board", handlers.GetDispatchBoard).Methods("GET")
	api.Handle("/dispatch/assign", requireDispatcher(handlers.AssignJob)).Methods("POST")
	api.Handle("/dispatch/unassign", requireDispatcher(handlers.UnassignJob)).Methods("POST")
}

func registerInventoryRoutes(api *mux.Router) {
	api.HandleFunc("/inventory", handlers.GetInventory).Methods("GET")
	api.HandleFunc("/inventory/export", handlers.ExportInventoryToExcel).Methods("GET")
	api.HandleFunc("/inventory/export/csv", handlers.ExportInventoryToCSV).Methods("GET")
	api.HandleFunc("/inventory/{id}", handlers.GetVehicle).Methods("GET")
	api.Handle("/inventory/{id}", requireAdmin(handlers.DeleteVehicle)).Methods("DELETE")

	// Smart import wizard
	api.Handle("/inventory/import/preview", requireDispatcher(handlers.PreviewInventoryImport)).Methods("POST")
	api.Handle("/inventory/import/commit", requireDispatcher(handlers.CommitInventoryImport)).Methods("POST")
}

func registerNotificationRoutes(api *mux.Router) {
	api.HandleFunc("/notifications", handlers.GetNotifications).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", handlers.MarkNotificationRead).Methods("PUT")
}

func requireDispatcher(h http.HandlerFunc) http.Handler {
	return middleware.RequireRole(dispatcherRoles, h)
}

func requireAdmin(h http.HandlerFunc) http.Handler {
	return middleware.RequireRole(adminRoles, h)
}

func handleProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	user := middleware.GetUser(r)

	response := map[string]interface{}{
		"userID":       claims.UserID,
		"name":         user.Name,
		"phone":        user.Phone,
		"role":         user.Role,
		"dealershipId": claims.DealershipID,
	}
	json.NewEncoder(w).Encode(response)
}
