package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"

	"github.com/parksidehq/portal/config"
	"github.com/parksidehq/portal/middleware"
	"github.com/parksidehq/portal/models"
)

// GetInventory lists the tenant's vehicles; optional type/status
// filters.
func GetInventory(w http.ResponseWriter, r *http.Request) {
	dealershipID := middleware.GetDealershipID(r)
	params := r.URL.Query()

	q := config.DB.Where("dealership_id = ?", dealershipID)
	if vt := params.Get("type"); vt != "" {
		q = q.Where("vehicle_type = ?", vt)
	}
	if status := params.Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var vehicles []models.Vehicle
	if err := q.Order("created_at DESC").Find(&vehicles).Error; err != nil {
		http.Error(w, "Failed to load inventory", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicles)
}

// GetVehicle returns one inventory unit
func GetVehicle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, "id = ? AND dealership_id = ?", id, middleware.GetDealershipID(r)).Error; err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

// DeleteVehicle soft-deletes one inventory unit
func DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]

	res := config.DB.Where("id = ? AND dealership_id = ?", id, dealershipID).Delete(&models.Vehicle{})
	if res.Error != nil {
		http.Error(w, "Failed to delete vehicle", http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Vehicle deleted successfully",
	})
}

var inventoryExportColumns = []string{
	"Type", "Make", "Model", "Year", "Price", "Status", "VIN",
	"Body Style", "Home Type", "Serial Number", "Bedrooms", "Bathrooms",
	"Community", "Address", "City", "State", "Zip",
}

// ExportInventoryToExcel writes the tenant's inventory as an .xlsx
// download.
func ExportInventoryToExcel(w http.ResponseWriter, r *http.Request) {
	vehicles, ok := loadExportVehicles(w, r)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheet := "Inventory"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range inventoryExportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
	}
	for rowIdx, v := range vehicles {
		for colIdx, value := range exportRow(v) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("inventory_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// ExportInventoryToCSV is the CSV counterpart.
func ExportInventoryToCSV(w http.ResponseWriter, r *http.Request) {
	vehicles, ok := loadExportVehicles(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write(inventoryExportColumns)
	for _, v := range vehicles {
		writer.Write(exportRow(v))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		http.Error(w, "Failed to write CSV file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("inventory_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func loadExportVehicles(w http.ResponseWriter, r *http.Request) ([]models.Vehicle, bool) {
	dealershipID := middleware.GetDealershipID(r)

	q := config.DB.Where("dealership_id = ?", dealershipID)
	if vt := r.URL.Query().Get("type"); vt != "" {
		q = q.Where("vehicle_type = ?", vt)
	}

	var vehicles []models.Vehicle
	if err := q.Order("created_at").Find(&vehicles).Error; err != nil {
		http.Error(w, "Failed to load inventory", http.StatusInternalServerError)
		return nil, false
	}
	return vehicles, true
}

func exportRow(v models.Vehicle) []string {
	return []string{
		string(v.VehicleType),
		v.Make,
		v.Model,
		intToCell(v.Year),
		fmt.Sprintf("%.2f", v.Price),
		v.Status,
		deref(v.VIN),
		deref(v.BodyStyle),
		deref(v.HomeType),
		deref(v.SerialNumber),
		intPtrToCell(v.Bedrooms),
		floatPtrToCell(v.Bathrooms),
		deref(v.Community),
		deref(v.Address1),
		deref(v.City),
		deref(v.State),
		deref(v.Zip9),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intToCell(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

func intPtrToCell(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%d", *n)
}

func floatPtrToCell(f *float64) string {
	if f == nil {
		return ""
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", *f), "0"), ".")
}
