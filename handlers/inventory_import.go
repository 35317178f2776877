package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/parksidehq/portal/config"
	"github.com/parksidehq/portal/models"
)

// previewRows caps how many converted vehicles the preview carries.
const previewRows = 20

// RowError is one per-row validation or conversion problem. Errors are
// data, not aborts: the batch keeps going.
type RowError struct {
	Row     int    `json:"row"` // 1-based data row number
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportResult is the outcome of a preview or commit pass.
type ImportResult struct {
	DetectedType models.VehicleType `json:"detectedType"`
	Mappings     []ColumnMapping    `json:"mappings"`
	TotalRows    int                `json:"totalRows"`
	WillCreate   int                `json:"willCreate"`
	CleanRows    int                `json:"cleanRows"`
	Errors       []RowError         `json:"errors"`
	Preview      []models.Vehicle   `json:"preview,omitempty"`
	Created      int                `json:"created,omitempty"`
}

// ParseImportFile reads a CSV or XLSX upload into a header list and
// raw row maps. The format is picked by file extension; anything else
// is rejected.
func ParseImportFile(filename string, rd io.Reader) ([]string, []map[string]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(rd)
	case ".xlsx":
		return parseXLSX(rd)
	default:
		return nil, nil, fmt.Errorf("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(filename))
	}
}

func parseCSV(rd io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(rd)
	reader.FieldsPerRecord = -1 // ragged rows become short maps, not errors

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("file has no header row")
	}
	return rowsFromRecords(records)
}

func parseXLSX(rd io.Reader) ([]string, []map[string]string, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}
	return rowsFromRecords(records)
}

func rowsFromRecords(records [][]string) ([]string, []map[string]string, error) {
	headers := make([]string, 0, len(records[0]))
	for _, h := range records[0] {
		headers = append(headers, strings.TrimSpace(h))
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// ValidateRow checks one mapped row against the required-field set of
// its type. Unknown types validate against the RV rules, mirroring the
// mapper's fallback.
func ValidateRow(rowNum int, fields map[string]string, vt models.VehicleType) []RowError {
	if vt == models.VehicleTypeMH {
		return validateMHRow(rowNum, fields)
	}
	return validateRVRow(rowNum, fields)
}

func validateRVRow(rowNum int, fields map[string]string) []RowError {
	var errs []RowError
	for _, required := range []string{"vin", "make", "model"} {
		if fields[required] == "" {
			errs = append(errs, RowError{Row: rowNum, Field: required, Message: required + " is required"})
		}
	}
	errs = append(errs, checkYear(rowNum, fields["year"])...)
	if v := fields["price"]; v != "" {
		if price, err := strconv.ParseFloat(v, 64); err != nil {
			errs = append(errs, RowError{Row: rowNum, Field: "price", Message: "price is not a number"})
		} else if price < 0 {
			errs = append(errs, RowError{Row: rowNum, Field: "price", Message: "price must not be negative"})
		}
	}
	return errs
}

func validateMHRow(rowNum int, fields map[string]string) []RowError {
	var errs []RowError

	switch v := fields["askingPrice"]; {
	case v == "":
		errs = append(errs, RowError{Row: rowNum, Field: "askingPrice", Message: "askingPrice is required"})
	default:
		if price, err := strconv.ParseFloat(v, 64); err != nil {
			errs = append(errs, RowError{Row: rowNum, Field: "askingPrice", Message: "askingPrice is not a number"})
		} else if price <= 0 {
			errs = append(errs, RowError{Row: rowNum, Field: "askingPrice", Message: "askingPrice must be positive"})
		}
	}

	for _, required := range []string{"homeType", "make", "address1", "city", "state", "zip9"} {
		if fields[required] == "" {
			errs = append(errs, RowError{Row: rowNum, Field: required, Message: required + " is required"})
		}
	}
	errs = append(errs, checkYear(rowNum, fields["year"])...)

	for _, count := range []string{"bedrooms", "bathrooms"} {
		v := fields[count]
		if v == "" {
			errs = append(errs, RowError{Row: rowNum, Field: count, Message: count + " is required"})
			continue
		}
		if n, err := strconv.ParseFloat(v, 64); err != nil {
			errs = append(errs, RowError{Row: rowNum, Field: count, Message: count + " is not a number"})
		} else if n < 0 {
			errs = append(errs, RowError{Row: rowNum, Field: count, Message: count + " must not be negative"})
		}
	}
	return errs
}

func checkYear(rowNum int, v string) []RowError {
	if v == "" {
		return []RowError{{Row: rowNum, Field: "year", Message: "year is required"}}
	}
	year, err := strconv.Atoi(v)
	if err != nil {
		return []RowError{{Row: rowNum, Field: "year", Message: "year is not a number"}}
	}
	if year < 1900 || year > time.Now().Year()+1 {
		return []RowError{{Row: rowNum, Field: "year", Message: fmt.Sprintf("year %d is out of range", year)}}
	}
	return nil
}

// ConvertRow builds a Vehicle from one mapped row. A row has to carry
// something beyond the type and status defaults to convert; anything
// else converts best-effort even when validation flagged it. Mapped
// fields without a dedicated column accumulate in Attributes.
func ConvertRow(fields map[string]string, vt models.VehicleType) (*models.Vehicle, error) {
	identifying := 0
	for field := range fields {
		if field != "status" {
			identifying++
		}
	}
	if identifying == 0 {
		return nil, fmt.Errorf("failed to convert row: no identifying fields")
	}

	vehicleType := vt
	if vehicleType == models.VehicleTypeUnknown {
		vehicleType = models.VehicleTypeRV
	}

	v := &models.Vehicle{
		ID:          uuid.New(), // fresh id per converted row, re-imports never collide
		VehicleType: vehicleType,
		Status:      models.VehicleStatusAvailable,
	}
	extras := map[string]string{}

	for field, value := range fields {
		switch field {
		case "make":
			v.Make = value
		case "model":
			v.Model = value
		case "year":
			if n, err := strconv.Atoi(value); err == nil {
				v.Year = n
			}
		case "price", "askingPrice":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				v.Price = f
			}
		case "status":
			v.Status = strings.ToLower(value)
		case "condition":
			v.Condition = ptr(strings.ToLower(value))
		case "description":
			v.Description = ptr(value)
		case "vin":
			v.VIN = ptr(value)
		case "bodyStyle":
			v.BodyStyle = ptr(value)
		case "mileage":
			if n, err := strconv.Atoi(value); err == nil {
				v.Mileage = &n
			}
		case "fuelType":
			v.FuelType = ptr(value)
		case "slideouts":
			if n, err := strconv.Atoi(value); err == nil {
				v.Slideouts = &n
			}
		case "lengthFt":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				v.LengthFt = &f
			}
		case "widthFt":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				v.WidthFt = &f
			}
		case "homeType":
			v.HomeType = ptr(value)
		case "serialNumber":
			v.SerialNumber = ptr(value)
		case "lotRent":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				v.LotRent = &f
			}
		case "community":
			v.Community = ptr(value)
		case "bedrooms":
			if n, err := strconv.Atoi(value); err == nil {
				v.Bedrooms = &n
			}
		case "bathrooms":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				v.Bathrooms = &f
			}
		case "address1":
			v.Address1 = ptr(value)
		case "city":
			v.City = ptr(value)
		case "state":
			v.State = ptr(value)
		case "zip9":
			v.Zip9 = ptr(value)
		default:
			// user-defined mapping target with no column of its own
			extras[field] = value
		}
	}

	if len(extras) > 0 {
		blob, err := json.Marshal(extras)
		if err != nil {
			return nil, fmt.Errorf("failed to convert row: %w", err)
		}
		v.Attributes = datatypes.JSON(blob)
	}
	return v, nil
}

// RunImport executes the mapping/validation/conversion stages over a
// parsed file. When overrides is non-nil it replaces the suggested
// mappings (the user-confirmed mapping set); forcedType similarly
// overrides detection.
func RunImport(headers []string, rows []map[string]string, overrides []ColumnMapping, forcedType models.VehicleType) *ImportResult {
	detected := forcedType
	if detected == "" {
		detected = DetectInventoryType(headers)
	}

	mappings := overrides
	if mappings == nil {
		mappings = SuggestColumnMappings(headers, detected)
	}

	result := &ImportResult{
		DetectedType: detected,
		Mappings:     mappings,
		TotalRows:    len(rows),
		Errors:       []RowError{},
	}

	for i, row := range rows {
		rowNum := i + 1
		fields := fieldValues(row, mappings)

		rowErrs := ValidateRow(rowNum, fields, detected)
		result.Errors = append(result.Errors, rowErrs...)
		if len(rowErrs) == 0 {
			result.CleanRows++
		}

		vehicle, err := ConvertRow(fields, detected)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "failed to convert row"})
			continue
		}
		result.WillCreate++
		if len(result.Preview) < previewRows {
			result.Preview = append(result.Preview, *vehicle)
		}
	}
	return result
}

// PreviewInventoryImport parses an upload, detects its type, suggests
// mappings, and returns the first 20 converted rows with the full
// error list. Nothing is persisted.
func PreviewInventoryImport(w http.ResponseWriter, r *http.Request) {
	headers, rows, ok := readImportUpload(w, r)
	if !ok {
		return
	}

	result := RunImport(headers, rows, nil, "")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// CommitInventoryImport reprocesses the whole file end-to-end with the
// caller-confirmed mappings and persists the batch in one transaction.
// The preview subset is never reused.
func CommitInventoryImport(w http.ResponseWriter, r *http.Request) {
	dealershipID, ok := requireDealership(w, r)
	if !ok {
		return
	}

	headers, rows, ok := readImportUpload(w, r)
	if !ok {
		return
	}

	var overrides []ColumnMapping
	if raw := r.FormValue("mappings"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
			http.Error(w, "invalid mappings JSON", http.StatusBadRequest)
			return
		}
	}
	var forcedType models.VehicleType
	switch vt := models.VehicleType(r.FormValue("vehicleType")); vt {
	case models.VehicleTypeRV, models.VehicleTypeMH:
		forcedType = vt
	case "", models.VehicleTypeUnknown:
		// fall back to detection
	default:
		http.Error(w, "vehicleType must be RV or MH", http.StatusBadRequest)
		return
	}

	result := RunImport(headers, rows, overrides, forcedType)
	result.Preview = nil

	// Rebuild the batch for persistence; RunImport only keeps the
	// preview slice.
	var batch []models.Vehicle
	mappings := result.Mappings
	for _, row := range rows {
		fields := fieldValues(row, mappings)
		vehicle, err := ConvertRow(fields, result.DetectedType)
		if err != nil {
			continue // already recorded by RunImport
		}
		vehicle.DealershipID = dealershipID
		batch = append(batch, *vehicle)
	}

	if len(batch) > 0 {
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			for i := range batch {
				if err := tx.Create(&batch[i]).Error; err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("❌ Inventory import failed: %v", err)
			http.Error(w, "Failed to save imported inventory", http.StatusInternalServerError)
			return
		}
	}

	result.Created = len(batch)
	log.Printf("✅ Imported %d vehicles (%d rows, %d errors)", len(batch), result.TotalRows, len(result.Errors))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// readImportUpload pulls the multipart "file" field and parses it.
func readImportUpload(w http.ResponseWriter, r *http.Request) ([]string, []map[string]string, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return nil, nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return nil, nil, false
	}
	defer file.Close()

	headers, rows, err := ParseImportFile(header.Filename, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}
	return headers, rows, true
}

func ptr(s string) *string {
	return &s
}
