package handlers

import (
	"strings"
	"testing"

	"github.com/parksidehq/portal/models"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"VIN", "vin"},
		{"Body_Style", "body style"},
		{"body-style", "body style"},
		{"  Asking Price ", "asking price"},
		{"LOT__RENT", "lot rent"},
		{"Zip Code", "zip code"},
		{"###", ""},
	}

	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.expected {
			t.Errorf("normalizeHeader(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestDetectInventoryType(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		expected models.VehicleType
	}{
		{
			"rv headers",
			[]string{"VIN", "Make", "Model", "Year", "Price", "Body_Style"},
			models.VehicleTypeRV,
		},
		{
			"mh headers",
			[]string{"Home_Type", "Serial_Number", "Lot_Rent", "Make", "Year"},
			models.VehicleTypeMH,
		},
		{
			"signals from both sides",
			[]string{"VIN", "Home_Type", "Make"},
			models.VehicleTypeUnknown,
		},
		{
			"no signals at all",
			[]string{"Make", "Model", "Year", "Price"},
			models.VehicleTypeUnknown,
		},
		{
			"empty header row",
			[]string{},
			models.VehicleTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectInventoryType(tt.headers); got != tt.expected {
				t.Errorf("DetectInventoryType(%v) = %q, expected %q", tt.headers, got, tt.expected)
			}
		})
	}
}

func TestMatchConfidence(t *testing.T) {
	if got := matchConfidence("VIN", "vin"); got != 1.0 {
		t.Errorf("exact normalized match = %v, expected 1.0", got)
	}
	if got := matchConfidence("Body_Style", "body style"); got != 1.0 {
		t.Errorf("punctuation-insensitive match = %v, expected 1.0", got)
	}
	if got := matchConfidence("warranty info", "vin"); got != 0 {
		t.Errorf("unrelated header = %v, expected 0", got)
	}

	// Substring overlap is scored by length ratio times 0.8.
	got := matchConfidence("price usd", "price")
	expected := float64(len("price")) / float64(len("price usd")) * 0.8
	if got != expected {
		t.Errorf("partial match = %v, expected %v", got, expected)
	}
	if got >= 1.0 {
		t.Errorf("partial match %v should be below exact confidence", got)
	}
}

func TestSuggestColumnMappings(t *testing.T) {
	headers := []string{"VIN", "Make", "Warranty Info", "pr"}
	mappings := SuggestColumnMappings(headers, models.VehicleTypeRV)

	byHeader := map[string]ColumnMapping{}
	for _, m := range mappings {
		byHeader[m.Header] = m
	}

	if m := byHeader["VIN"]; m.Field != "vin" || m.Confidence != 1.0 {
		t.Errorf("VIN mapping = %+v, expected field vin at confidence 1.0", m)
	}
	if m := byHeader["Make"]; m.Field != "make" || m.Confidence != 1.0 {
		t.Errorf("Make mapping = %+v, expected field make at confidence 1.0", m)
	}
	if m := byHeader["Warranty Info"]; m.Field != "" || m.Confidence != 0 || m.Suggestion != "" {
		t.Errorf("unmatched header = %+v, expected no suggestion at confidence 0", m)
	}

	// "pr" overlaps "price" but too weakly to auto-apply.
	if m := byHeader["pr"]; m.Field != "" {
		t.Errorf("below-threshold mapping auto-applied: %+v", m)
	} else if m.Suggestion == "" || m.Confidence <= 0 || m.Confidence >= mappingThreshold {
		t.Errorf("below-threshold mapping should keep a weak suggestion: %+v", m)
	}
}

func TestValidateRVRow(t *testing.T) {
	clean := map[string]string{
		"vin": "1FDXE45S0YHA12345", "make": "Forest River", "model": "Salem",
		"year": "2021", "price": "38500",
	}
	if errs := ValidateRow(1, clean, models.VehicleTypeRV); len(errs) != 0 {
		t.Errorf("clean RV row produced errors: %v", errs)
	}

	dirty := map[string]string{
		"make": "Forest River", "model": "Salem", "year": "1850", "price": "-5",
	}
	errs := ValidateRow(2, dirty, models.VehicleTypeRV)
	fields := map[string]bool{}
	for _, e := range errs {
		if e.Row != 2 {
			t.Errorf("error carries row %d, expected 2", e.Row)
		}
		fields[e.Field] = true
	}
	for _, want := range []string{"vin", "year", "price"} {
		if !fields[want] {
			t.Errorf("expected an error for field %q, got %v", want, errs)
		}
	}
}

func TestValidateMHRow(t *testing.T) {
	clean := map[string]string{
		"askingPrice": "89500", "homeType": "double_wide", "make": "Clayton",
		"year": "2019", "bedrooms": "3", "bathrooms": "2",
		"address1": "14 Birch Ln", "city": "Wyoming", "state": "MI", "zip9": "49519",
	}
	if errs := ValidateRow(1, clean, models.VehicleTypeMH); len(errs) != 0 {
		t.Errorf("clean MH row produced errors: %v", errs)
	}

	dirty := map[string]string{
		"askingPrice": "0", "make": "Clayton", "year": "2019",
		"bedrooms": "-1", "bathrooms": "2",
		"city": "Wyoming", "state": "MI",
	}
	errs := ValidateRow(3, dirty, models.VehicleTypeMH)
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, want := range []string{"askingPrice", "homeType", "bedrooms", "address1", "zip9"} {
		if !fields[want] {
			t.Errorf("expected an error for field %q, got %v", want, errs)
		}
	}
}

func TestRunImportRVEndToEnd(t *testing.T) {
	csvData := strings.Join([]string{
		"vin,make,model,year,price",
		"1FDXE45S0YHA11111,Forest River,Salem,2021,38500",
		"1FDXE45S0YHA22222,Jayco,Eagle,2022,41200",
		"1FDXE45S0YHA33333,Keystone,Cougar,2020,35900",
	}, "\n")

	headers, rows, err := parseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}

	result := RunImport(headers, rows, nil, "")
	if result.DetectedType != models.VehicleTypeRV {
		t.Errorf("detected type %q, expected RV", result.DetectedType)
	}
	if result.WillCreate != 3 {
		t.Errorf("willCreate = %d, expected 3", result.WillCreate)
	}
	if result.CleanRows != 3 {
		t.Errorf("cleanRows = %d, expected 3", result.CleanRows)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v, expected none", result.Errors)
	}

	seen := map[string]bool{}
	for _, v := range result.Preview {
		if v.VehicleType != models.VehicleTypeRV {
			t.Errorf("vehicle type %q, expected RV", v.VehicleType)
		}
		if seen[v.ID.String()] {
			t.Errorf("duplicate generated id %s", v.ID)
		}
		seen[v.ID.String()] = true
	}

	// A second pass over the same file must not reuse ids.
	again := RunImport(headers, rows, nil, "")
	for _, v := range again.Preview {
		if seen[v.ID.String()] {
			t.Errorf("re-import reused id %s", v.ID)
		}
	}
}

func TestRunImportMHDirtyRowStaysInBatch(t *testing.T) {
	csvData := strings.Join([]string{
		"home_type,make,year,asking price,bedrooms,bathrooms,address,city,state,zip",
		"double_wide,Clayton,2019,89500,3,2,14 Birch Ln,Wyoming,MI,49519",
		"single_wide,Champion,2015,0,2,1,7 Cedar Ct,Kentwood,MI,49512",
	}, "\n")

	headers, rows, err := parseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}

	result := RunImport(headers, rows, nil, "")
	if result.DetectedType != models.VehicleTypeMH {
		t.Fatalf("detected type %q, expected MH", result.DetectedType)
	}

	// Row 2 fails validation (askingPrice=0) but still converted.
	if result.WillCreate != 2 {
		t.Errorf("willCreate = %d, expected 2", result.WillCreate)
	}
	if result.CleanRows != 1 {
		t.Errorf("cleanRows = %d, expected 1", result.CleanRows)
	}
	if len(result.Errors) == 0 {
		t.Error("expected a validation error for the zero asking price")
	}
	for _, e := range result.Errors {
		if e.Row != 2 {
			t.Errorf("error on row %d, expected all errors on row 2", e.Row)
		}
	}
}

func TestRunImportDropsUnconvertibleRows(t *testing.T) {
	csvData := strings.Join([]string{
		"vin,make,model,year,price",
		"1FDXE45S0YHA11111,Forest River,Salem,2021,38500",
		",,,,",
	}, "\n")

	headers, rows, err := parseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}

	result := RunImport(headers, rows, nil, "")
	if result.WillCreate != 1 {
		t.Errorf("willCreate = %d, expected 1 (empty row dropped)", result.WillCreate)
	}

	dropped := false
	for _, e := range result.Errors {
		if e.Row == 2 && e.Field == "" && e.Message == "failed to convert row" {
			dropped = true
		}
	}
	if !dropped {
		t.Errorf("expected a generic conversion error for row 2, got %v", result.Errors)
	}
}

func TestRunImportMappingOverrides(t *testing.T) {
	csvData := strings.Join([]string{
		"vin,make,model,year,price,shed included",
		"1FDXE45S0YHA11111,Forest River,Salem,2021,38500,yes",
	}, "\n")

	headers, rows, err := parseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}

	overrides := SuggestColumnMappings(headers, models.VehicleTypeRV)
	for i := range overrides {
		if overrides[i].Header == "shed included" {
			overrides[i].Field = "shedIncluded" // user-confirmed custom target
		}
	}

	result := RunImport(headers, rows, overrides, models.VehicleTypeRV)
	if result.WillCreate != 1 {
		t.Fatalf("willCreate = %d, expected 1", result.WillCreate)
	}
	v := result.Preview[0]
	if v.Attributes == nil || !strings.Contains(string(v.Attributes), "shedIncluded") {
		t.Errorf("custom-mapped field missing from attributes: %s", v.Attributes)
	}
}

func TestConvertRowRequiresIdentifyingField(t *testing.T) {
	// A row whose only mapped cell is the status default carries no
	// actual unit data and must not convert.
	if _, err := ConvertRow(map[string]string{"status": "available"}, models.VehicleTypeRV); err == nil {
		t.Error("status-only row should fail conversion")
	}
	if _, err := ConvertRow(map[string]string{}, models.VehicleTypeRV); err == nil {
		t.Error("empty row should fail conversion")
	}
	if v, err := ConvertRow(map[string]string{"make": "Jayco"}, models.VehicleTypeRV); err != nil {
		t.Errorf("row with real data failed conversion: %v", err)
	} else if v.Make != "Jayco" {
		t.Errorf("make = %q, expected Jayco", v.Make)
	}
}

func TestRunImportDropsStatusOnlyRows(t *testing.T) {
	csvData := strings.Join([]string{
		"vin,make,model,year,price,status",
		"1FDXE45S0YHA11111,Forest River,Salem,2021,38500,available",
		",,,,,available",
	}, "\n")

	headers, rows, err := parseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}

	result := RunImport(headers, rows, nil, "")
	if result.WillCreate != 1 {
		t.Errorf("willCreate = %d, expected 1 (status-only row dropped)", result.WillCreate)
	}
}

func TestParseImportFileRejectsUnknownExtension(t *testing.T) {
	if _, _, err := ParseImportFile("inventory.pdf", strings.NewReader("x")); err == nil {
		t.Error("expected error for unsupported file type")
	}
}
