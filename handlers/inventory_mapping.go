package handlers

import (
	"strings"

	"github.com/parksidehq/portal/models"
)

// ColumnMapping links one file header to a canonical vehicle field.
// Below-threshold matches stay unmapped (Field empty) but keep the
// scored suggestion so the user can accept it before committing.
type ColumnMapping struct {
	Header     string  `json:"header"`
	Field      string  `json:"field"`
	Suggestion string  `json:"suggestion,omitempty"`
	Confidence float64 `json:"confidence"`
}

// mappingThreshold is the confidence below which a suggestion is not
// auto-applied.
const mappingThreshold = 0.5

// rvFieldSynonyms maps canonical RV listing fields to the header
// spellings seen in dealer exports.
var rvFieldSynonyms = map[string][]string{
	"vin":         {"vin", "vin number", "vehicle identification number"},
	"make":        {"make", "brand", "manufacturer"},
	"model":       {"model", "model name"},
	"year":        {"year", "model year"},
	"price":       {"price", "asking price", "sale price", "list price", "msrp"},
	"bodyStyle":   {"body style", "rv type", "rv class", "class"},
	"mileage":     {"mileage", "miles", "odometer"},
	"fuelType":    {"fuel type", "fuel"},
	"slideouts":   {"slideouts", "slide outs", "slides"},
	"lengthFt":    {"length", "length ft", "length feet"},
	"condition":   {"condition"},
	"status":      {"status", "availability"},
	"description": {"description", "comments", "details"},
}

// mhFieldSynonyms is the manufactured-home counterpart.
var mhFieldSynonyms = map[string][]string{
	"askingPrice":  {"asking price", "price", "sale price", "list price"},
	"homeType":     {"home type", "home style"},
	"make":         {"make", "manufacturer", "brand"},
	"model":        {"model", "model name"},
	"year":         {"year", "model year", "year built"},
	"bedrooms":     {"bedrooms", "beds", "bedroom count"},
	"bathrooms":    {"bathrooms", "baths", "bathroom count"},
	"widthFt":      {"width", "width ft"},
	"lengthFt":     {"length", "length ft"},
	"serialNumber": {"serial number", "serial", "hud number"},
	"lotRent":      {"lot rent", "site rent", "space rent"},
	"community":    {"community", "community name", "park", "park name"},
	"address1":     {"address", "address 1", "street address"},
	"city":         {"city"},
	"state":        {"state"},
	"zip9":         {"zip", "zip code", "postal code"},
	"condition":    {"condition"},
	"status":       {"status", "availability"},
	"description":  {"description", "comments", "details"},
}

// Headers that positively identify one schema over the other.
var rvSignals = []string{"vin", "body style", "mileage", "fuel type", "slideouts", "slide outs"}
var mhSignals = []string{"home type", "serial number", "lot rent", "community", "bedrooms", "bathrooms"}

// normalizeHeader lowercases and collapses every run of
// non-alphanumeric characters, so "Body_Style", "body-style" and
// "Body Style " all compare equal.
func normalizeHeader(s string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		default:
			pendingSpace = true
		}
	}
	return b.String()
}

// DetectInventoryType infers the record schema from the header set.
// Signals from both sides, or from neither, leave the type unknown and
// the mapper falls back to the RV dictionary.
func DetectInventoryType(headers []string) models.VehicleType {
	normalized := make(map[string]bool, len(headers))
	for _, h := range headers {
		normalized[normalizeHeader(h)] = true
	}

	rvHits, mhHits := 0, 0
	for _, sig := range rvSignals {
		if normalized[sig] {
			rvHits++
		}
	}
	for _, sig := range mhSignals {
		if normalized[sig] {
			mhHits++
		}
	}

	switch {
	case rvHits > 0 && mhHits == 0:
		return models.VehicleTypeRV
	case mhHits > 0 && rvHits == 0:
		return models.VehicleTypeMH
	default:
		return models.VehicleTypeUnknown
	}
}

// synonymsFor returns the dictionary for a detected type; unknown
// defaults to RV.
func synonymsFor(vt models.VehicleType) map[string][]string {
	if vt == models.VehicleTypeMH {
		return mhFieldSynonyms
	}
	return rvFieldSynonyms
}

// matchConfidence scores one header against one synonym: 1.0 for an
// exact normalized match, a length-ratio-scaled 0.8 for a substring
// overlap, 0 otherwise.
func matchConfidence(header, synonym string) float64 {
	h := normalizeHeader(header)
	s := normalizeHeader(synonym)
	if h == "" || s == "" {
		return 0
	}
	if h == s {
		return 1.0
	}
	shorter, longer := h, s
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer)) * 0.8
	}
	return 0
}

// SuggestColumnMappings scores every header against the type's
// dictionary and picks the best canonical field per header. Matches at
// or above the threshold are applied; weaker ones are returned as
// suggestions only; headers with no overlap at all return confidence 0
// and no suggestion.
func SuggestColumnMappings(headers []string, vt models.VehicleType) []ColumnMapping {
	dict := synonymsFor(vt)

	mappings := make([]ColumnMapping, 0, len(headers))
	for _, header := range headers {
		best := ColumnMapping{Header: header}
		for field, synonyms := range dict {
			for _, syn := range synonyms {
				if conf := matchConfidence(header, syn); conf > best.Confidence {
					best.Confidence = conf
					best.Suggestion = field
				}
			}
		}
		if best.Confidence >= mappingThreshold {
			best.Field = best.Suggestion
		}
		mappings = append(mappings, best)
	}
	return mappings
}

// fieldValues applies a mapping set to one raw row, producing
// canonicalField -> trimmed value for every mapped, non-empty cell.
func fieldValues(row map[string]string, mappings []ColumnMapping) map[string]string {
	out := make(map[string]string)
	for _, m := range mappings {
		if m.Field == "" {
			continue
		}
		if v, ok := row[m.Header]; ok {
			if v = strings.TrimSpace(v); v != "" {
				out[m.Field] = v
			}
		}
	}
	return out
}
