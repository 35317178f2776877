package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/parksidehq/portal/middleware"
	"github.com/parksidehq/portal/models"
	"github.com/parksidehq/portal/utils"
)

// Overlapping windows for the same contractor/date are a known gap:
// both are accepted. If overlap rejection ever lands, this is the test
// to flip.
func TestOverlappingSlotWindowsAccepted(t *testing.T) {
	contractorID := uuid.New()
	existing := []models.AvailabilitySlot{
		{
			ID:           uuid.New(),
			ContractorID: contractorID,
			Date:         "2026-09-07",
			StartTime:    "09:00",
			EndTime:      "12:00",
			Status:       models.SlotStatusAvailable,
		},
	}

	if !utils.RangesOverlap("09:00", "12:00", "10:00", "14:00") {
		t.Fatal("fixture windows should overlap")
	}

	if err := validateSlotWindow("2026-09-07", "10:00", "14:00", existing); err != nil {
		t.Errorf("overlapping window rejected: %v", err)
	}
	if err := validateSlotWindow("2026-09-07", "09:00", "12:00", existing); err != nil {
		t.Errorf("identical window rejected: %v", err)
	}
}

func TestValidateSlotWindowShape(t *testing.T) {
	if err := validateSlotWindow("2026-09-07", "08:00", "12:00", nil); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}
	if err := validateSlotWindow("not-a-date", "08:00", "12:00", nil); err == nil {
		t.Error("expected error for malformed date")
	}
	if err := validateSlotWindow("2026-09-07", "12:00", "08:00", nil); err == nil {
		t.Error("expected error for end before start")
	}
	if err := validateSlotWindow("2026-09-07", "08:00", "08:00", nil); err == nil {
		t.Error("expected error for zero-length window")
	}
}

func TestRequireDealership(t *testing.T) {
	// No claims at all: legacy or malformed token, refused.
	r := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()
	if _, ok := requireDealership(w, r); ok {
		t.Error("request without claims should be refused")
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, expected 403", w.Code)
	}

	// Claims present but no dealership bound: same refusal.
	r = httptest.NewRequest(http.MethodPost, "/api/v1/jobs", nil)
	r = r.WithContext(middleware.WithClaims(r.Context(), &middleware.Claims{
		UserID: uuid.NewString(),
		Role:   models.RoleDispatcher,
	}))
	w = httptest.NewRecorder()
	if _, ok := requireDealership(w, r); ok {
		t.Error("dealership-less claims should be refused")
	}
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, expected 403", w.Code)
	}

	// Properly bound token passes through with its tenant id.
	want := uuid.New()
	r = httptest.NewRequest(http.MethodPost, "/api/v1/jobs", nil)
	r = r.WithContext(middleware.WithClaims(r.Context(), &middleware.Claims{
		UserID:       uuid.NewString(),
		Role:         models.RoleDispatcher,
		DealershipID: want.String(),
	}))
	w = httptest.NewRecorder()
	got, ok := requireDealership(w, r)
	if !ok {
		t.Fatalf("bound token refused: %d %s", w.Code, w.Body.String())
	}
	if got != want {
		t.Errorf("resolved dealership %s, expected %s", got, want)
	}
}
