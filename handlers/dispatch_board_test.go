package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/parksidehq/portal/models"
	"github.com/parksidehq/portal/utils"
)

func TestBuildBoardPlacement(t *testing.T) {
	days := utils.WeekWindow(mustDate(t, "2026-08-26")) // Mon 2026-08-24 .. Sun 2026-08-30

	alice := models.Contractor{ID: uuid.New(), Name: "Alice", Trade: models.TradeElectrical}
	bob := models.Contractor{ID: uuid.New(), Name: "Bob", Trade: models.TradePlumbing}

	slots := []models.AvailabilitySlot{
		{ID: uuid.New(), ContractorID: alice.ID, Date: "2026-08-24", StartTime: "08:00", EndTime: "12:00", Status: models.SlotStatusAvailable},
		{ID: uuid.New(), ContractorID: alice.ID, Date: "2026-08-24", StartTime: "13:00", EndTime: "17:00", Status: models.SlotStatusAvailable},
		{ID: uuid.New(), ContractorID: bob.ID, Date: "2026-08-28", StartTime: "09:00", EndTime: "11:00", Status: models.SlotStatusBooked},
	}

	aliceID := alice.ID
	jobs := []models.ContractorJob{
		{ID: uuid.New(), Status: models.JobStatusAssigned, Trade: models.TradeElectrical,
			ScheduledDate: "2026-08-24", AssignedContractorID: &aliceID},
		{ID: uuid.New(), Status: models.JobStatusAssigned, Trade: models.TradeElectrical,
			ScheduledDate: "2026-08-27", AssignedContractorID: nil}, // orphaned row, must not land anywhere
	}

	board := buildBoard(days, []models.Contractor{alice, bob}, slots, jobs)

	if board.WeekStart != "2026-08-24" {
		t.Errorf("weekStart = %q, expected 2026-08-24", board.WeekStart)
	}
	if len(board.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(board.Days))
	}
	if len(board.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(board.Rows))
	}

	for _, row := range board.Rows {
		if len(row.Cells) != 7 {
			t.Fatalf("contractor %s has %d cells, expected 7", row.Contractor.Name, len(row.Cells))
		}
		for _, cell := range row.Cells {
			if cell.Slots == nil || cell.Jobs == nil {
				t.Errorf("cell %s/%s has nil collections, expected empty slices", row.Contractor.Name, cell.Date)
			}
		}
	}

	aliceMon := board.Rows[0].Cells[0]
	if len(aliceMon.Slots) != 2 {
		t.Errorf("Alice Monday carries %d slots, expected 2", len(aliceMon.Slots))
	}
	if len(aliceMon.Jobs) != 1 {
		t.Errorf("Alice Monday carries %d jobs, expected 1", len(aliceMon.Jobs))
	}

	bobFri := board.Rows[1].Cells[4]
	if bobFri.Date != "2026-08-28" {
		t.Fatalf("cell 4 date = %q, expected 2026-08-28", bobFri.Date)
	}
	if len(bobFri.Slots) != 1 || bobFri.Slots[0].Status != models.SlotStatusBooked {
		t.Errorf("Bob Friday slots = %+v, expected the single booked slot", bobFri.Slots)
	}

	// The unassigned job must not appear in any cell.
	for _, row := range board.Rows {
		for _, cell := range row.Cells {
			for _, j := range cell.Jobs {
				if j.AssignedContractorID == nil {
					t.Errorf("job without contractor placed in %s/%s", row.Contractor.Name, cell.Date)
				}
			}
		}
	}
}

func TestSortBoardRows(t *testing.T) {
	near := 1200.0
	far := 56000.0
	mid := 9800.0

	rows := []BoardRow{
		{Contractor: models.Contractor{Name: "Zed", Trade: models.TradePlumbing}, DistanceMeters: &near},
		{Contractor: models.Contractor{Name: "Ann", Trade: models.TradeElectrical}, DistanceMeters: &far},
		{Contractor: models.Contractor{Name: "Kim", Trade: models.TradeElectrical}, DistanceMeters: &mid},
	}

	sortBoardRows(rows, models.TradeElectrical)

	got := []string{rows[0].Contractor.Name, rows[1].Contractor.Name, rows[2].Contractor.Name}
	expected := []string{"Kim", "Ann", "Zed"} // trade matches first, nearest among them
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("row order = %v, expected %v", got, expected)
		}
	}
}

func TestSortBoardRowsNameTiebreak(t *testing.T) {
	d := 500.0
	rows := []BoardRow{
		{Contractor: models.Contractor{Name: "Wanda", Trade: models.TradeHVAC}, DistanceMeters: &d},
		{Contractor: models.Contractor{Name: "Carl", Trade: models.TradeHVAC}, DistanceMeters: &d},
	}
	sortBoardRows(rows, models.TradeHVAC)
	if rows[0].Contractor.Name != "Carl" {
		t.Errorf("equal-distance rows should sort by name, got %q first", rows[0].Contractor.Name)
	}
}

func TestFocusBoardOnJob(t *testing.T) {
	days := utils.WeekWindow(mustDate(t, "2026-08-24"))

	// Grand Rapids job; one nearby electrician, one in Lansing.
	nearby := models.Contractor{ID: uuid.New(), Name: "Nearby", Trade: models.TradeElectrical,
		Latitude: 42.97, Longitude: -85.67}
	distant := models.Contractor{ID: uuid.New(), Name: "Distant", Trade: models.TradeElectrical,
		Latitude: 42.7325, Longitude: -84.5555}

	board := buildBoard(days, []models.Contractor{distant, nearby}, nil, nil)

	job := &models.ContractorJob{
		ID: uuid.New(), Trade: models.TradeElectrical,
		Latitude: 42.9634, Longitude: -85.6681,
	}
	focusBoardOnJob(board, job)

	if board.Rows[0].Contractor.Name != "Nearby" {
		t.Errorf("nearest contractor should rank first, got %q", board.Rows[0].Contractor.Name)
	}
	for _, row := range board.Rows {
		if row.DistanceMeters == nil {
			t.Fatalf("row %s missing distance annotation", row.Contractor.Name)
		}
	}
	if *board.Rows[0].DistanceMeters >= *board.Rows[1].DistanceMeters {
		t.Errorf("distances not ascending: %v then %v",
			*board.Rows[0].DistanceMeters, *board.Rows[1].DistanceMeters)
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("bad fixture date %q: %v", s, err)
	}
	return parsed
}
