package models

import "testing"

func TestValidateJobTransition(t *testing.T) {
	tests := []struct {
		name string
		from JobStatus
		to   JobStatus
		ok   bool
	}{
		// Forward progression
		{"pending to assigned", JobStatusPending, JobStatusAssigned, true},
		{"assigned to en_route", JobStatusAssigned, JobStatusEnRoute, true},
		{"en_route to on_site", JobStatusEnRoute, JobStatusOnSite, true},
		{"on_site to completed", JobStatusOnSite, JobStatusCompleted, true},

		// Unassignment falls back to pending
		{"assigned back to pending", JobStatusAssigned, JobStatusPending, true},

		// Cancellation from every non-terminal state
		{"cancel pending", JobStatusPending, JobStatusCancelled, true},
		{"cancel assigned", JobStatusAssigned, JobStatusCancelled, true},
		{"cancel en_route", JobStatusEnRoute, JobStatusCancelled, true},
		{"cancel on_site", JobStatusOnSite, JobStatusCancelled, true},

		// Same-state writes are tolerated
		{"pending to pending", JobStatusPending, JobStatusPending, true},
		{"completed to completed", JobStatusCompleted, JobStatusCompleted, true},

		// Skipping states is rejected
		{"pending to en_route", JobStatusPending, JobStatusEnRoute, false},
		{"pending to on_site", JobStatusPending, JobStatusOnSite, false},
		{"pending to completed", JobStatusPending, JobStatusCompleted, false},
		{"assigned to completed", JobStatusAssigned, JobStatusCompleted, false},

		// Moving backward past assignment is rejected
		{"en_route to assigned", JobStatusEnRoute, JobStatusAssigned, false},
		{"on_site to en_route", JobStatusOnSite, JobStatusEnRoute, false},
		{"en_route to pending", JobStatusEnRoute, JobStatusPending, false},

		// Terminal states are immutable
		{"completed to pending", JobStatusCompleted, JobStatusPending, false},
		{"completed to cancelled", JobStatusCompleted, JobStatusCancelled, false},
		{"cancelled to assigned", JobStatusCancelled, JobStatusAssigned, false},
		{"cancelled to pending", JobStatusCancelled, JobStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJobTransition(tt.from, tt.to)
			if tt.ok && err != nil {
				t.Errorf("ValidateJobTransition(%q, %q) = %v, expected nil", tt.from, tt.to, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("ValidateJobTransition(%q, %q) = nil, expected error", tt.from, tt.to)
			}
		})
	}
}

func TestJobStatusIsTerminal(t *testing.T) {
	terminal := []JobStatus{JobStatusCompleted, JobStatusCancelled}
	live := []JobStatus{JobStatusPending, JobStatusAssigned, JobStatusEnRoute, JobStatusOnSite}

	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%q should be terminal", s)
		}
	}
	for _, s := range live {
		if s.IsTerminal() {
			t.Errorf("%q should not be terminal", s)
		}
	}
}

func TestValidTrade(t *testing.T) {
	for _, tr := range AllTrades {
		if !ValidTrade(string(tr)) {
			t.Errorf("ValidTrade(%q) = false, expected true", tr)
		}
	}
	for _, s := range []string{"", "carpentry", "HVAC", "Electrical"} {
		if ValidTrade(s) {
			t.Errorf("ValidTrade(%q) = true, expected false", s)
		}
	}
}
