package models

import (
	"testing"
	"time"
)

func TestJSONTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"rfc3339", `"2026-05-16T15:32:25Z"`},
		{"rfc3339 offset", `"2026-05-16T15:32:25+05:30"`},
		{"rfc3339 nanos", `"2026-05-16T15:32:25.123456789Z"`},
		{"zoneless millis", `"2026-05-16T15:32:25.000"`},
		{"zoneless micros", `"2026-05-16T15:32:25.123456"`},
		{"zoneless plain", `"2026-05-16T15:32:25"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var jt JSONTime
			if err := jt.UnmarshalJSON([]byte(tt.input)); err != nil {
				t.Fatalf("UnmarshalJSON(%s) failed: %v", tt.input, err)
			}
			got := time.Time(jt)
			if got.Year() != 2026 || got.Minute() != 32 || got.Second() != 25 {
				t.Errorf("parsed %v from %s", got, tt.input)
			}
		})
	}

	var jt JSONTime
	if err := jt.UnmarshalJSON([]byte(`"16/05/2026"`)); err == nil {
		t.Error("expected error for unsupported date shape")
	}
}

func TestJSONTimeMarshalRoundTrip(t *testing.T) {
	orig := JSONTime(time.Date(2026, 5, 16, 15, 32, 25, 0, time.UTC))
	b, err := orig.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(b) != `"2026-05-16T15:32:25Z"` {
		t.Errorf("MarshalJSON = %s, expected RFC3339", b)
	}

	var back JSONTime
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("round trip unmarshal failed: %v", err)
	}
	if !time.Time(back).Equal(time.Time(orig)) {
		t.Errorf("round trip changed value: %v vs %v", time.Time(back), time.Time(orig))
	}
}
