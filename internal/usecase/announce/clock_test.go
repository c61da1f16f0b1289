package announce

import (
	"testing"
	"time"
)

func TestParseLocalTime(t *testing.T) {
	tm, err := ParseLocalTime(" 09:15 ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tm.Format("15:04") != "09:15" {
		t.Fatalf("expected 09:15, got %s", tm.Format("15:04"))
	}
}

func TestParseLocalTimeInvalid(t *testing.T) {
	if _, err := ParseLocalTime("9-15"); err == nil {
		t.Fatal("expected error for invalid time format")
	}
}

func TestDueUsesLocation(t *testing.T) {
	at, _ := ParseLocalTime("09:00")
	loc := time.FixedZone("BRT", -3*60*60)

	if !Due(time.Date(2026, 10, 17, 12, 0, 30, 0, time.UTC), at, loc) {
		t.Fatal("12:00 UTC is 09:00 in BRT")
	}
	if Due(time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), at, loc) {
		t.Fatal("09:00 UTC is 06:00 in BRT")
	}
}
