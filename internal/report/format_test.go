package report

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int64
		expected string
	}{
		{0, ""},
		{59, ""},
		{1800, "30m"},
		{3600, "1h"},
		{5400, "1h 30m"},
		{6300, "1h 45m"},
		{3659, "1h"},
		{36000 + 60, "10h 1m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.expected {
			t.Errorf("FormatDuration(%d): expected %q, got %q", tt.seconds, tt.expected, got)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(5400, 4); got != "1.5000" {
		t.Errorf("expected 1.5000, got %q", got)
	}
	if got := FormatHours(1000, 4); got != "0.2778" {
		t.Errorf("expected 0.2778, got %q", got)
	}
}

func TestFormatEstimate(t *testing.T) {
	v := int64(5400)
	if got := FormatEstimate(&v); got != "2" {
		t.Errorf("expected whole hours 2, got %q", got)
	}
	if got := FormatEstimate(nil); got != "" {
		t.Errorf("expected empty for unset estimate, got %q", got)
	}
}

func TestFormatDayAndStamp(t *testing.T) {
	day, err := FormatDay("2024-03-05")
	if err != nil || day != "05/03/2024" {
		t.Errorf("expected 05/03/2024, got %q (%v)", day, err)
	}
	if _, err := FormatDay("05/03/2024"); err == nil {
		t.Error("expected error for malformed date")
	}

	cet := time.FixedZone("CET", 3600)
	stamp, err := FormatStamp("2024-03-05T08:30:00Z", cet)
	if err != nil || stamp != "2024-03-05 09:30" {
		t.Errorf("expected 2024-03-05 09:30, got %q (%v)", stamp, err)
	}
	if stamp, err := FormatStamp("", cet); err != nil || stamp != "" {
		t.Errorf("expected empty stamp for empty input, got %q (%v)", stamp, err)
	}
}
