// Package report maps worklog records into report rows and writes them out.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Date and time layouts used in rendered output.
const (
	DayLayout       = "02/01/2006"
	DayTimeLayout   = "02/01/2006 15:04"
	StampLayout     = "2006-01-02 15:04"
	ISODateLayout   = "2006-01-02"
	ClockLayout     = "15:04"
	TempoTimeLayout = "15:04:05"
)

// FormatDuration renders seconds as "<H>h <M>m", omitting zero units.
// Both units are floor-divided; leftover seconds are dropped.
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return ""
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}

// FormatHours renders seconds as decimal hours with the given number of decimals.
func FormatHours(seconds int64, decimals int) string {
	return strconv.FormatFloat(float64(seconds)/3600, 'f', decimals, 64)
}

// FormatEstimate renders an optional estimate in seconds as whole hours.
func FormatEstimate(seconds *int64) string {
	if seconds == nil {
		return ""
	}
	return strconv.FormatInt(int64(math.Round(float64(*seconds)/3600)), 10)
}

// FormatDay turns a yyyy-mm-dd date into dd/mm/yyyy.
func FormatDay(date string) (string, error) {
	t, err := time.Parse(ISODateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.Format(DayLayout), nil
}

// FormatStamp converts an RFC 3339 timestamp into loc as "yyyy-mm-dd HH:MM".
func FormatStamp(value string, loc *time.Location) (string, error) {
	if value == "" {
		return "", nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "", fmt.Errorf("invalid timestamp %q: %w", value, err)
	}
	return t.In(loc).Format(StampLayout), nil
}
