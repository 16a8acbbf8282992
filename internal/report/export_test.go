package report

import (
	"testing"
	"time"

	"github.com/mirkocesaro/jiralog/internal/jira"
	"github.com/mirkocesaro/jiralog/internal/tempo"
)

var projects = []string{"BMITFOX-", "BMITB2C"}

func TestExternalKey(t *testing.T) {
	tests := []struct {
		summary  string
		expected string
	}{
		{"BMITFOX-123 Fix login bug", "BMITFOX-123"},
		{"BMITB2C-7: checkout totals", "BMITB2C-7:"},
		{"Random task", ""},
		{"Fix BMITFOX-123 later", ""},
		{"", ""},
		{"   BMITFOX-9 leading blanks", "BMITFOX-9"},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			if got := ExternalKey(tt.summary, projects); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNewExportEntry(t *testing.T) {
	entry, err := NewExportEntry(tempo.Worklog{
		TempoWorklogID:   1,
		Issue:            tempo.IssueRef{ID: 10001},
		TimeSpentSeconds: 5400,
		StartDate:        "2024-03-05",
		StartTime:        "09:15:00",
		Description:      "Pairing",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.StartTime != "09:15" || entry.EndTime != "10:45" {
		t.Errorf("expected 09:15-10:45, got %s-%s", entry.StartTime, entry.EndTime)
	}
	if entry.FormattedTime != "1h 30m" {
		t.Errorf("expected 1h 30m, got %q", entry.FormattedTime)
	}

	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}
	started, err := entry.Started(rome)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := started.Format(jira.TimeLayout); got != "2024-03-05T09:15:00.000+0100" {
		t.Errorf("unexpected started %q", got)
	}

	if _, err := NewExportEntry(tempo.Worklog{StartDate: "2024-03-05", StartTime: "9am"}); err == nil {
		t.Error("expected error for malformed start time")
	}
}

func TestLinkIssues(t *testing.T) {
	entries := []ExportEntry{{IssueID: 1}, {IssueID: 2}, {IssueID: 3}}
	issues := []jira.Issue{
		{ID: "1", Key: "INT-1", Fields: jira.IssueFields{Summary: "BMITFOX-123 Fix login bug"}},
		{ID: "2", Key: "INT-2", Fields: jira.IssueFields{Summary: "Random task"}},
	}

	LinkIssues(entries, issues, projects)

	if entries[0].IssueKey != "INT-1" || entries[0].ExternalKey != "BMITFOX-123" {
		t.Errorf("unexpected first entry %+v", entries[0])
	}
	if entries[1].IssueKey != "INT-2" || entries[1].ExternalKey != "" {
		t.Errorf("unexpected second entry %+v", entries[1])
	}
	if entries[2].IssueKey != "3" || entries[2].ExternalKey != "" {
		t.Errorf("expected unknown issue to keep its id, got %+v", entries[2])
	}
}

func TestDistinctIssueIDs(t *testing.T) {
	ids := DistinctIssueIDs([]tempo.Worklog{
		{Issue: tempo.IssueRef{ID: 3}},
		{Issue: tempo.IssueRef{ID: 1}},
		{Issue: tempo.IssueRef{ID: 3}},
	})
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Errorf("expected [3 1], got %v", ids)
	}
}
