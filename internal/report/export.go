package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mirkocesaro/jiralog/internal/jira"
	"github.com/mirkocesaro/jiralog/internal/model"
	"github.com/mirkocesaro/jiralog/internal/tempo"
)

// ExportEntry is a Tempo worklog prepared for replication to another Jira instance.
type ExportEntry struct {
	IssueID       int64
	IssueKey      string
	ExternalKey   string
	Seconds       int64
	Date          string
	StartTime     string
	EndTime       string
	FormattedTime string
	Description   string
}

// Row renders the entry in ExportSchema order.
func (e ExportEntry) Row() model.Row {
	return model.Row{
		e.IssueKey,
		e.ExternalKey,
		strconv.FormatInt(e.Seconds, 10),
		e.Date,
		e.StartTime,
		e.EndTime,
		e.FormattedTime,
		e.Description,
	}
}

// Started returns the entry start in loc.
func (e ExportEntry) Started(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(ISODateLayout+" "+ClockLayout, e.Date+" "+e.StartTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start %s %s: %w", e.Date, e.StartTime, err)
	}
	return t, nil
}

// NewExportEntry maps a Tempo worklog. The external key is filled later from the issue summary.
func NewExportEntry(w tempo.Worklog) (ExportEntry, error) {
	start, err := time.Parse(ISODateLayout+" "+TempoTimeLayout, w.StartDate+" "+w.StartTime)
	if err != nil {
		return ExportEntry{}, fmt.Errorf("worklog %d: invalid start: %w", w.TempoWorklogID, err)
	}
	end := start.Add(time.Duration(w.TimeSpentSeconds) * time.Second)

	return ExportEntry{
		IssueID:       w.Issue.ID,
		Seconds:       w.TimeSpentSeconds,
		Date:          w.StartDate,
		StartTime:     start.Format(ClockLayout),
		EndTime:       end.Format(ClockLayout),
		FormattedTime: FormatDuration(w.TimeSpentSeconds),
		Description:   w.Description,
	}, nil
}

// ExternalKey returns the first word of summary when it contains one of the project markers.
func ExternalKey(summary string, projects []string) string {
	fields := strings.Fields(summary)
	if len(fields) == 0 {
		return ""
	}
	candidate := fields[0]
	for _, project := range projects {
		if project != "" && strings.Contains(candidate, project) {
			return candidate
		}
	}
	return ""
}

// LinkIssues fills IssueKey and ExternalKey from the issues the entries point at.
// Entries whose issue is unknown keep an empty external key.
func LinkIssues(entries []ExportEntry, issues []jira.Issue, projects []string) {
	byID := make(map[int64]jira.Issue, len(issues))
	for _, issue := range issues {
		byID[issue.NumericID()] = issue
	}
	for i := range entries {
		issue, ok := byID[entries[i].IssueID]
		if !ok {
			entries[i].IssueKey = strconv.FormatInt(entries[i].IssueID, 10)
			continue
		}
		entries[i].IssueKey = issue.Key
		entries[i].ExternalKey = ExternalKey(issue.Fields.Summary, projects)
	}
}

// DistinctIssueIDs returns the issue ids referenced by worklogs in first-seen order.
func DistinctIssueIDs(worklogs []tempo.Worklog) []int64 {
	seen := make(map[int64]bool, len(worklogs))
	var ids []int64
	for _, w := range worklogs {
		if seen[w.Issue.ID] {
			continue
		}
		seen[w.Issue.ID] = true
		ids = append(ids, w.Issue.ID)
	}
	return ids
}
