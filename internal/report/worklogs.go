package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/mirkocesaro/jiralog/internal/jira"
	"github.com/mirkocesaro/jiralog/internal/model"
)

// AllAuthors disables the author email filter.
const AllAuthors = "all"

// IssueWorklogEntry is one worklog of the get-worklogs table.
type IssueWorklogEntry struct {
	Started          time.Time
	WorklogID        string
	Author           string
	AuthorEmail      string
	TimeSpent        string
	TimeSpentSeconds int64
}

// Row renders the entry in IssueWorklogSchema order with the start time in loc.
func (e IssueWorklogEntry) Row(loc *time.Location) model.Row {
	return model.Row{
		e.Started.In(loc).Format(DayTimeLayout),
		e.WorklogID,
		e.Author,
		e.AuthorEmail,
		e.TimeSpent,
		strconv.FormatInt(e.TimeSpentSeconds, 10),
	}
}

// IssueWorklogs is the filtered worklog list of one issue.
type IssueWorklogs struct {
	IssueKey     string
	Entries      []IssueWorklogEntry
	TotalSeconds int64
}

// SummarizeWorklogs sorts worklogs by start, keeps those authored by email
// (every author when email is AllAuthors) and totals the kept time.
func SummarizeWorklogs(issueKey string, worklogs []jira.Worklog, email string) (IssueWorklogs, error) {
	entries := make([]IssueWorklogEntry, 0, len(worklogs))
	for _, w := range worklogs {
		started, err := w.StartedAt()
		if err != nil {
			return IssueWorklogs{}, fmt.Errorf("worklog %s on %s: invalid start: %w", w.ID, issueKey, err)
		}
		entries = append(entries, IssueWorklogEntry{
			Started:          started,
			WorklogID:        w.ID,
			Author:           w.Author.DisplayName,
			AuthorEmail:      w.Author.EmailAddress,
			TimeSpent:        w.TimeSpent,
			TimeSpentSeconds: w.TimeSpentSeconds,
		})
	}

	SortByStart(entries)
	entries = FilterByEmail(entries, email)

	return IssueWorklogs{
		IssueKey:     issueKey,
		Entries:      entries,
		TotalSeconds: TotalSeconds(entries),
	}, nil
}

// SortByStart orders entries by start time, keeping ties in their original order.
func SortByStart(entries []IssueWorklogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Started.Before(entries[j].Started)
	})
}

// FilterByEmail keeps entries whose author email equals email exactly.
func FilterByEmail(entries []IssueWorklogEntry, email string) []IssueWorklogEntry {
	if email == AllAuthors {
		return entries
	}
	kept := make([]IssueWorklogEntry, 0, len(entries))
	for _, e := range entries {
		if e.AuthorEmail == email {
			kept = append(kept, e)
		}
	}
	return kept
}

// TotalSeconds sums the time spent over entries.
func TotalSeconds(entries []IssueWorklogEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.TimeSpentSeconds
	}
	return total
}

// Table builds the console table for the issue.
func (s IssueWorklogs) Table(loc *time.Location) Table {
	rows := make([]model.Row, len(s.Entries))
	for i, e := range s.Entries {
		rows[i] = e.Row(loc)
	}
	return Table{
		Title:  s.IssueKey,
		Schema: model.IssueWorklogSchema,
		Rows:   rows,
		Footer: fmt.Sprintf("Total: %s", FormatDuration(s.TotalSeconds)),
	}
}
