// Package exporter replicates Tempo worklogs onto another Jira instance.
package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mirkocesaro/jiralog/internal/jira"
	"github.com/mirkocesaro/jiralog/internal/model"
	"github.com/mirkocesaro/jiralog/internal/report"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// WorklogCreator creates worklogs on the destination instance.
type WorklogCreator interface {
	CreateWorklog(ctx context.Context, issueKey string, worklog jira.NewWorklog) (jira.Worklog, error)
}

// Exporter shows the entries for review and replicates the confirmed ones.
type Exporter struct {
	Destination WorklogCreator
	Confirm     Confirmer
	Location    *time.Location
	Out         io.Writer
	DryRun      bool
}

// Result counts what happened to the exportable entries.
type Result struct {
	Created []jira.Worklog
	Skipped int
}

// Run prints the review table, then asks once for the whole batch and once per entry.
// Entries without an external key are shown but never replicated.
func (e *Exporter) Run(ctx context.Context, entries []report.ExportEntry) (Result, error) {
	var result Result

	rows := make([]model.Row, len(entries))
	for i, entry := range entries {
		rows[i] = entry.Row()
	}
	if err := report.RenderTable(e.Out, report.Table{Schema: model.ExportSchema, Rows: rows}); err != nil {
		return result, err
	}

	exportable := Exportable(entries)
	if len(exportable) == 0 {
		fmt.Fprintln(e.Out, "No worklogs with an external key to export")
		return result, nil
	}

	ok, err := e.Confirm.Confirm(fmt.Sprintf("Export %d worklogs?", len(exportable)))
	if err != nil {
		return result, err
	}
	if !ok {
		result.Skipped = len(exportable)
		return result, nil
	}

	for _, entry := range exportable {
		fmt.Fprintf(e.Out, "%s - exporting...\n", entry.ExternalKey)

		ok, err := e.Confirm.Confirm(fmt.Sprintf("Log %s on %s (%s %s)?", entry.FormattedTime, entry.ExternalKey, entry.Date, entry.StartTime))
		if err != nil {
			return result, err
		}
		if !ok {
			result.Skipped++
			continue
		}

		worklog, err := e.newWorklog(entry)
		if err != nil {
			return result, err
		}

		if e.DryRun {
			fmt.Fprintf(e.Out, "Dry run: would log %s on %s started %s\n", worklog.TimeSpent, entry.ExternalKey, worklog.Started)
			result.Skipped++
			continue
		}

		created, err := e.Destination.CreateWorklog(ctx, entry.ExternalKey, worklog)
		if err != nil {
			return result, fmt.Errorf("failed to export worklog of %s: %w", entry.IssueKey, err)
		}
		slog.Debug("worklog exported", "issue", entry.IssueKey, "external_key", entry.ExternalKey, "id", created.ID)
		fmt.Fprintf(e.Out, "Worklog created with ID: %s\n", created.ID)
		result.Created = append(result.Created, created)
	}

	return result, nil
}

func (e *Exporter) newWorklog(entry report.ExportEntry) (jira.NewWorklog, error) {
	loc := e.Location
	if loc == nil {
		loc = time.UTC
	}
	started, err := entry.Started(loc)
	if err != nil {
		return jira.NewWorklog{}, err
	}
	return jira.NewWorklog{
		Comment:   entry.Description,
		Started:   started.Format(jira.TimeLayout),
		TimeSpent: entry.FormattedTime,
	}, nil
}

// Exportable keeps the entries that carry an external key and a loggable duration.
func Exportable(entries []report.ExportEntry) []report.ExportEntry {
	var kept []report.ExportEntry
	for _, entry := range entries {
		if entry.ExternalKey == "" {
			continue
		}
		if entry.FormattedTime == "" {
			slog.Warn("worklog shorter than a minute, not exported", "issue", entry.IssueKey, "seconds", entry.Seconds)
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
