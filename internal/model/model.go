// Package model defines the fixed row schemas of the reports.
package model

// Schema is an ordered list of column names.
type Schema []string

// Row holds one value per schema column, in schema order.
type Row []string

// Index returns the position of a column, or -1.
func (s Schema) Index(column string) int {
	for i, c := range s {
		if c == column {
			return i
		}
	}
	return -1
}

// Get returns the value of column in row, or "" when the column is unknown.
func (s Schema) Get(row Row, column string) string {
	i := s.Index(column)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Activity report columns.
var ActivitySchema = Schema{
	"Issue Key",
	"Issue summary",
	"Hours",
	"Work date",
	"User Account ID",
	"Full name",
	"Tempo Team",
	"Period",
	"Account Key",
	"Account Name",
	"Account Lead ID",
	"Account Category",
	"Account Customer",
	"Activity Name",
	"Component",
	"All Components",
	"Version Name",
	"Issue Type",
	"Issue Status",
	"Project Key",
	"Project Name",
	"Epic",
	"Epic Link",
	"Work Description",
	"Parent Key",
	"Reporter ID",
	"External Hours",
	"Billed Hours",
	"Issue Original Estimate",
	"Issue Remaining Estimate",
	"External Jira Key",
	"External Jira Epic",
	"External Jira Id",
	"Activity",
	"Date created",
	"Date updated",
}

// IssueWorklogSchema is the per-issue table of the get-worklogs command.
var IssueWorklogSchema = Schema{
	"started",
	"worklogId",
	"author",
	"author_email",
	"timeSpent",
	"timeSpentSeconds",
}

// ExportSchema is the review table of the extract-logs command.
var ExportSchema = Schema{
	"issue",
	"external_key",
	"time",
	"date",
	"start_time",
	"end_time",
	"formatted_time",
	"description",
}
