package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mirkocesaro/jiralog/internal/cache"
	"github.com/mirkocesaro/jiralog/internal/config"
	"github.com/mirkocesaro/jiralog/internal/jira"
	"github.com/mirkocesaro/jiralog/internal/model"
	"github.com/mirkocesaro/jiralog/internal/report"
)

var (
	reportOutput string
	snapshotDir  string
	noSnapshots  bool

	// activityReportCmd represents the activity-report command
	activityReportCmd = &cobra.Command{
		Use:     "activity-report [date] [end_date]",
		Aliases: []string{"tempo:activity-report"},
		Short:   "Write the Tempo activity report as CSV.",
		Long:    `Fetches every Tempo worklog between date and end_date (both default to today), joins them with Jira issues, users and Tempo accounts, and writes one CSV row per worklog.`,
		Args:    cobra.MaximumNArgs(2),
		RunE:    runActivityReportCommand,
	}
)

func init() {
	activityReportCmd.Flags().StringVarP(&reportOutput, "output", "o", "report.csv", "Path of the CSV report.")
	activityReportCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", ".", "Directory for the issues.json and users.json cache snapshots.")
	activityReportCmd.Flags().BoolVar(&noSnapshots, "no-snapshots", false, "Do not write cache snapshots.")
}

func runActivityReportCommand(cmd *cobra.Command, args []string) error {
	required := append(append([]string{}, config.TempoVars...), config.SourceJiraVars...)
	env, settings, err := loadRuntime(cmd, required...)
	if err != nil {
		return err
	}

	loc := settings.Location()
	from, err := dateArg(args, 0, loc)
	if err != nil {
		return err
	}
	to, err := dateArg(args, 1, loc)
	if err != nil {
		return err
	}
	if to < from {
		return fmt.Errorf("end date %s is before start date %s", to, from)
	}

	ctx := cmd.Context()
	tempoAPI := tempoClient(env, settings)
	jiraAPI := sourceJira(env, settings)

	slog.Info("fetching accounts")
	accounts, err := tempoAPI.AllAccounts(ctx, settings.PageSize.Tempo)
	if err != nil {
		return err
	}
	slog.Info("fetching work attributes")
	attributes, err := tempoAPI.AllWorkAttributes(ctx, settings.PageSize.Tempo)
	if err != nil {
		return err
	}
	periods, err := tempoAPI.Periods(ctx, from, to)
	if err != nil {
		return err
	}

	worklogs, err := tempoAPI.AllWorklogs(ctx, from, to, settings.PageSize.Tempo)
	if err != nil {
		return err
	}
	slog.Info("worklogs fetched", "count", len(worklogs), "from", from, "to", to)

	lookups := report.NewLookups(jiraAPI, jiraAPI)
	lookups.Accounts = report.IndexAccounts(accounts)
	lookups.Attributes = report.AttributeDictionary(attributes)
	lookups.Periods = periods
	if settings.ProjectAccountFallback {
		lookups.AccountLinks = tempoAPI
	}
	if !noSnapshots {
		lookups.Issues.OnInsert(cache.JSONSnapshot[int64, jira.Issue](filepath.Join(snapshotDir, "issues.json")))
		lookups.Users.OnInsert(cache.JSONSnapshot[string, jira.User](filepath.Join(snapshotDir, "users.json")))
	}

	if err := report.PrefetchIssues(ctx, lookups, jiraAPI, worklogs, settings.PageSize.Jira); err != nil {
		return err
	}

	mapper := &report.ActivityMapper{
		Lookups:           lookups,
		Fields:            settings.Fields,
		ActivityAttribute: settings.ActivityAttribute,
		Location:          loc,
	}
	rows, err := mapper.MapAll(ctx, worklogs)
	if err != nil {
		return err
	}

	if err := report.WriteCSVFile(reportOutput, model.ActivitySchema, rows); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (%d rows)\n", reportOutput, len(rows))
	return nil
}
