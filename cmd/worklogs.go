package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mirkocesaro/jiralog/internal/config"
	"github.com/mirkocesaro/jiralog/internal/report"
)

var (
	worklogEmail string

	// getWorklogsCmd represents the get-worklogs command
	getWorklogsCmd = &cobra.Command{
		Use:     "get-worklogs ISSUE_KEY...",
		Aliases: []string{"jira:worklogs"},
		Short:   "Print the worklogs of one or more issues.",
		Long:    `Prints a table per issue with the worklogs of the given author, sorted by start time, and the total time spent. Pass --email all to list every author.`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runGetWorklogsCommand,
	}
)

func init() {
	getWorklogsCmd.Flags().StringVarP(&worklogEmail, "email", "e", "", "Author email to filter by, or 'all' (default $DEST_JIRA_EMAIL).")
}

func runGetWorklogsCommand(cmd *cobra.Command, args []string) error {
	env, settings, err := loadRuntime(cmd, config.DestinationJiraVars...)
	if err != nil {
		return err
	}

	email := worklogEmail
	if email == "" {
		email = env.DestJiraEmail
	}

	client := destinationJira(env, settings)
	out := cmd.OutOrStdout()
	for _, key := range args {
		worklogs, err := client.AllWorklogs(cmd.Context(), key, settings.PageSize.Jira)
		if err != nil {
			return err
		}

		summary, err := report.SummarizeWorklogs(key, worklogs, email)
		if err != nil {
			return err
		}
		if len(summary.Entries) == 0 {
			slog.Info("no worklogs for issue", "issue", key, "email", email)
			continue
		}

		if err := report.RenderTable(out, summary.Table(settings.Location())); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}
