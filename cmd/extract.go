package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mirkocesaro/jiralog/internal/config"
	"github.com/mirkocesaro/jiralog/internal/exporter"
	"github.com/mirkocesaro/jiralog/internal/prompt"
	"github.com/mirkocesaro/jiralog/internal/report"
)

var (
	assumeYes bool
	dryRun    bool

	// extractLogsCmd represents the extract-logs command
	extractLogsCmd = &cobra.Command{
		Use:     "extract-logs [date]",
		Aliases: []string{"tempo:extract-logs"},
		Short:   "Copy your Tempo worklogs to the external Jira instance.",
		Long:    `Fetches the Tempo worklogs of TEMPO_AUTHOR_ACCOUNT_ID updated since date (default today), shows them for review and, after confirmation, creates a matching worklog on the external issue named at the start of each issue summary.`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runExtractLogsCommand,
	}
)

func init() {
	extractLogsCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation.")
	extractLogsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be created without calling the external Jira.")
}

func runExtractLogsCommand(cmd *cobra.Command, args []string) error {
	var required []string
	required = append(required, config.TempoVars...)
	required = append(required, config.EnvTempoAuthorAccount)
	required = append(required, config.SourceJiraVars...)
	required = append(required, config.DestinationJiraVars...)
	env, settings, err := loadRuntime(cmd, required...)
	if err != nil {
		return err
	}

	since, err := dateArg(args, 0, settings.Location())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	worklogs, err := tempoClient(env, settings).AllUserWorklogs(ctx, env.TempoAuthorAccountID, since, settings.PageSize.Tempo)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(worklogs) == 0 {
		fmt.Fprintln(out, "No worklogs found")
		return nil
	}

	entries := make([]report.ExportEntry, 0, len(worklogs))
	for _, w := range worklogs {
		entry, err := report.NewExportEntry(w)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	source := sourceJira(env, settings)
	issues, err := source.IssuesByID(ctx, report.DistinctIssueIDs(worklogs), settings.PageSize.Jira)
	if err != nil {
		return err
	}
	report.LinkIssues(entries, issues, settings.ExternalProjects)

	var confirm exporter.Confirmer = prompt.NewConfirmer(cmd.InOrStdin(), out)
	if assumeYes {
		confirm = prompt.Always(true)
	}

	exp := &exporter.Exporter{
		Destination: destinationJira(env, settings),
		Confirm:     confirm,
		Location:    settings.Location(),
		Out:         out,
		DryRun:      dryRun,
	}
	result, err := exp.Run(ctx, entries)
	if err != nil {
		return err
	}
	slog.Info("export finished", "created", len(result.Created), "skipped", result.Skipped)
	return nil
}
