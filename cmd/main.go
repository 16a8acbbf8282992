package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mirkocesaro/jiralog/internal/config"
	"github.com/mirkocesaro/jiralog/internal/httpapi"
	"github.com/mirkocesaro/jiralog/internal/jira"
	"github.com/mirkocesaro/jiralog/internal/report"
	"github.com/mirkocesaro/jiralog/internal/tempo"
)

// --- Cobra Command Definitions ---

var (
	// Used for flags.
	configPath string
	envFile    string
	verbose    bool

	logLevel = new(slog.LevelVar)

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:               "jiralog",
		Short:             "Worklog reports from Jira and Tempo.",
		Long:              `jiralog pulls worklogs from the Jira and Tempo REST APIs, joins them with issues, users and accounts, and prints tables or writes CSV reports.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
	}
)

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func init() {
	// Add persistent flags to the root command (available to all subcommands)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultSettingsPath, "Path to the YAML settings file.")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to the dotenv file with credentials.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug records.")

	rootCmd.AddCommand(getWorklogsCmd)
	rootCmd.AddCommand(activityReportCmd)
	rootCmd.AddCommand(extractLogsCmd)
}

// --- Main Application Entry Point ---

func main() {
	// Setup structured JSON logger. Every record of one invocation carries the same run_id.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})).
		With("run_id", uuid.NewString())
	slog.SetDefault(logger)
	os.Exit(Execute())
}

// --- Helper Functions ---

func setupLogging(cmd *cobra.Command, args []string) error {
	if verbose {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}
	return nil
}

// reportError prints one line per upstream message. Transport failures print the raw cause.
func reportError(w io.Writer, err error) {
	var apiErr *httpapi.APIError
	var transportErr *httpapi.TransportError
	switch {
	case errors.As(err, &apiErr):
		if len(apiErr.Messages) == 0 {
			fmt.Fprintf(w, "error: %s\n", apiErr)
		}
		for _, msg := range apiErr.Messages {
			fmt.Fprintf(w, "error: %s\n", msg)
		}
		slog.Debug("command failed", "status", apiErr.StatusCode, "error", err)
	case errors.As(err, &transportErr):
		fmt.Fprintln(w, transportErr.Err)
		slog.Debug("command failed", "method", transportErr.Method, "url", transportErr.URL, "error", err)
	default:
		fmt.Fprintf(w, "error: %s\n", err)
	}
}

// loadRuntime reads credentials and settings and checks the variables a command needs.
func loadRuntime(cmd *cobra.Command, required ...string) (config.Env, config.Settings, error) {
	env, err := config.LoadEnv(envFile)
	if err != nil {
		return config.Env{}, config.Settings{}, err
	}
	if err := config.Require(required...); err != nil {
		return config.Env{}, config.Settings{}, err
	}

	explicit := cmd.Flags().Changed("config")
	settings, err := config.LoadSettings(configPath, explicit)
	if err != nil {
		return config.Env{}, config.Settings{}, err
	}
	return env, settings, nil
}

func destinationJira(env config.Env, settings config.Settings) *jira.Client {
	api := httpapi.New(env.DestJiraEndpoint, httpapi.BearerAuth(env.DestJiraBearerToken), httpapi.WithTimeout(settings.HTTPTimeout))
	return jira.NewClient(api)
}

func sourceJira(env config.Env, settings config.Settings) *jira.Client {
	auth := httpapi.BasicAuth{Username: env.JiraEmail, Password: env.JiraToken}
	return jira.NewClient(httpapi.New(env.JiraEndpoint, auth, httpapi.WithTimeout(settings.HTTPTimeout)))
}

func tempoClient(env config.Env, settings config.Settings) *tempo.Client {
	return tempo.NewClient(env.TempoEndpoint, env.TempoToken, httpapi.WithTimeout(settings.HTTPTimeout))
}

// dateArg returns args[i] validated as YYYY-MM-DD, or today in loc when absent.
func dateArg(args []string, i int, loc *time.Location) (string, error) {
	if i >= len(args) || args[i] == "" {
		return time.Now().In(loc).Format(report.ISODateLayout), nil
	}
	if _, err := time.Parse(report.ISODateLayout, args[i]); err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", args[i], err)
	}
	return args[i], nil
}
