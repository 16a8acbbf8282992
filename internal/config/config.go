// Package config loads credentials from the environment and settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDestJiraEndpoint    = "DEST_JIRA_ENDPOINT"
	EnvDestJiraBearerToken = "DEST_JIRA_BEARER_TOKEN"
	EnvDestJiraEmail       = "DEST_JIRA_EMAIL"
	EnvJiraEndpoint        = "JIRA_ENDPOINT"
	EnvJiraEmail           = "JIRA_EMAIL"
	EnvJiraToken           = "JIRA_TOKEN"
	EnvTempoEndpoint       = "TEMPO_ENDPOINT"
	EnvTempoToken          = "TEMPO_TOKEN"
	EnvTempoAuthorAccount  = "TEMPO_AUTHOR_ACCOUNT_ID"
)

// Variables required by each command.
var (
	DestinationJiraVars = []string{EnvDestJiraEndpoint, EnvDestJiraBearerToken, EnvDestJiraEmail}
	SourceJiraVars      = []string{EnvJiraEndpoint, EnvJiraEmail, EnvJiraToken}
	TempoVars           = []string{EnvTempoEndpoint, EnvTempoToken}
)

// Env holds credentials and endpoints for the three upstream systems.
type Env struct {
	DestJiraEndpoint    string
	DestJiraBearerToken string
	DestJiraEmail       string

	JiraEndpoint string
	JiraEmail    string
	JiraToken    string

	TempoEndpoint        string
	TempoToken           string
	TempoAuthorAccountID string
}

// MissingEnvError lists required variables that are unset.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Names, ", "))
}

// LoadEnv reads an optional .env file and returns the current environment.
// Variables already set in the process take precedence over the file.
func LoadEnv(dotenvPath string) (Env, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Env{}, fmt.Errorf("could not load env file '%s': %w", dotenvPath, err)
		}
	}

	return Env{
		DestJiraEndpoint:     getenv(EnvDestJiraEndpoint),
		DestJiraBearerToken:  getenv(EnvDestJiraBearerToken),
		DestJiraEmail:        getenv(EnvDestJiraEmail),
		JiraEndpoint:         getenv(EnvJiraEndpoint),
		JiraEmail:            getenv(EnvJiraEmail),
		JiraToken:            getenv(EnvJiraToken),
		TempoEndpoint:        getenv(EnvTempoEndpoint),
		TempoToken:           getenv(EnvTempoToken),
		TempoAuthorAccountID: getenv(EnvTempoAuthorAccount),
	}, nil
}

// Require fails with a MissingEnvError naming every unset variable.
func Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingEnvError{Names: missing}
	}
	return nil
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
