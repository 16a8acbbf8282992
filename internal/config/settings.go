package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsPath is read when --config is not given.
const DefaultSettingsPath = "jiralog.yml"

// Fields names the Jira custom fields read by the activity report.
type Fields struct {
	Account      string `yaml:"account"`
	EpicLink     string `yaml:"epic_link"`
	ExternalKey  string `yaml:"external_key"`
	ExternalEpic string `yaml:"external_epic"`
	ExternalID   string `yaml:"external_id"`
}

// PageSize holds the page size requested from each API.
type PageSize struct {
	Tempo int `yaml:"tempo"`
	Jira  int `yaml:"jira"`
}

// Settings are the non-secret knobs of the tool.
type Settings struct {
	Timezone               string        `yaml:"timezone"`
	Fields                 Fields        `yaml:"fields"`
	ActivityAttribute      string        `yaml:"activity_attribute"`
	ExternalProjects       []string      `yaml:"external_projects"`
	PageSize               PageSize      `yaml:"page_size"`
	HTTPTimeout            time.Duration `yaml:"http_timeout"`
	ProjectAccountFallback bool          `yaml:"project_account_fallback"`

	location *time.Location
}

// DefaultSettings returns the settings used when no file overrides them.
func DefaultSettings() Settings {
	return Settings{
		Timezone: "Europe/Rome",
		Fields: Fields{
			Account:      "customfield_10122",
			EpicLink:     "customfield_10011",
			ExternalKey:  "customfield_10118",
			ExternalEpic: "customfield_10123",
			ExternalID:   "customfield_10124",
		},
		ActivityAttribute: "_Activity_",
		ExternalProjects:  []string{"BMITFOX-", "BMITB2C"},
		PageSize:          PageSize{Tempo: 1000, Jira: 100},
	}
}

// LoadSettings reads path over the defaults. A missing file is an error only when required.
func LoadSettings(path string, required bool) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return settings, settings.resolve()
		}
		return Settings{}, fmt.Errorf("could not read settings file '%s': %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("could not parse YAML from '%s': %w", path, err)
	}

	return settings, settings.resolve()
}

func (s *Settings) resolve() error {
	if s.PageSize.Tempo <= 0 {
		s.PageSize.Tempo = DefaultSettings().PageSize.Tempo
	}
	if s.PageSize.Jira <= 0 {
		s.PageSize.Jira = DefaultSettings().PageSize.Jira
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
	}
	s.location = loc
	return nil
}

// Location is the civil timezone used for every rendered timestamp.
func (s Settings) Location() *time.Location {
	if s.location == nil {
		return time.UTC
	}
	return s.location
}
