package jira

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the timestamp format Jira uses for worklog start times.
const TimeLayout = "2006-01-02T15:04:05.000-0700"

// Issue is an issue document returned by the search API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// NumericID returns the issue id as an integer, or 0 when it is not numeric.
func (i Issue) NumericID() int64 {
	id, _ := strconv.ParseInt(i.ID, 10, 64)
	return id
}

// IssueRef points at another issue, such as a parent.
type IssueRef struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// Project is the project an issue belongs to.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Named covers issue type, status and similar {"name": ...} objects.
type Named struct {
	Name string `json:"name"`
}

// IssueFields holds the fields the reports read. Custom fields are kept raw, keyed by field id.
type IssueFields struct {
	Summary              string    `json:"summary"`
	Parent               *IssueRef `json:"parent,omitempty"`
	Project              Project   `json:"project"`
	IssueType            Named     `json:"issuetype"`
	Status               Named     `json:"status"`
	Reporter             *User     `json:"reporter,omitempty"`
	TimeOriginalEstimate *int64    `json:"timeoriginalestimate,omitempty"`
	TimeEstimate         *int64    `json:"timeestimate,omitempty"`

	Custom map[string]json.RawMessage `json:"custom,omitempty"`
}

// UnmarshalJSON decodes the known fields and collects every non-null customfield_*.
func (f *IssueFields) UnmarshalJSON(data []byte) error {
	type plain IssueFields
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for key, raw := range all {
		if !strings.HasPrefix(key, "customfield_") || string(raw) == "null" {
			continue
		}
		if p.Custom == nil {
			p.Custom = make(map[string]json.RawMessage)
		}
		p.Custom[key] = raw
	}

	*f = IssueFields(p)
	return nil
}

// CustomString renders a custom field as text. Strings and numbers are returned as written;
// option objects yield their value, name or key.
func (f IssueFields) CustomString(field string) string {
	raw, ok := f.Custom[field]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var obj struct {
		Value json.RawMessage `json:"value"`
		Name  string          `json:"name"`
		Key   string          `json:"key"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if len(obj.Value) > 0 {
			if err := json.Unmarshal(obj.Value, &s); err == nil {
				return s
			}
			return strings.TrimSpace(string(obj.Value))
		}
		if obj.Name != "" {
			return obj.Name
		}
		return obj.Key
	}
	return strings.TrimSpace(string(raw))
}

// CustomID returns the numeric "id" of an object-valued custom field.
func (f IssueFields) CustomID(field string) (int64, bool) {
	raw, ok := f.Custom[field]
	if !ok {
		return 0, false
	}
	var obj struct {
		ID json.Number `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || obj.ID == "" {
		return 0, false
	}
	id, err := obj.ID.Int64()
	if err != nil {
		return 0, false
	}
	return id, true
}

// User is a Jira user. Cloud identifies users by account id, Data Center by name.
type User struct {
	AccountID    string `json:"accountId,omitempty"`
	Name         string `json:"name,omitempty"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

// Worklog is a worklog entry on an issue.
type Worklog struct {
	ID               string `json:"id"`
	IssueID          string `json:"issueId,omitempty"`
	Author           User   `json:"author"`
	Comment          string `json:"comment,omitempty"`
	Started          string `json:"started"`
	TimeSpent        string `json:"timeSpent"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
}

// StartedAt parses the Started timestamp.
func (w Worklog) StartedAt() (time.Time, error) {
	return ParseTime(w.Started)
}

// NewWorklog is the payload for creating a worklog.
type NewWorklog struct {
	Comment   string `json:"comment"`
	Started   string `json:"started"`
	TimeSpent string `json:"timeSpent"`
}

// ParseTime accepts Jira's worklog timestamp format as well as RFC 3339.
func ParseTime(value string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, value)
	if err == nil {
		return t, nil
	}
	if t, rfcErr := time.Parse(time.RFC3339, value); rfcErr == nil {
		return t, nil
	}
	return time.Time{}, err
}

type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

type worklogResponse struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Worklogs   []Worklog `json:"worklogs"`
}
