package jira

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/mirkocesaro/jiralog/internal/httpapi"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(httpapi.New(srv.URL, httpapi.BasicAuth{Username: "me@example.com", Password: "tok"}))
}

func TestIssueFieldsCustomFields(t *testing.T) {
	data := []byte(`{
		"id": "10001",
		"key": "PROJ-1",
		"fields": {
			"summary": "Fix login",
			"parent": {"id": "10000", "key": "PROJ-0"},
			"project": {"id": "100", "key": "PROJ", "name": "Project"},
			"issuetype": {"name": "Story"},
			"status": {"name": "Done"},
			"timeoriginalestimate": 7200,
			"timeestimate": null,
			"customfield_10122": {"id": 44, "value": "ACC-1"},
			"customfield_10011": "Epic name",
			"customfield_10124": 1234,
			"customfield_10125": {"name": "Option"},
			"customfield_10126": null
		}
	}`)

	var issue Issue
	if err := json.Unmarshal(data, &issue); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if issue.NumericID() != 10001 {
		t.Errorf("expected numeric id 10001, got %d", issue.NumericID())
	}
	if issue.Fields.Summary != "Fix login" || issue.Fields.Parent.ID != "10000" {
		t.Errorf("known fields not decoded: %+v", issue.Fields)
	}
	if issue.Fields.TimeOriginalEstimate == nil || *issue.Fields.TimeOriginalEstimate != 7200 {
		t.Errorf("expected original estimate 7200, got %v", issue.Fields.TimeOriginalEstimate)
	}
	if issue.Fields.TimeEstimate != nil {
		t.Errorf("expected nil remaining estimate, got %v", *issue.Fields.TimeEstimate)
	}

	tests := []struct {
		field    string
		expected string
	}{
		{"customfield_10122", "ACC-1"},
		{"customfield_10011", "Epic name"},
		{"customfield_10124", "1234"},
		{"customfield_10125", "Option"},
		{"customfield_10126", ""},
		{"customfield_99999", ""},
	}
	for _, tt := range tests {
		if got := issue.Fields.CustomString(tt.field); got != tt.expected {
			t.Errorf("CustomString(%s): expected %q, got %q", tt.field, tt.expected, got)
		}
	}

	id, ok := issue.Fields.CustomID("customfield_10122")
	if !ok || id != 44 {
		t.Errorf("expected account id 44, got %d (%v)", id, ok)
	}
	if _, ok := issue.Fields.CustomID("customfield_10011"); ok {
		t.Error("expected string field to have no id")
	}
}

func TestSearchAllPages(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/rest/api/2/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("jql") != "project = P" {
			t.Errorf("unexpected jql %q", r.URL.Query().Get("jql"))
		}
		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		issues := []string{}
		for i := startAt; i < startAt+2 && i < 3; i++ {
			issues = append(issues, `{"id":"`+strconv.Itoa(i+1)+`","key":"P-`+strconv.Itoa(i+1)+`","fields":{}}`)
		}
		io.WriteString(w, `{"startAt":`+strconv.Itoa(startAt)+`,"maxResults":2,"total":3,"issues":[`+strings.Join(issues, ",")+`]}`)
	})

	issues, err := client.SearchAll(context.Background(), "project = P", 2)
	if err != nil {
		t.Fatalf("SearchAll returned error: %v", err)
	}
	if len(issues) != 3 || issues[2].Key != "P-3" {
		t.Fatalf("expected 3 issues in order, got %+v", issues)
	}
	if calls != 2 {
		t.Errorf("expected 2 search calls, got %d", calls)
	}
}

func TestIssuesByIDChunks(t *testing.T) {
	var queries []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		jql := r.URL.Query().Get("jql")
		queries = append(queries, jql)
		ids := strings.Split(strings.TrimSuffix(strings.TrimPrefix(jql, "id in ("), ")"), ",")
		issues := make([]string, len(ids))
		for i, id := range ids {
			issues[i] = `{"id":"` + id + `","key":"P-` + id + `","fields":{}}`
		}
		io.WriteString(w, `{"startAt":0,"maxResults":2,"total":`+strconv.Itoa(len(ids))+`,"issues":[`+strings.Join(issues, ",")+`]}`)
	})

	issues, err := client.IssuesByID(context.Background(), []int64{1, 2, 3}, 2)
	if err != nil {
		t.Fatalf("IssuesByID returned error: %v", err)
	}
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d", len(issues))
	}
	if len(queries) != 2 || queries[0] != "id in (1,2)" || queries[1] != "id in (3)" {
		t.Errorf("unexpected queries %v", queries)
	}
}

func TestIssueByIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"startAt":0,"maxResults":1,"total":0,"issues":[]}`)
	})

	_, err := client.IssueByID(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAllWorklogs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/issue/PROJ-1/worklog" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"startAt":0,"maxResults":20,"total":2,"worklogs":[
			{"id":"1","author":{"displayName":"A","emailAddress":"a@x.com"},"started":"2024-03-05T09:00:00.000+0000","timeSpent":"1h","timeSpentSeconds":3600},
			{"id":"2","author":{"displayName":"B","emailAddress":"b@x.com"},"started":"2024-03-04T09:00:00.000+0000","timeSpent":"30m","timeSpentSeconds":1800}
		]}`)
	})

	worklogs, err := client.AllWorklogs(context.Background(), "PROJ-1", 100)
	if err != nil {
		t.Fatalf("AllWorklogs returned error: %v", err)
	}
	if len(worklogs) != 2 {
		t.Fatalf("expected 2 worklogs, got %d", len(worklogs))
	}
	started, err := worklogs[0].StartedAt()
	if err != nil {
		t.Fatalf("StartedAt returned error: %v", err)
	}
	if started.Hour() != 9 || started.Day() != 5 {
		t.Errorf("unexpected start %v", started)
	}
}

func TestCreateWorklog(t *testing.T) {
	var payload NewWorklog
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"555","timeSpent":"1h 30m"}`)
	})

	created, err := client.CreateWorklog(context.Background(), "BMITFOX-1", NewWorklog{
		Comment:   "work",
		Started:   "2024-03-05T09:00:00.000+0100",
		TimeSpent: "1h 30m",
	})
	if err != nil {
		t.Fatalf("CreateWorklog returned error: %v", err)
	}
	if created.ID != "555" {
		t.Errorf("expected created id 555, got %q", created.ID)
	}
	if payload.TimeSpent != "1h 30m" || payload.Comment != "work" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestUserNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("accountId") != "abc" {
			t.Errorf("unexpected accountId %q", r.URL.Query().Get("accountId"))
		}
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"errorMessages":["Specified user does not exist"]}`)
	})

	_, err := client.User(context.Background(), "abc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var apiErr *httpapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Messages[0] != "Specified user does not exist" {
		t.Errorf("expected API error to be preserved, got %v", err)
	}
}

func TestIDInJQL(t *testing.T) {
	if got := IDInJQL([]int64{10, 20}); got != "id in (10,20)" {
		t.Errorf("unexpected jql %q", got)
	}
}
