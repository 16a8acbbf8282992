// Package jira wraps the Jira REST endpoints used by the worklog reports.
package jira

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/mirkocesaro/jiralog/internal/httpapi"
	"github.com/mirkocesaro/jiralog/internal/paginate"
)

// ErrNotFound is returned when a lookup matches no entity.
var ErrNotFound = errors.New("not found")

// Client talks to one Jira instance.
type Client struct {
	api *httpapi.Client
}

// NewClient wraps an authenticated transport.
func NewClient(api *httpapi.Client) *Client {
	return &Client{api: api}
}

// Search runs a JQL query and returns one window of results.
func (c *Client) Search(ctx context.Context, jql string, startAt, maxResults int) (paginate.Window[Issue], error) {
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("startAt", strconv.Itoa(startAt))
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}

	var resp searchResponse
	if err := c.api.Get(ctx, "/rest/api/2/search", query, &resp); err != nil {
		return paginate.Window[Issue]{}, fmt.Errorf("failed to search issues: %w", err)
	}
	return paginate.Window[Issue]{
		Items:      resp.Issues,
		StartAt:    resp.StartAt,
		MaxResults: resp.MaxResults,
		Total:      resp.Total,
	}, nil
}

// SearchAll runs a JQL query across every page.
func (c *Client) SearchAll(ctx context.Context, jql string, pageSize int) ([]Issue, error) {
	return paginate.Collect(ctx, pageSize, func(ctx context.Context, startAt, maxResults int) (paginate.Window[Issue], error) {
		slog.Info("fetching issues", "start_at", startAt)
		return c.Search(ctx, jql, startAt, maxResults)
	})
}

// IssuesByID fetches the given issue ids in chunks of pageSize.
func (c *Client) IssuesByID(ctx context.Context, ids []int64, pageSize int) ([]Issue, error) {
	if pageSize <= 0 {
		pageSize = 100
	}
	var issues []Issue
	for start := 0; start < len(ids); start += pageSize {
		end := start + pageSize
		if end > len(ids) {
			end = len(ids)
		}
		found, err := c.SearchAll(ctx, IDInJQL(ids[start:end]), pageSize)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}
	return issues, nil
}

// IssueByID fetches a single issue by numeric id.
func (c *Client) IssueByID(ctx context.Context, id int64) (Issue, error) {
	w, err := c.Search(ctx, fmt.Sprintf("id = %d", id), 0, 1)
	if err != nil {
		return Issue{}, err
	}
	if len(w.Items) == 0 {
		return Issue{}, fmt.Errorf("issue %d: %w", id, ErrNotFound)
	}
	return w.Items[0], nil
}

// Worklogs returns one window of an issue's worklogs.
func (c *Client) Worklogs(ctx context.Context, issueKey string, startAt, maxResults int) (paginate.Window[Worklog], error) {
	query := url.Values{}
	query.Set("startAt", strconv.Itoa(startAt))
	if maxResults > 0 {
		query.Set("maxResults", strconv.Itoa(maxResults))
	}

	var resp worklogResponse
	path := fmt.Sprintf("/rest/api/2/issue/%s/worklog", url.PathEscape(issueKey))
	if err := c.api.Get(ctx, path, query, &resp); err != nil {
		return paginate.Window[Worklog]{}, fmt.Errorf("failed to fetch worklogs for %s: %w", issueKey, err)
	}
	return paginate.Window[Worklog]{
		Items:      resp.Worklogs,
		StartAt:    resp.StartAt,
		MaxResults: resp.MaxResults,
		Total:      resp.Total,
	}, nil
}

// AllWorklogs returns every worklog of an issue.
func (c *Client) AllWorklogs(ctx context.Context, issueKey string, pageSize int) ([]Worklog, error) {
	return paginate.Collect(ctx, pageSize, func(ctx context.Context, startAt, maxResults int) (paginate.Window[Worklog], error) {
		return c.Worklogs(ctx, issueKey, startAt, maxResults)
	})
}

// CreateWorklog adds a worklog to an issue and returns the created entry.
func (c *Client) CreateWorklog(ctx context.Context, issueKey string, worklog NewWorklog) (Worklog, error) {
	var created Worklog
	path := fmt.Sprintf("/rest/api/2/issue/%s/worklog", url.PathEscape(issueKey))
	if err := c.api.Post(ctx, path, worklog, &created); err != nil {
		return Worklog{}, fmt.Errorf("failed to create worklog on %s: %w", issueKey, err)
	}
	return created, nil
}

// User looks up a user by account id.
func (c *Client) User(ctx context.Context, accountID string) (User, error) {
	query := url.Values{}
	query.Set("accountId", accountID)

	var user User
	if err := c.api.Get(ctx, "/rest/api/2/user", query, &user); err != nil {
		if httpapi.IsNotFound(err) {
			return User{}, fmt.Errorf("user %s: %w: %w", accountID, ErrNotFound, err)
		}
		return User{}, fmt.Errorf("failed to fetch user %s: %w", accountID, err)
	}
	return user, nil
}

// IDInJQL builds an "id in (...)" clause.
func IDInJQL(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("id in (%s)", strings.Join(parts, ","))
}
