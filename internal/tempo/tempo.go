// Package tempo wraps the Tempo REST endpoints used by the reports.
package tempo

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/mirkocesaro/jiralog/internal/httpapi"
	"github.com/mirkocesaro/jiralog/internal/paginate"
)

// Client talks to the Tempo API.
type Client struct {
	api *httpapi.Client
}

// NewClient creates a Tempo client authenticated with a bearer token.
func NewClient(endpoint, token string, opts ...httpapi.Option) *Client {
	return &Client{api: httpapi.New(endpoint, httpapi.BearerAuth(token), opts...)}
}

func pageOf[T any](resp listResponse[T]) paginate.Page[T] {
	return paginate.Page[T]{
		Results: resp.Results,
		Offset:  resp.Metadata.Offset,
		Limit:   resp.Metadata.Limit,
		HasNext: resp.Metadata.Next != "",
	}
}

func pageQuery(offset, limit int) url.Values {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return query
}

// Worklogs returns one page of worklogs with a start date in [from, to].
func (c *Client) Worklogs(ctx context.Context, from, to string, offset, limit int) (paginate.Page[Worklog], error) {
	query := pageQuery(offset, limit)
	query.Set("from", from)
	query.Set("to", to)

	var resp listResponse[Worklog]
	if err := c.api.Get(ctx, "/worklogs", query, &resp); err != nil {
		return paginate.Page[Worklog]{}, fmt.Errorf("failed to fetch worklogs: %w", err)
	}
	return pageOf(resp), nil
}

// AllWorklogs returns every worklog with a start date in [from, to].
func (c *Client) AllWorklogs(ctx context.Context, from, to string, limit int) ([]Worklog, error) {
	page := 0
	return paginate.All(ctx, limit, func(ctx context.Context, offset, limit int) (paginate.Page[Worklog], error) {
		page++
		slog.Info("fetching worklogs", "page", page, "from", from, "to", to)
		return c.Worklogs(ctx, from, to, offset, limit)
	})
}

// UserWorklogs returns one page of a user's worklogs updated since updatedFrom.
func (c *Client) UserWorklogs(ctx context.Context, accountID, updatedFrom string, offset, limit int) (paginate.Page[Worklog], error) {
	query := pageQuery(offset, limit)
	query.Set("updatedFrom", updatedFrom)

	var resp listResponse[Worklog]
	path := fmt.Sprintf("/worklogs/user/%s", url.PathEscape(accountID))
	if err := c.api.Get(ctx, path, query, &resp); err != nil {
		return paginate.Page[Worklog]{}, fmt.Errorf("failed to fetch worklogs for user %s: %w", accountID, err)
	}
	return pageOf(resp), nil
}

// AllUserWorklogs returns every worklog of a user updated since updatedFrom.
func (c *Client) AllUserWorklogs(ctx context.Context, accountID, updatedFrom string, limit int) ([]Worklog, error) {
	return paginate.All(ctx, limit, func(ctx context.Context, offset, limit int) (paginate.Page[Worklog], error) {
		return c.UserWorklogs(ctx, accountID, updatedFrom, offset, limit)
	})
}

// Accounts returns one page of accounts.
func (c *Client) Accounts(ctx context.Context, offset, limit int) (paginate.Page[Account], error) {
	var resp listResponse[Account]
	if err := c.api.Get(ctx, "/accounts", pageQuery(offset, limit), &resp); err != nil {
		return paginate.Page[Account]{}, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return pageOf(resp), nil
}

// AllAccounts returns every account.
func (c *Client) AllAccounts(ctx context.Context, limit int) ([]Account, error) {
	return paginate.All(ctx, limit, c.Accounts)
}

// Account returns a single account by id.
func (c *Client) Account(ctx context.Context, id int64) (Account, error) {
	var account Account
	if err := c.api.Get(ctx, fmt.Sprintf("/accounts/%d", id), nil, &account); err != nil {
		return Account{}, fmt.Errorf("failed to fetch account %d: %w", id, err)
	}
	return account, nil
}

// ProjectAccountLinks returns the account links of a Jira project.
func (c *Client) ProjectAccountLinks(ctx context.Context, projectID string) ([]AccountLink, error) {
	var resp listResponse[AccountLink]
	path := fmt.Sprintf("/account-links/project/%s", url.PathEscape(projectID))
	if err := c.api.Get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch account links for project %s: %w", projectID, err)
	}
	return resp.Results, nil
}

// WorkAttributes returns one page of work attribute definitions.
func (c *Client) WorkAttributes(ctx context.Context, offset, limit int) (paginate.Page[WorkAttribute], error) {
	var resp listResponse[WorkAttribute]
	if err := c.api.Get(ctx, "/work-attributes", pageQuery(offset, limit), &resp); err != nil {
		return paginate.Page[WorkAttribute]{}, fmt.Errorf("failed to fetch work attributes: %w", err)
	}
	return pageOf(resp), nil
}

// AllWorkAttributes returns every work attribute definition.
func (c *Client) AllWorkAttributes(ctx context.Context, limit int) ([]WorkAttribute, error) {
	return paginate.All(ctx, limit, c.WorkAttributes)
}

// Periods returns the accounting periods overlapping [from, to].
func (c *Client) Periods(ctx context.Context, from, to string) ([]Period, error) {
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)

	var resp periodsResponse
	if err := c.api.Get(ctx, "/periods", query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch periods: %w", err)
	}
	return resp.Periods, nil
}
