package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mirkocesaro/jiralog/internal/cache"
	"github.com/mirkocesaro/jiralog/internal/config"
	"github.com/mirkocesaro/jiralog/internal/jira"
	"github.com/mirkocesaro/jiralog/internal/model"
	"github.com/mirkocesaro/jiralog/internal/tempo"
)

// placeholder marks a missing parent in the epic columns.
const placeholder = "-"

// IssueSource fetches issues from Jira.
type IssueSource interface {
	IssueByID(ctx context.Context, id int64) (jira.Issue, error)
	IssuesByID(ctx context.Context, ids []int64, pageSize int) ([]jira.Issue, error)
}

// UserSource fetches users from Jira.
type UserSource interface {
	User(ctx context.Context, accountID string) (jira.User, error)
}

// AccountLinkSource lists the Tempo account links of a project.
type AccountLinkSource interface {
	ProjectAccountLinks(ctx context.Context, projectID string) ([]tempo.AccountLink, error)
}

// Lookups is the per-run state the activity mapper resolves entities against.
type Lookups struct {
	Issues     *cache.Lazy[int64, jira.Issue]
	Users      *cache.Lazy[string, jira.User]
	Accounts   map[int64]tempo.Account
	Attributes map[string]map[string]string
	Periods    []tempo.Period

	// AccountLinks is consulted for issues without an account field. Nil disables it.
	AccountLinks AccountLinkSource
}

// NewLookups creates empty issue and user caches backed by the given sources.
func NewLookups(issues IssueSource, users UserSource) *Lookups {
	return &Lookups{
		Issues:     cache.New("issue", issues.IssueByID),
		Users:      cache.New("user", users.User),
		Accounts:   map[int64]tempo.Account{},
		Attributes: map[string]map[string]string{},
	}
}

// IndexAccounts keys accounts by id.
func IndexAccounts(accounts []tempo.Account) map[int64]tempo.Account {
	index := make(map[int64]tempo.Account, len(accounts))
	for _, a := range accounts {
		index[a.ID] = a
	}
	return index
}

// AttributeDictionary builds attribute key -> (value code -> label).
func AttributeDictionary(attributes []tempo.WorkAttribute) map[string]map[string]string {
	dict := make(map[string]map[string]string, len(attributes))
	for _, a := range attributes {
		dict[a.Key] = a.Labels()
	}
	return dict
}

// PrefetchIssues bulk-loads the issues referenced by worklogs, then their parents.
func PrefetchIssues(ctx context.Context, lookups *Lookups, source IssueSource, worklogs []tempo.Worklog, pageSize int) error {
	ids := DistinctIssueIDs(worklogs)
	if len(ids) == 0 {
		return nil
	}

	issues, err := source.IssuesByID(ctx, ids, pageSize)
	if err != nil {
		return fmt.Errorf("failed to prefetch issues: %w", err)
	}
	lookups.Issues.Seed(indexIssues(issues))

	var parents []int64
	seen := map[int64]bool{}
	for _, issue := range issues {
		parentID := parentIDOf(issue)
		if parentID == 0 || seen[parentID] {
			continue
		}
		seen[parentID] = true
		if _, ok := lookups.Issues.Lookup(parentID); !ok {
			parents = append(parents, parentID)
		}
	}
	if len(parents) == 0 {
		return nil
	}

	parentIssues, err := source.IssuesByID(ctx, parents, pageSize)
	if err != nil {
		return fmt.Errorf("failed to prefetch parent issues: %w", err)
	}
	lookups.Issues.Seed(indexIssues(parentIssues))
	return nil
}

func indexIssues(issues []jira.Issue) map[int64]jira.Issue {
	index := make(map[int64]jira.Issue, len(issues))
	for _, issue := range issues {
		index[issue.NumericID()] = issue
	}
	return index
}

func parentIDOf(issue jira.Issue) int64 {
	if issue.Fields.Parent == nil || issue.Fields.Parent.ID == "" {
		return 0
	}
	id, _ := strconv.ParseInt(issue.Fields.Parent.ID, 10, 64)
	return id
}

// ActivityMapper turns Tempo worklogs into activity report rows.
type ActivityMapper struct {
	Lookups           *Lookups
	Fields            config.Fields
	ActivityAttribute string
	Location          *time.Location

	projectAccounts map[string]*tempo.Account
}

// Map resolves the worklog's issue, parent, author and account and builds its row.
func (m *ActivityMapper) Map(ctx context.Context, w tempo.Worklog) (model.Row, error) {
	issue, err := m.Lookups.Issues.Resolve(ctx, w.Issue.ID)
	if err != nil {
		return nil, err
	}

	var parent *jira.Issue
	if parentID := parentIDOf(issue); parentID != 0 {
		p, err := m.Lookups.Issues.Resolve(ctx, parentID)
		if err != nil {
			return nil, err
		}
		parent = &p
	}

	user, err := m.Lookups.Users.Resolve(ctx, w.Author.AccountID)
	if err != nil {
		return nil, err
	}

	account, err := m.accountFor(ctx, issue)
	if err != nil {
		return nil, err
	}
	if account == nil {
		slog.Warn("account not found for issue", "issue", issue.Key)
		account = &tempo.Account{}
	}

	workDate, err := FormatDay(w.StartDate)
	if err != nil {
		return nil, fmt.Errorf("worklog %d: %w", w.TempoWorklogID, err)
	}
	created, err := FormatStamp(w.CreatedAt, m.Location)
	if err != nil {
		return nil, fmt.Errorf("worklog %d: %w", w.TempoWorklogID, err)
	}
	updated, err := FormatStamp(w.UpdatedAt, m.Location)
	if err != nil {
		return nil, fmt.Errorf("worklog %d: %w", w.TempoWorklogID, err)
	}

	epicLink, parentKey := placeholder, placeholder
	if parent != nil {
		parentKey = parent.Key
		if v := parent.Fields.CustomString(m.Fields.EpicLink); v != "" {
			epicLink = v
		}
	}

	var reporter string
	if issue.Fields.Reporter != nil {
		reporter = issue.Fields.Reporter.AccountID
	}

	attributes := m.translateAttributes(w.Attributes)

	return model.Row{
		issue.Key,
		issue.Fields.Summary,
		FormatHours(w.TimeSpentSeconds, 4),
		workDate,
		w.Author.AccountID,
		user.DisplayName,
		"",
		m.periodOf(w.StartDate),
		account.Key,
		account.Name,
		accountLead(account),
		accountCategory(account),
		accountCustomer(account),
		issue.Fields.Project.Name,
		"",
		"",
		"",
		issue.Fields.IssueType.Name,
		issue.Fields.Status.Name,
		issue.Fields.Project.Key,
		issue.Fields.Project.Name,
		"",
		epicLink,
		w.Description,
		parentKey,
		reporter,
		"",
		FormatHours(w.BillableSeconds, 4),
		FormatEstimate(issue.Fields.TimeOriginalEstimate),
		FormatEstimate(issue.Fields.TimeEstimate),
		issue.Fields.CustomString(m.Fields.ExternalKey),
		issue.Fields.CustomString(m.Fields.ExternalEpic),
		issue.Fields.CustomString(m.Fields.ExternalID),
		attributes[m.ActivityAttribute],
		created,
		updated,
	}, nil
}

// MapAll maps every worklog, stopping at the first unresolvable entity.
func (m *ActivityMapper) MapAll(ctx context.Context, worklogs []tempo.Worklog) ([]model.Row, error) {
	rows := make([]model.Row, 0, len(worklogs))
	for _, w := range worklogs {
		row, err := m.Map(ctx, w)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *ActivityMapper) accountFor(ctx context.Context, issue jira.Issue) (*tempo.Account, error) {
	if id, ok := issue.Fields.CustomID(m.Fields.Account); ok {
		if account, ok := m.Lookups.Accounts[id]; ok {
			return &account, nil
		}
	}
	if m.Lookups.AccountLinks == nil || issue.Fields.Project.ID == "" {
		return nil, nil
	}

	projectID := issue.Fields.Project.ID
	if account, ok := m.projectAccounts[projectID]; ok {
		return account, nil
	}
	if m.projectAccounts == nil {
		m.projectAccounts = make(map[string]*tempo.Account)
	}

	links, err := m.Lookups.AccountLinks.ProjectAccountLinks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var found *tempo.Account
	for _, link := range links {
		if !link.Default {
			continue
		}
		if account, ok := m.Lookups.Accounts[link.Account.ID]; ok {
			found = &account
			break
		}
	}
	m.projectAccounts[projectID] = found
	return found, nil
}

func (m *ActivityMapper) translateAttributes(attrs tempo.Attributes) map[string]string {
	out := make(map[string]string, len(attrs.Values))
	for _, v := range attrs.Values {
		if label, ok := m.Lookups.Attributes[v.Key][v.Value]; ok {
			out[v.Key] = label
			continue
		}
		out[v.Key] = v.Value
	}
	return out
}

func (m *ActivityMapper) periodOf(date string) string {
	for _, p := range m.Lookups.Periods {
		if p.From <= date && date <= p.To {
			from, errFrom := FormatDay(p.From)
			to, errTo := FormatDay(p.To)
			if errFrom != nil || errTo != nil {
				return ""
			}
			return from + " - " + to
		}
	}
	return ""
}

func accountLead(a *tempo.Account) string {
	if a.Lead == nil {
		return ""
	}
	return a.Lead.AccountID
}

func accountCategory(a *tempo.Account) string {
	if a.Category == nil {
		return ""
	}
	return a.Category.Name
}

func accountCustomer(a *tempo.Account) string {
	if a.Customer == nil {
		return ""
	}
	return a.Customer.Name
}
