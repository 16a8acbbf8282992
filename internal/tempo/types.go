package tempo

import "encoding/json"

// Metadata is the paging envelope of Tempo list responses.
type Metadata struct {
	Count    int    `json:"count"`
	Offset   int    `json:"offset"`
	Limit    int    `json:"limit"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

type listResponse[T any] struct {
	Metadata Metadata `json:"metadata"`
	Results  []T      `json:"results"`
}

// Worklog is a Tempo worklog record.
type Worklog struct {
	TempoWorklogID   int64      `json:"tempoWorklogId"`
	Issue            IssueRef   `json:"issue"`
	TimeSpentSeconds int64      `json:"timeSpentSeconds"`
	BillableSeconds  int64      `json:"billableSeconds"`
	StartDate        string     `json:"startDate"`
	StartTime        string     `json:"startTime"`
	Description      string     `json:"description"`
	CreatedAt        string     `json:"createdAt"`
	UpdatedAt        string     `json:"updatedAt"`
	Author           AccountRef `json:"author"`
	Attributes       Attributes `json:"attributes"`
}

// IssueRef identifies the Jira issue a worklog belongs to.
type IssueRef struct {
	ID int64 `json:"id"`
}

// AccountRef identifies a Jira user by account id.
type AccountRef struct {
	AccountID string `json:"accountId"`
}

// Attributes holds the work attribute values of a worklog.
type Attributes struct {
	Values []AttributeValue `json:"values"`
}

// AttributeValue is one coded work attribute value.
type AttributeValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Account is a Tempo billing account.
type Account struct {
	ID       int64       `json:"id"`
	Key      string      `json:"key"`
	Name     string      `json:"name"`
	Status   string      `json:"status,omitempty"`
	Lead     *AccountRef `json:"lead,omitempty"`
	Contact  *AccountRef `json:"contact,omitempty"`
	Category *Category   `json:"category,omitempty"`
	Customer *Customer   `json:"customer,omitempty"`
}

// Category groups accounts.
type Category struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Type *struct {
		Name string `json:"name"`
	} `json:"type,omitempty"`
}

// Customer is the customer an account bills to.
type Customer struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// AccountLink ties an account to a scope such as a project.
type AccountLink struct {
	ID      int64     `json:"id"`
	Default bool      `json:"default"`
	Scope   LinkScope `json:"scope"`
	Account EntityRef `json:"account"`
}

// LinkScope is the entity an account link applies to.
type LinkScope struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// EntityRef references a Tempo entity by numeric id.
type EntityRef struct {
	ID int64 `json:"id"`
}

// WorkAttribute describes a coded worklog attribute.
type WorkAttribute struct {
	Key    string          `json:"key"`
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Values []string        `json:"values,omitempty"`
	Names  json.RawMessage `json:"names,omitempty"`
}

// Labels maps each value code to its label. Tempo sends names either as an object
// keyed by value or as an array parallel to Values.
func (a WorkAttribute) Labels() map[string]string {
	labels := make(map[string]string, len(a.Values))
	if len(a.Names) == 0 {
		return labels
	}

	var byValue map[string]string
	if err := json.Unmarshal(a.Names, &byValue); err == nil {
		for k, v := range byValue {
			labels[k] = v
		}
		return labels
	}

	var names []string
	if err := json.Unmarshal(a.Names, &names); err == nil {
		for i, value := range a.Values {
			if i < len(names) {
				labels[value] = names[i]
			}
		}
	}
	return labels
}

// Period is an accounting period.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type periodsResponse struct {
	Periods []Period `json:"periods"`
}
