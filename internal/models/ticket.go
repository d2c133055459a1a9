package models

import "time"

type TicketStatus string

const (
	StatusOpen       TicketStatus = "OPEN"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusClosed     TicketStatus = "CLOSED"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
)

type TicketType string

const (
	TypeIssue          TicketType = "ISSUE"
	TypeFollowUp       TicketType = "FOLLOW_UP"
	TypeBug            TicketType = "BUG"
	TypeFeatureRequest TicketType = "FEATURE_REQUEST"
	TypeSupport        TicketType = "SUPPORT"
	TypeOther          TicketType = "OTHER"
)

var (
	TicketStatuses   = []string{string(StatusOpen), string(StatusInProgress), string(StatusClosed)}
	TicketPriorities = []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh)}
	TicketTypes      = []string{
		string(TypeIssue), string(TypeFollowUp), string(TypeBug),
		string(TypeFeatureRequest), string(TypeSupport), string(TypeOther),
	}
)

// Ticket is the stored document. Person references are raw identifiers.
type Ticket struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Assignee         string         `json:"assignee,omitempty"`
	Reporter         string         `json:"reporter,omitempty"`
	ExternalReporter string         `json:"externalReporter,omitempty"`
	Status           TicketStatus   `json:"status"`
	Priority         TicketPriority `json:"priority"`
	TicketType       TicketType     `json:"ticketType"`
	AssignToTeam     bool           `json:"assignToTeam"`
	EstimatedTime    float64        `json:"estimatedTime"`
	Deadline         *time.Time     `json:"deadline,omitempty"`
	IsSubtask        bool           `json:"isSubtask"`
	ParentTask       string         `json:"parentTask,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// TicketView is a ticket enriched by the aggregation join with its project's
// company and services, and with person references expanded.
type TicketView struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Assignee         *PersonRef     `json:"assignee"`
	Reporter         *PersonRef     `json:"reporter"`
	ExternalReporter *PersonRef     `json:"externalReporter"`
	Status           TicketStatus   `json:"status"`
	Priority         TicketPriority `json:"priority"`
	TicketType       TicketType     `json:"ticketType"`
	AssignToTeam     bool           `json:"assignToTeam"`
	EstimatedTime    float64        `json:"estimatedTime"`
	Deadline         *time.Time     `json:"deadline,omitempty"`
	IsSubtask        bool           `json:"isSubtask"`
	ParentTask       string         `json:"parentTask,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`

	ProjectID   string   `json:"projectId,omitempty"`
	ProjectName string   `json:"projectName,omitempty"`
	CompanyID   string   `json:"companyId,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
	ServiceIDs  []string `json:"services,omitempty"`
}

// ExternalReporterID returns the raw id behind the externalReporter projection.
func (t *TicketView) ExternalReporterID() string {
	if t == nil || t.ExternalReporter == nil {
		return ""
	}
	return t.ExternalReporter.ID
}

// PersonRef is the minimal person projection used in responses.
type PersonRef struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Ref builds an unexpanded reference, or nil for an empty id.
func Ref(id string) *PersonRef {
	if id == "" {
		return nil
	}
	return &PersonRef{ID: id}
}
