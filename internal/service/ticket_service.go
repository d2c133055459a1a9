package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"issue-tracking/internal/apperr"
	"issue-tracking/internal/models"
	"issue-tracking/internal/policy"
	"issue-tracking/internal/query"
	"issue-tracking/internal/repository"
)

type TicketService struct {
	tickets  repository.TicketRepository
	comments repository.CommentRepository
	projects repository.ProjectRepository
	log      zerolog.Logger
	opts     Options
}

func NewTicketService(
	tickets repository.TicketRepository,
	comments repository.CommentRepository,
	projects repository.ProjectRepository,
	log zerolog.Logger,
	opts Options,
) *TicketService {
	return &TicketService{tickets: tickets, comments: comments, projects: projects, log: log, opts: opts}
}

// TicketDetail is a single ticket with its comments.
type TicketDetail struct {
	Ticket   *models.TicketView   `json:"ticket"`
	Comments []models.CommentView `json:"comments"`
}

// -----------------------------------------------------------------------------
// Reads
// -----------------------------------------------------------------------------

// List compiles the query, narrows it for p and returns the matching tickets
// with people expanded.
func (s *TicketService) List(ctx context.Context, p models.Principal, values url.Values) ([]models.TicketView, error) {
	f, err := s.listFilter(p, values)
	if err != nil {
		return nil, err
	}
	views, err := s.tickets.Aggregate(ctx, f)
	if err != nil {
		return nil, err
	}
	if s.opts.isEmptyTreatedAsNotFound(len(views)) {
		return nil, apperr.NotFound("tickets")
	}
	if err := s.tickets.ExpandPeople(ctx, views); err != nil {
		return nil, err
	}
	if views == nil {
		views = []models.TicketView{}
	}
	return views, nil
}

func (s *TicketService) listFilter(p models.Principal, values url.Values) (query.Filter, error) {
	f, err := query.Compile(values, query.KindTicket)
	if err != nil {
		return query.Filter{}, err
	}
	narrowed := policy.NarrowListQuery(p, f, query.KindTicket)
	if narrowed.Len() != f.Len() {
		s.log.Debug().Str("uid", p.ID).Str("role", string(p.Role)).Msg("ticket listing narrowed to caller company")
	}
	return narrowed, nil
}

// Get returns the ticket with its comments, newest first.
func (s *TicketService) Get(ctx context.Context, p models.Principal, id string) (*TicketDetail, error) {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("ticket")
	}
	comments, err := s.comments.ListForTicket(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if !policy.AuthorizeSingleRead(p, t) {
		return nil, apperr.NotAuthorized("not allowed to read this ticket")
	}
	if err := s.expandOne(ctx, t); err != nil {
		return nil, err
	}
	return &TicketDetail{Ticket: t, Comments: comments}, nil
}

func (s *TicketService) expandOne(ctx context.Context, t *models.TicketView) error {
	views := []models.TicketView{*t}
	if err := s.tickets.ExpandPeople(ctx, views); err != nil {
		return err
	}
	*t = views[0]
	return nil
}

// -----------------------------------------------------------------------------
// Writes
// -----------------------------------------------------------------------------

// TicketInput is the body of a create request.
type TicketInput struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Assignee         string     `json:"assignee"`
	Reporter         string     `json:"reporter"`
	ExternalReporter string     `json:"externalReporter"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	TicketType       string     `json:"ticketType"`
	AssignToTeam     bool       `json:"assignToTeam"`
	EstimatedTime    float64    `json:"estimatedTime"`
	Deadline         *time.Time `json:"deadline"`
	IsSubtask        bool       `json:"isSubtask"`
	ParentTask       string     `json:"parentTask"`
	Project          string     `json:"project"`
}

// Create stores a new ticket. Missing status, priority and type get their
// defaults. A CLIENT always files as the external reporter; staff default to
// reporter when no identity is given.
func (s *TicketService) Create(ctx context.Context, p models.Principal, in TicketInput) (*models.TicketView, error) {
	t := &models.Ticket{
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		Assignee:         strings.TrimSpace(in.Assignee),
		Reporter:         strings.TrimSpace(in.Reporter),
		ExternalReporter: strings.TrimSpace(in.ExternalReporter),
		Status:           models.StatusOpen,
		Priority:         models.PriorityLow,
		TicketType:       models.TypeIssue,
		AssignToTeam:     in.AssignToTeam,
		EstimatedTime:    in.EstimatedTime,
		Deadline:         in.Deadline,
		IsSubtask:        in.IsSubtask,
		ParentTask:       strings.TrimSpace(in.ParentTask),
	}
	if t.Title == "" {
		return nil, apperr.Validation("title", "is required")
	}
	if in.Status != "" {
		if !member(models.TicketStatuses, in.Status) {
			return nil, apperr.Validation("status", "unknown value "+in.Status)
		}
		t.Status = models.TicketStatus(in.Status)
	}
	if in.Priority != "" {
		if !member(models.TicketPriorities, in.Priority) {
			return nil, apperr.Validation("priority", "unknown value "+in.Priority)
		}
		t.Priority = models.TicketPriority(in.Priority)
	}
	if in.TicketType != "" {
		if !member(models.TicketTypes, in.TicketType) {
			return nil, apperr.Validation("ticketType", "unknown value "+in.TicketType)
		}
		t.TicketType = models.TicketType(in.TicketType)
	}
	if t.EstimatedTime < 0 {
		return nil, apperr.Validation("estimatedTime", "must not be negative")
	}

	switch p.Role {
	case models.RoleClient:
		t.ExternalReporter = p.ID
	case models.RoleStaff, models.RoleAdmin, models.RoleSuperAdmin:
		if t.Reporter == "" && t.ExternalReporter == "" {
			t.Reporter = p.ID
		}
	default:
		return nil, apperr.NotAuthorized("authentication required")
	}
	if t.Description == "" && t.Reporter == "" && t.ExternalReporter == "" {
		return nil, apperr.Validation("description", "description or reporter is required")
	}

	projectID, err := s.projectFor(ctx, p, in.Project)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Create(ctx, t, projectID); err != nil {
		return nil, err
	}
	return s.reload(ctx, t.ID)
}

func (s *TicketService) projectFor(ctx context.Context, p models.Principal, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	id, err := query.CanonicalID(raw)
	if err != nil {
		return "", apperr.Validation("project", "must be an identifier")
	}
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if project == nil {
		return "", apperr.Validation("project", "unknown project")
	}
	if !policy.AuthorizeProjectRead(p, project) {
		return "", apperr.NotAuthorized("not allowed to file tickets on this project")
	}
	return id, nil
}

// Update applies a partial update. Every known attribute in the payload is
// written as given; unknown attributes are ignored. With StrictUpdates the
// attributes are first checked against the caller's capability set.
func (s *TicketService) Update(ctx context.Context, p models.Principal, id string, body []byte) (*models.TicketView, error) {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("ticket")
	}
	if !policy.AuthorizeMutation(p, t, policy.ChangeUpdate) {
		return nil, apperr.NotAuthorized("not allowed to update this ticket")
	}

	fields, err := DecodeTicketPatch(body)
	if err != nil {
		return nil, err
	}
	if s.opts.StrictUpdates {
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.Field
		}
		if err := policy.CheckPatchFields(p.Role, names); err != nil {
			return nil, err
		}
	}
	if len(fields) > 0 {
		n, err := s.tickets.Patch(ctx, t.ID, fields)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, apperr.NotFound("ticket")
		}
	}
	return s.reload(ctx, t.ID)
}

// Delete removes the ticket. A missing ticket is checked like an empty one,
// so CLIENT callers get 401 and staff get 404.
func (s *TicketService) Delete(ctx context.Context, p models.Principal, id string) error {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		t = &models.TicketView{ID: id}
	}
	if !policy.AuthorizeMutation(p, t, policy.ChangeDelete) {
		return apperr.NotAuthorized("not allowed to delete this ticket")
	}
	n, err := s.tickets.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("ticket")
	}
	s.log.Info().Str("ticket", id).Str("uid", p.ID).Msg("ticket deleted")
	return nil
}

func (s *TicketService) reload(ctx context.Context, id string) (*models.TicketView, error) {
	t, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("ticket")
	}
	if err := s.expandOne(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func member(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
