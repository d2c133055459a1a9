package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"issue-tracking/internal/database"
	"issue-tracking/internal/models"
	"issue-tracking/internal/query"
	"issue-tracking/internal/repository"
)

type TicketRepo struct{ base }

func NewTicketRepo(db *database.DB) *TicketRepo { return &TicketRepo{newBase(db)} }

// ticketSchema exposes ticket attributes and the joined project's company and
// services to filters. Tickets reach their project through project_tickets.
var ticketSchema = query.Schema{
	Columns: map[string]query.Column{
		"id":                      {Expr: "t.id"},
		"title":                   {Expr: "t.title"},
		"description":             {Expr: "t.description"},
		"assignee":                {Expr: "t.assignee"},
		"reporter":                {Expr: "t.reporter"},
		"externalReporter":        {Expr: "t.external_reporter"},
		"status":                  {Expr: "t.status"},
		"priority":                {Expr: "t.priority"},
		"ticketType":              {Expr: "t.ticket_type"},
		"assignToTeam":            {Expr: "t.assign_to_team", Type: query.ColBool},
		"estimatedTime":           {Expr: "t.estimated_time", Type: query.ColNumber},
		"isSubtask":               {Expr: "t.is_subtask", Type: query.ColBool},
		"parentTask":              {Expr: "t.parent_task"},
		"project":                 {Expr: "p.id"},
		query.FieldProjectCompany: {Expr: "p.company_id"},
	},
	Sets: map[string]query.SetColumn{
		query.FieldProjectService: {Table: "project_services", OwnerColumn: "project_id", ValueColumn: "service_id", OwnerExpr: "p.id"},
	},
}

// ticketColumns maps patchable attributes to columns.
var ticketColumns = map[string]string{
	"title":            "title",
	"description":      "description",
	"assignee":         "assignee",
	"reporter":         "reporter",
	"externalReporter": "external_reporter",
	"status":           "status",
	"priority":         "priority",
	"ticketType":       "ticket_type",
	"assignToTeam":     "assign_to_team",
	"estimatedTime":    "estimated_time",
	"deadline":         "deadline",
	"isSubtask":        "is_subtask",
	"parentTask":       "parent_task",
}

const ticketViewSelect = `
	SELECT
		t.id, t.title, t.description, t.assignee, t.reporter, t.external_reporter,
		t.status, t.priority, t.ticket_type, t.assign_to_team, t.estimated_time,
		t.deadline, t.is_subtask, t.parent_task, t.created_at, t.updated_at,
		COALESCE(p.id, ''), COALESCE(p.name, ''), COALESCE(c.id, p.company_id, ''), COALESCE(c.name, '')
	FROM tickets t
	LEFT JOIN project_tickets pt ON pt.ticket_id = t.id
	LEFT JOIN projects p ON p.id = pt.project_id
	LEFT JOIN companies c ON c.id = p.company_id
`

// Aggregate runs the filtered join in one statement, then loads the service
// sets of the matched projects.
func (r *TicketRepo) Aggregate(ctx context.Context, f query.Filter) ([]models.TicketView, error) {
	b := query.NewSQLBuilder(r.dialect)
	where := b.Where(f, ticketSchema)

	rows, err := r.db.QueryContext(ctx, ticketViewSelect+where+`
		ORDER BY t.updated_at DESC, t.id ASC`, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("aggregate tickets: %w", err)
	}
	defer rows.Close()

	var out []models.TicketView
	for rows.Next() {
		v, err := scanTicketView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := r.attachServices(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TicketRepo) Get(ctx context.Context, id string) (*models.TicketView, error) {
	views, err := r.Aggregate(ctx, query.NewFilter(query.KindTicket, query.Eq("id", id)))
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, nil
	}
	return &views[0], nil
}

func (r *TicketRepo) attachServices(ctx context.Context, views []models.TicketView) error {
	var projects []string
	for _, v := range views {
		if v.ProjectID != "" {
			projects = append(projects, v.ProjectID)
		}
	}
	sets, err := r.linkSets(ctx, "project_services", "project_id", "service_id", dedupe(projects))
	if err != nil {
		return fmt.Errorf("load project services: %w", err)
	}
	for i := range views {
		views[i].ServiceIDs = sets[views[i].ProjectID]
	}
	return nil
}

func (r *TicketRepo) ExpandPeople(ctx context.Context, views []models.TicketView) error {
	var ids []string
	for _, v := range views {
		for _, ref := range []*models.PersonRef{v.Assignee, v.Reporter, v.ExternalReporter} {
			if ref != nil {
				ids = append(ids, ref.ID)
			}
		}
	}
	people, err := r.people(ctx, dedupe(ids))
	if err != nil {
		return fmt.Errorf("expand people: %w", err)
	}
	for i := range views {
		views[i].Assignee = expand(views[i].Assignee, people)
		views[i].Reporter = expand(views[i].Reporter, people)
		views[i].ExternalReporter = expand(views[i].ExternalReporter, people)
	}
	return nil
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket, projectID string) error {
	t.ID = uuid.NewString()
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt

	_, err := r.exec(ctx, `
		INSERT INTO tickets (id, title, description, assignee, reporter, external_reporter,
			status, priority, ticket_type, assign_to_team, estimated_time, deadline,
			is_subtask, parent_task, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Assignee, t.Reporter, t.ExternalReporter,
		string(t.Status), string(t.Priority), string(t.TicketType), t.AssignToTeam, t.EstimatedTime, nullTime(t.Deadline),
		t.IsSubtask, t.ParentTask, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	if projectID != "" {
		if _, err := r.exec(ctx, `INSERT INTO project_tickets (project_id, ticket_id) VALUES (?, ?)`, projectID, t.ID); err != nil {
			return fmt.Errorf("link ticket to project: %w", err)
		}
	}
	return nil
}

// Patch writes the attributes as given. Callers validate values; this only
// refuses attributes that have no column.
func (r *TicketRepo) Patch(ctx context.Context, id string, fields []repository.FieldValue) (int64, error) {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for _, fv := range fields {
		col, ok := ticketColumns[fv.Field]
		if !ok {
			return 0, fmt.Errorf("patch ticket: unknown attribute %q", fv.Field)
		}
		sets = append(sets, col+" = ?")
		args = append(args, fv.Value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)

	n, err := r.exec(ctx, `UPDATE tickets SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return 0, fmt.Errorf("patch ticket: %w", err)
	}
	return n, nil
}

// Delete removes the ticket and its project link. Comments are left in place.
func (r *TicketRepo) Delete(ctx context.Context, id string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("delete ticket: begin tx: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM project_tickets WHERE ticket_id = ?`), id); err != nil {
		return 0, fmt.Errorf("delete ticket: unlink: %w", err)
	}
	res, err := tx.ExecContext(ctx, r.rebind(`DELETE FROM tickets WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("delete ticket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete ticket: rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("delete ticket: commit: %w", err)
	}
	return n, nil
}

func (r *TicketRepo) CountByStatus(ctx context.Context, f query.Filter) (map[models.TicketStatus]int, error) {
	b := query.NewSQLBuilder(r.dialect)
	where := b.Where(f, ticketSchema)

	rows, err := r.db.QueryContext(ctx, `
		SELECT t.status, COUNT(*)
		FROM tickets t
		LEFT JOIN project_tickets pt ON pt.ticket_id = t.id
		LEFT JOIN projects p ON p.id = pt.project_id
		`+where+`
		GROUP BY t.status`, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}
	defer rows.Close()

	out := map[models.TicketStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[models.TicketStatus(status)] = n
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTicketView(s scanner) (models.TicketView, error) {
	var (
		v                               models.TicketView
		assignee, reporter, externalRep string
		status, priority, ticketType    string
		deadline                        sql.NullTime
	)
	err := s.Scan(
		&v.ID, &v.Title, &v.Description, &assignee, &reporter, &externalRep,
		&status, &priority, &ticketType, &v.AssignToTeam, &v.EstimatedTime,
		&deadline, &v.IsSubtask, &v.ParentTask, &v.CreatedAt, &v.UpdatedAt,
		&v.ProjectID, &v.ProjectName, &v.CompanyID, &v.CompanyName,
	)
	if err != nil {
		return v, fmt.Errorf("scan ticket: %w", err)
	}
	v.Assignee = models.Ref(assignee)
	v.Reporter = models.Ref(reporter)
	v.ExternalReporter = models.Ref(externalRep)
	v.Status = models.TicketStatus(status)
	v.Priority = models.TicketPriority(priority)
	v.TicketType = models.TicketType(ticketType)
	if deadline.Valid {
		d := deadline.Time
		v.Deadline = &d
	}
	return v, nil
}
