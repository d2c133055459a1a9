package sqlrepo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"issue-tracking/internal/database"
	"issue-tracking/internal/models"
	"issue-tracking/internal/query"
)

type ProjectRepo struct{ base }

func NewProjectRepo(db *database.DB) *ProjectRepo { return &ProjectRepo{newBase(db)} }

var projectSchema = query.Schema{
	Columns: map[string]query.Column{
		"id":               {Expr: "p.id"},
		"name":             {Expr: "p.name"},
		"url":              {Expr: "p.url"},
		"description":      {Expr: "p.description"},
		query.FieldCompany: {Expr: "p.company_id"},
	},
	Sets: map[string]query.SetColumn{
		query.FieldServices: {Table: "project_services", OwnerColumn: "project_id", ValueColumn: "service_id", OwnerExpr: "p.id"},
		"team":              {Table: "project_team", OwnerColumn: "project_id", ValueColumn: "user_id", OwnerExpr: "p.id"},
		"tickets":           {Table: "project_tickets", OwnerColumn: "project_id", ValueColumn: "ticket_id", OwnerExpr: "p.id"},
	},
}

func (r *ProjectRepo) List(ctx context.Context, f query.Filter) ([]models.Project, error) {
	b := query.NewSQLBuilder(r.dialect)
	where := b.Where(f, projectSchema)

	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.company_id, p.url, p.description, p.created_at, p.updated_at
		FROM projects p
		`+where+`
		ORDER BY p.name ASC, p.id ASC`, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Company, &p.URL, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := r.attachSets(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProjectRepo) Get(ctx context.Context, id string) (*models.Project, error) {
	list, err := r.List(ctx, query.NewFilter(query.KindProject, query.Eq("id", id)))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *ProjectRepo) attachSets(ctx context.Context, projects []models.Project) error {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	services, err := r.linkSets(ctx, "project_services", "project_id", "service_id", ids)
	if err != nil {
		return fmt.Errorf("load project services: %w", err)
	}
	tickets, err := r.linkSets(ctx, "project_tickets", "project_id", "ticket_id", ids)
	if err != nil {
		return fmt.Errorf("load project tickets: %w", err)
	}
	team, err := r.linkSets(ctx, "project_team", "project_id", "user_id", ids)
	if err != nil {
		return fmt.Errorf("load project team: %w", err)
	}
	for i := range projects {
		projects[i].Services = nonNil(services[projects[i].ID])
		projects[i].Tickets = nonNil(tickets[projects[i].ID])
		projects[i].Team = nonNil(team[projects[i].ID])
	}
	return nil
}

func (r *ProjectRepo) Create(ctx context.Context, p *models.Project) error {
	p.ID = uuid.NewString()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	_, err := r.exec(ctx, `
		INSERT INTO projects (id, name, company_id, url, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Company, p.URL, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return r.writeSets(ctx, p)
}

// Update overwrites the scalar fields and all three reference sets.
func (r *ProjectRepo) Update(ctx context.Context, p *models.Project) error {
	p.UpdatedAt = now()
	_, err := r.exec(ctx, `
		UPDATE projects SET name = ?, company_id = ?, url = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Company, p.URL, p.Description, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return r.writeSets(ctx, p)
}

func (r *ProjectRepo) writeSets(ctx context.Context, p *models.Project) error {
	if err := r.replaceLinks(ctx, "project_services", "project_id", "service_id", p.ID, p.Services); err != nil {
		return fmt.Errorf("write project services: %w", err)
	}
	if err := r.replaceLinks(ctx, "project_team", "project_id", "user_id", p.ID, p.Team); err != nil {
		return fmt.Errorf("write project team: %w", err)
	}
	// a ticket moves to this project if another project listed it
	for _, tid := range dedupe(p.Tickets) {
		if _, err := r.exec(ctx, `DELETE FROM project_tickets WHERE ticket_id = ? AND project_id <> ?`, tid, p.ID); err != nil {
			return fmt.Errorf("move ticket: %w", err)
		}
	}
	if err := r.replaceLinks(ctx, "project_tickets", "project_id", "ticket_id", p.ID, p.Tickets); err != nil {
		return fmt.Errorf("write project tickets: %w", err)
	}
	p.Services = nonNil(dedupe(p.Services))
	p.Team = nonNil(dedupe(p.Team))
	p.Tickets = nonNil(dedupe(p.Tickets))
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) (int64, error) {
	n, err := r.exec(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete project: %w", err)
	}
	for _, table := range []string{"project_services", "project_team", "project_tickets"} {
		if _, err := r.exec(ctx, `DELETE FROM `+table+` WHERE project_id = ?`, id); err != nil {
			return n, fmt.Errorf("delete project links: %w", err)
		}
	}
	return n, nil
}
