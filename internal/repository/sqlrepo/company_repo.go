package sqlrepo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"issue-tracking/internal/database"
	"issue-tracking/internal/models"
	"issue-tracking/internal/query"
)

type CompanyRepo struct{ base }

func NewCompanyRepo(db *database.DB) *CompanyRepo { return &CompanyRepo{newBase(db)} }

var companySchema = query.Schema{
	Columns: map[string]query.Column{
		"id":                 {Expr: "c.id"},
		"name":               {Expr: "c.name"},
		"url":                {Expr: "c.url"},
		"industry":           {Expr: "c.industry"},
		"subscriptionStatus": {Expr: "c.subscription_status"},
	},
}

func (r *CompanyRepo) List(ctx context.Context, f query.Filter) ([]models.Company, error) {
	b := query.NewSQLBuilder(r.dialect)
	where := b.Where(f, companySchema)

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.url, c.subscription_status, c.industry, c.created_at, c.updated_at
		FROM companies c
		`+where+`
		ORDER BY c.name ASC, c.id ASC`, b.Args()...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []models.Company
	for rows.Next() {
		var (
			c      models.Company
			status string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.URL, &status, &c.Industry, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.SubscriptionStatus = models.SubscriptionStatus(status)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, len(out))
	for i, c := range out {
		ids[i] = c.ID
	}
	employees, err := r.linkSets(ctx, "users", "company_id", "id", ids)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}
	projects, err := r.linkSets(ctx, "projects", "company_id", "id", ids)
	if err != nil {
		return nil, fmt.Errorf("load company projects: %w", err)
	}
	for i := range out {
		out[i].Employees = nonNil(employees[out[i].ID])
		out[i].Projects = nonNil(projects[out[i].ID])
	}
	return out, nil
}

func (r *CompanyRepo) Get(ctx context.Context, id string) (*models.Company, error) {
	list, err := r.List(ctx, query.NewFilter(query.KindCompany, query.Eq("id", id)))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *CompanyRepo) Create(ctx context.Context, c *models.Company) error {
	c.ID = uuid.NewString()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	if c.SubscriptionStatus == "" {
		c.SubscriptionStatus = models.SubscriptionOnboarding
	}
	_, err := r.exec(ctx, `
		INSERT INTO companies (id, name, url, subscription_status, industry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.URL, string(c.SubscriptionStatus), c.Industry, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	c.Employees = []string{}
	c.Projects = []string{}
	return nil
}
