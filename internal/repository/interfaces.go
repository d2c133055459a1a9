package repository

import (
	"context"

	"issue-tracking/internal/models"
	"issue-tracking/internal/query"
)

// FieldValue is one attribute of a partial update, already decoded to the
// attribute's Go type.
type FieldValue struct {
	Field string
	Value any
}

// TicketRepository is the ticket aggregation view plus ticket writes.
type TicketRepository interface {
	// Aggregate returns tickets matching f, joined with their project's
	// company and services. Person references are not expanded.
	Aggregate(ctx context.Context, f query.Filter) ([]models.TicketView, error)
	// Get returns one aggregated ticket, or nil when absent.
	Get(ctx context.Context, id string) (*models.TicketView, error)
	// ExpandPeople replaces raw person references with name projections.
	ExpandPeople(ctx context.Context, views []models.TicketView) error
	Create(ctx context.Context, t *models.Ticket, projectID string) error
	// Patch writes the given attributes verbatim and reports rows changed.
	Patch(ctx context.Context, id string, fields []FieldValue) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	CountByStatus(ctx context.Context, f query.Filter) (map[models.TicketStatus]int, error)
}

type CommentRepository interface {
	ListForTicket(ctx context.Context, ticketID string) ([]models.CommentView, error)
	Get(ctx context.Context, id string) (*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) error
	UpdateMessage(ctx context.Context, id, message string) (*models.Comment, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type ProjectRepository interface {
	List(ctx context.Context, f query.Filter) ([]models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, p *models.Project) error
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id string) (int64, error)
}

type CompanyRepository interface {
	List(ctx context.Context, f query.Filter) ([]models.Company, error)
	Get(ctx context.Context, id string) (*models.Company, error)
	Create(ctx context.Context, c *models.Company) error
}

type ServiceRepository interface {
	List(ctx context.Context) ([]models.Service, error)
	Create(ctx context.Context, s *models.Service) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (*models.User, string /*passwordHash*/, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, role models.Role, company string) ([]models.User, error)
}
