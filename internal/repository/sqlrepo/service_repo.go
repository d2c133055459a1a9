package sqlrepo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"issue-tracking/internal/database"
	"issue-tracking/internal/models"
)

type ServiceRepo struct{ base }

func NewServiceRepo(db *database.DB) *ServiceRepo { return &ServiceRepo{newBase(db)} }

func (r *ServiceRepo) List(ctx context.Context) ([]models.Service, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, url, version, tier, created_at, updated_at
		FROM services
		ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	out := []models.Service{}
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.URL, &s.Version, &s.Tier, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ServiceRepo) Create(ctx context.Context, s *models.Service) error {
	s.ID = uuid.NewString()
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	_, err := r.exec(ctx, `
		INSERT INTO services (id, name, description, url, version, tier, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Description, s.URL, s.Version, s.Tier, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}
