package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"issue-tracking/internal/database"
	"issue-tracking/internal/models"
)

type UserRepo struct{ base }

func NewUserRepo(db *database.DB) *UserRepo { return &UserRepo{newBase(db)} }

const userColumns = `id, first_name, last_name, email, role, company_id, created_at, updated_at`

// Create stores the user with its bcrypt hash.
func (r *UserRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	_, err := r.exec(ctx, `
		INSERT INTO users (id, first_name, last_name, email, role, company_id, password_h, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirstName, u.LastName, u.Email, string(u.Role), u.Company, passwordHash, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var (
		u    models.User
		role string
		ph   string
	)
	err := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT `+userColumns+`, password_h
		FROM users WHERE email = ?`), strings.ToLower(strings.TrimSpace(email))).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &role, &u.Company, &u.CreatedAt, &u.UpdatedAt, &ph)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	u.Role = models.Role(role)
	return &u, ph, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var (
		u    models.User
		role string
	)
	err := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT `+userColumns+`
		FROM users WHERE id = ?`), id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &role, &u.Company, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

// List filters by role and company when given.
func (r *UserRepo) List(ctx context.Context, role models.Role, company string) ([]models.User, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if role != "" {
		clauses = append(clauses, "role = ?")
		args = append(args, string(role))
	}
	if company != "" {
		clauses = append(clauses, "company_id = ?")
		args = append(args, company)
	}

	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT `+userColumns+`
		FROM users
		WHERE `+strings.Join(clauses, " AND ")+`
		ORDER BY last_name ASC, first_name ASC`), args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		var (
			u    models.User
			role string
		)
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &role, &u.Company, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.Role = models.Role(role)
		out = append(out, u)
	}
	return out, rows.Err()
}
