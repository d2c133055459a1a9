package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"issue-tracking/internal/database"
	"issue-tracking/internal/models"
)

type CommentRepo struct{ base }

func NewCommentRepo(db *database.DB) *CommentRepo { return &CommentRepo{newBase(db)} }

// ListForTicket returns the ticket's comments newest first with authors
// expanded.
func (r *CommentRepo) ListForTicket(ctx context.Context, ticketID string) ([]models.CommentView, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(`
		SELECT id, author, message, is_edited, created_at, updated_at
		FROM comments
		WHERE ticket_id = ?
		ORDER BY created_at DESC, id DESC`), ticketID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := []models.CommentView{}
	var authors []string
	for rows.Next() {
		var (
			c      models.CommentView
			author string
		)
		if err := rows.Scan(&c.ID, &author, &c.Message, &c.IsEdited, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Author = models.Ref(author)
		authors = append(authors, author)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	people, err := r.people(ctx, dedupe(authors))
	if err != nil {
		return nil, fmt.Errorf("expand comment authors: %w", err)
	}
	for i := range out {
		out[i].Author = expand(out[i].Author, people)
	}
	return out, nil
}

func (r *CommentRepo) Get(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRowContext(ctx, r.rebind(`
		SELECT id, ticket_id, author, message, is_edited, revision, created_at, updated_at
		FROM comments WHERE id = ?`), id).
		Scan(&c.ID, &c.TicketID, &c.Author, &c.Message, &c.IsEdited, &c.Revision, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepo) Create(ctx context.Context, c *models.Comment) error {
	c.ID = uuid.NewString()
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt
	c.IsEdited = false
	c.Revision = 0
	_, err := r.exec(ctx, `
		INSERT INTO comments (id, ticket_id, author, message, is_edited, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.TicketID, c.Author, c.Message, c.IsEdited, c.Revision, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// UpdateMessage rewrites the message and marks the comment edited.
func (r *CommentRepo) UpdateMessage(ctx context.Context, id, message string) (*models.Comment, error) {
	n, err := r.exec(ctx, `
		UPDATE comments SET message = ?, is_edited = ?, revision = revision + 1, updated_at = ?
		WHERE id = ?`, message, true, now(), id)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return r.Get(ctx, id)
}

func (r *CommentRepo) Delete(ctx context.Context, id string) (int64, error) {
	n, err := r.exec(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}
	return n, nil
}
