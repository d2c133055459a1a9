package service

import (
	"context"
	"strings"

	"issue-tracking/internal/apperr"
	"issue-tracking/internal/models"
	"issue-tracking/internal/policy"
	"issue-tracking/internal/repository"
)

type CommentService struct {
	tickets  repository.TicketRepository
	comments repository.CommentRepository
}

func NewCommentService(tickets repository.TicketRepository, comments repository.CommentRepository) *CommentService {
	return &CommentService{tickets: tickets, comments: comments}
}

// Add posts a comment as p. Anyone who may read the ticket may comment on it.
func (s *CommentService) Add(ctx context.Context, p models.Principal, ticketID, message string) (*models.Comment, error) {
	t, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("ticket")
	}
	if !policy.AuthorizeSingleRead(p, t) {
		return nil, apperr.NotAuthorized("not allowed to comment on this ticket")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.Validation("message", "is required")
	}
	c := &models.Comment{TicketID: t.ID, Author: p.ID, Message: message}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) Edit(ctx context.Context, p models.Principal, id, message string) (*models.Comment, error) {
	c, err := s.comments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("comment")
	}
	if !policy.AuthorizeCommentChange(p, c) {
		return nil, apperr.NotAuthorized("not allowed to edit this comment")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperr.Validation("message", "is required")
	}
	updated, err := s.comments.UpdateMessage(ctx, id, message)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("comment")
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, p models.Principal, id string) error {
	c, err := s.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFound("comment")
	}
	if !policy.AuthorizeCommentChange(p, c) {
		return apperr.NotAuthorized("not allowed to delete this comment")
	}
	n, err := s.comments.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFound("comment")
	}
	return nil
}
