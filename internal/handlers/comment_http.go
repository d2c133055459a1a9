package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"issue-tracking/internal/middleware"
	"issue-tracking/internal/service"
	"issue-tracking/internal/utils"
)

type CommentHTTP struct {
	svc *service.CommentService
	rs  Responder
}

func NewCommentHTTP(s *service.CommentService, rs Responder) *CommentHTTP {
	return &CommentHTTP{svc: s, rs: rs}
}

// PATCH /api/comments/{id}
func (h *CommentHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := decode(w, r, &in); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		c, err := h.svc.Edit(r.Context(), middleware.PrincipalFrom(r.Context()), chi.URLParam(r, "id"), in.Message)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, c)
	}
}

// DELETE /api/comments/{id}
func (h *CommentHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), middleware.PrincipalFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
	}
}
