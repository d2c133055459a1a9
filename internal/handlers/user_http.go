package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"issue-tracking/internal/service"
	"issue-tracking/internal/utils"
)

type UserHTTP struct {
	svc *service.AuthService
	rs  Responder
}

func NewUserHTTP(s *service.AuthService, rs Responder) *UserHTTP {
	return &UserHTTP{svc: s, rs: rs}
}

// GET /api/users?role=&company=
func (h *UserHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		users, err := h.svc.Users(r.Context(), qv.Get("role"), qv.Get("company"))
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, users)
	}
}

// GET /api/users/{id}
func (h *UserHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := h.svc.User(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}
