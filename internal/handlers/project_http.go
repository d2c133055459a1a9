package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"issue-tracking/internal/middleware"
	"issue-tracking/internal/service"
	"issue-tracking/internal/utils"
)

type ProjectHTTP struct {
	svc *service.ProjectService
	rs  Responder
}

func NewProjectHTTP(s *service.ProjectService, rs Responder) *ProjectHTTP {
	return &ProjectHTTP{svc: s, rs: rs}
}

// GET /api/projects?key=value
func (h *ProjectHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.List(r.Context(), middleware.PrincipalFrom(r.Context()), r.URL.Query())
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// GET /api/projects/{id}
func (h *ProjectHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := h.svc.Get(r.Context(), middleware.PrincipalFrom(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

// POST /api/projects
func (h *ProjectHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.ProjectInput
		if err := decode(w, r, &in); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		p, err := h.svc.Create(r.Context(), in)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, p)
	}
}

// PATCH /api/projects/{id}
func (h *ProjectHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.ProjectInput
		if err := decode(w, r, &in); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, p)
	}
}

// DELETE /api/projects/{id}
func (h *ProjectHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
	}
}
