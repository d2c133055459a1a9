package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"issue-tracking/internal/middleware"
	"issue-tracking/internal/models"
	"issue-tracking/internal/service"
	"issue-tracking/internal/utils"
)

type CatalogHTTP struct {
	svc *service.CatalogService
	rs  Responder
}

func NewCatalogHTTP(s *service.CatalogService, rs Responder) *CatalogHTTP {
	return &CatalogHTTP{svc: s, rs: rs}
}

// GET /api/companies?key=value
func (h *CatalogHTTP) ListCompanies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.ListCompanies(r.Context(), r.URL.Query())
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// GET /api/companies/{id}
func (h *CatalogHTTP) GetCompany() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := h.svc.GetCompany(r.Context(), middleware.PrincipalFrom(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, c)
	}
}

// POST /api/companies
func (h *CatalogHTTP) CreateCompany() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.CompanyInput
		if err := decode(w, r, &in); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		c, err := h.svc.CreateCompany(r.Context(), in)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, c)
	}
}

// GET /api/services
func (h *CatalogHTTP) ListServices() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.svc.ListServices(r.Context())
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, items)
	}
}

// POST /api/services
func (h *CatalogHTTP) CreateService() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.Service
		if err := decode(w, r, &in); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		s, err := h.svc.CreateService(r.Context(), in)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, s)
	}
}
