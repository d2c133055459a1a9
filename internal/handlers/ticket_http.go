package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"issue-tracking/internal/middleware"
	"issue-tracking/internal/service"
	"issue-tracking/internal/utils"
)

// TicketHTTP wires ticket endpoints to the ticket and comment services.
type TicketHTTP struct {
	tickets  *service.TicketService
	comments *service.CommentService
	rs       Responder
}

func NewTicketHTTP(tickets *service.TicketService, comments *service.CommentService, rs Responder) *TicketHTTP {
	return &TicketHTTP{tickets: tickets, comments: comments, rs: rs}
}

// -----------------------------------------------------------------------------
// GET /api/tickets?key=value
// -----------------------------------------------------------------------------
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middleware.PrincipalFrom(r.Context())
		items, err := h.tickets.List(r.Context(), p, r.URL.Query())
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(len(items)))
		utils.JSON(w, http.StatusOK, items)
	}
}

// -----------------------------------------------------------------------------
// GET /api/tickets/{id}
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middleware.PrincipalFrom(r.Context())
		d, err := h.tickets.Get(r.Context(), p, chi.URLParam(r, "id"))
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, d)
	}
}

// -----------------------------------------------------------------------------
// POST /api/tickets
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.TicketInput
		if err := decode(w, r, &in); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		t, err := h.tickets.Create(r.Context(), middleware.PrincipalFrom(r.Context()), in)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, t)
	}
}

// -----------------------------------------------------------------------------
// PATCH /api/tickets/{id}
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := readBody(w, r)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		p := middleware.PrincipalFrom(r.Context())
		t, err := h.tickets.Update(r.Context(), p, chi.URLParam(r, "id"), body)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// -----------------------------------------------------------------------------
// DELETE /api/tickets/{id}
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middleware.PrincipalFrom(r.Context())
		if err := h.tickets.Delete(r.Context(), p, chi.URLParam(r, "id")); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"message": "ticket deleted"})
	}
}

// -----------------------------------------------------------------------------
// POST /api/tickets/{id}/comments
// -----------------------------------------------------------------------------
func (h *TicketHTTP) AddComment() http.HandlerFunc {
	type inDTO struct {
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := decode(w, r, &in); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		p := middleware.PrincipalFrom(r.Context())
		c, err := h.comments.Add(r.Context(), p, chi.URLParam(r, "id"), in.Message)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, c)
	}
}
