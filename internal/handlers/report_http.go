package handlers

import (
	"net/http"

	"issue-tracking/internal/middleware"
	"issue-tracking/internal/service"
	"issue-tracking/internal/utils"
)

type ReportsHTTP struct {
	svc *service.ReportService
	rs  Responder
}

func NewReportsHTTP(s *service.ReportService, rs Responder) *ReportsHTTP {
	return &ReportsHTTP{svc: s, rs: rs}
}

// GET /api/reports/summary?key=value
// Returns: { total, byStatus } over the tickets the caller may list.
func (h *ReportsHTTP) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.svc.Summary(r.Context(), middleware.PrincipalFrom(r.Context()), r.URL.Query())
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, s)
	}
}
