package service

import (
	"context"
	"net/url"

	"issue-tracking/internal/models"
	"issue-tracking/internal/policy"
	"issue-tracking/internal/query"
	"issue-tracking/internal/repository"
)

type ReportService struct {
	tickets repository.TicketRepository
}

func NewReportService(tickets repository.TicketRepository) *ReportService {
	return &ReportService{tickets: tickets}
}

// Summary counts tickets per status.
type Summary struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// Summary counts the tickets p would see when listing with the same query.
// Every status is present, zero or not.
func (s *ReportService) Summary(ctx context.Context, p models.Principal, values url.Values) (*Summary, error) {
	f, err := query.Compile(values, query.KindTicket)
	if err != nil {
		return nil, err
	}
	f = policy.NarrowListQuery(p, f, query.KindTicket)

	counts, err := s.tickets.CountByStatus(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &Summary{ByStatus: make(map[string]int, len(models.TicketStatuses))}
	for _, st := range models.TicketStatuses {
		out.ByStatus[st] = 0
	}
	for st, n := range counts {
		out.ByStatus[string(st)] += n
		out.Total += n
	}
	return out, nil
}
