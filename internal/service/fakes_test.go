package service

import (
	"context"
	"sync"

	"issue-tracking/internal/models"
	"issue-tracking/internal/query"
	"issue-tracking/internal/repository"
)

// fakeTickets keeps tickets in memory and records the last filter and patch.
type fakeTickets struct {
	mu         sync.Mutex
	views      map[string]models.TicketView
	lastFilter query.Filter
	lastPatch  []repository.FieldValue
	patchFn    func(id string, fields []repository.FieldValue) (int64, error)
}

func newFakeTickets(views ...models.TicketView) *fakeTickets {
	f := &fakeTickets{views: map[string]models.TicketView{}}
	for _, v := range views {
		f.views[v.ID] = v
	}
	return f
}

func (f *fakeTickets) Aggregate(ctx context.Context, flt query.Filter) ([]models.TicketView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = flt
	var out []models.TicketView
	for _, v := range f.views {
		if c, ok := flt.Lookup(query.FieldProjectCompany); ok && !member(c.Values, v.CompanyID) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeTickets) Get(ctx context.Context, id string) (*models.TicketView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.views[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (f *fakeTickets) ExpandPeople(ctx context.Context, views []models.TicketView) error { return nil }

func (f *fakeTickets) Create(ctx context.Context, t *models.Ticket, projectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = "t-new"
	f.views[t.ID] = models.TicketView{
		ID: t.ID, Title: t.Title, Description: t.Description,
		Reporter: models.Ref(t.Reporter), ExternalReporter: models.Ref(t.ExternalReporter),
		Status: t.Status, Priority: t.Priority, TicketType: t.TicketType, ProjectID: projectID,
	}
	return nil
}

func (f *fakeTickets) Patch(ctx context.Context, id string, fields []repository.FieldValue) (int64, error) {
	f.mu.Lock()
	f.lastPatch = fields
	f.mu.Unlock()
	if f.patchFn != nil {
		return f.patchFn(id, fields)
	}
	return 1, nil
}

func (f *fakeTickets) Delete(ctx context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.views[id]; !ok {
		return 0, nil
	}
	delete(f.views, id)
	return 1, nil
}

func (f *fakeTickets) CountByStatus(ctx context.Context, flt query.Filter) (map[models.TicketStatus]int, error) {
	f.mu.Lock()
	f.lastFilter = flt
	f.mu.Unlock()
	return map[models.TicketStatus]int{models.StatusOpen: 2, models.StatusClosed: 1}, nil
}

type fakeComments struct {
	byID map[string]models.Comment
}

func (f *fakeComments) ListForTicket(ctx context.Context, ticketID string) ([]models.CommentView, error) {
	return []models.CommentView{}, nil
}

func (f *fakeComments) Get(ctx context.Context, id string) (*models.Comment, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeComments) Create(ctx context.Context, c *models.Comment) error {
	c.ID = "c-new"
	if f.byID == nil {
		f.byID = map[string]models.Comment{}
	}
	f.byID[c.ID] = *c
	return nil
}

func (f *fakeComments) UpdateMessage(ctx context.Context, id, message string) (*models.Comment, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	c.Message, c.IsEdited = message, true
	f.byID[id] = c
	return &c, nil
}

func (f *fakeComments) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

type fakeProjects struct {
	list       []models.Project
	lastFilter query.Filter
}

func (f *fakeProjects) List(ctx context.Context, flt query.Filter) ([]models.Project, error) {
	f.lastFilter = flt
	return f.list, nil
}

func (f *fakeProjects) Get(ctx context.Context, id string) (*models.Project, error) {
	for _, p := range f.list {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeProjects) Create(ctx context.Context, p *models.Project) error { return nil }
func (f *fakeProjects) Update(ctx context.Context, p *models.Project) error { return nil }
func (f *fakeProjects) Delete(ctx context.Context, id string) (int64, error) {
	return 0, nil
}
