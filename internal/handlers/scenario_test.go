package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"issue-tracking/internal/config"
	"issue-tracking/internal/database"
	"issue-tracking/internal/models"
	"issue-tracking/internal/repository/sqlrepo"
	"issue-tracking/internal/router"
	"issue-tracking/internal/utils"
)

const secret = "test-secret"

type env struct {
	h       http.Handler
	db      *database.DB
	c1, c2  *models.Company
	p1, p2  *models.Project
	staff   *models.User
	client  *models.User
	outside *models.User
}

func newEnv(t *testing.T) *env {
	t.Helper()
	utils.BcryptCost = bcrypt.MinCost
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db))

	e := &env{db: db}
	companies := sqlrepo.NewCompanyRepo(db)
	projects := sqlrepo.NewProjectRepo(db)
	users := sqlrepo.NewUserRepo(db)

	e.c1 = &models.Company{Name: "Acme"}
	e.c2 = &models.Company{Name: "Globex"}
	require.NoError(t, companies.Create(ctx, e.c1))
	require.NoError(t, companies.Create(ctx, e.c2))
	e.p1 = &models.Project{Name: "acme-portal", Company: e.c1.ID}
	e.p2 = &models.Project{Name: "globex-app", Company: e.c2.ID}
	require.NoError(t, projects.Create(ctx, e.p1))
	require.NoError(t, projects.Create(ctx, e.p2))

	e.staff = &models.User{FirstName: "Sam", LastName: "Staff", Email: "sam@tracker.test", Role: models.RoleStaff}
	e.client = &models.User{FirstName: "Cora", LastName: "Client", Email: "cora@acme.test", Role: models.RoleClient, Company: e.c1.ID}
	e.outside = &models.User{FirstName: "Otto", LastName: "Other", Email: "otto@globex.test", Role: models.RoleClient, Company: e.c2.ID}
	for _, u := range []*models.User{e.staff, e.client, e.outside} {
		require.NoError(t, users.Create(ctx, u, "x"))
	}

	cfg := config.Config{
		Env:               "test",
		SessionSecret:     secret,
		Origin:            "http://localhost:3000",
		EmptyListNotFound: true,
	}
	e.h = router.New(zerolog.Nop(), db, cfg)
	return e
}

func token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := utils.SignJWT(secret, u.Principal(), time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *env) do(t *testing.T, method, path string, as *models.User, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+token(t, as))
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *env) createTicket(t *testing.T, as *models.User, body map[string]any) models.TicketView {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/tickets", as, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeInto[models.TicketView](t, rec)
}

type detail struct {
	Ticket   models.TicketView `json:"ticket"`
	Comments []map[string]any  `json:"comments"`
}

func TestCreateThenReadAppliesDefaults(t *testing.T) {
	e := newEnv(t)
	created := e.createTicket(t, e.staff, map[string]any{"title": "T", "reporter": "u1"})

	rec := e.do(t, http.MethodGet, "/api/tickets/"+created.ID, e.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	d := decodeInto[detail](t, rec)
	assert.Equal(t, models.StatusOpen, d.Ticket.Status)
	assert.Equal(t, models.PriorityLow, d.Ticket.Priority)
	assert.Equal(t, "u1", d.Ticket.Reporter.ID)
	assert.Empty(t, d.Comments)
}

func TestListByCompanyAsStaff(t *testing.T) {
	e := newEnv(t)
	a := e.createTicket(t, e.staff, map[string]any{"title": "acme 1", "project": e.p1.ID})
	b := e.createTicket(t, e.staff, map[string]any{"title": "acme 2", "project": e.p1.ID})
	e.createTicket(t, e.staff, map[string]any{"title": "globex", "project": e.p2.ID})
	e.createTicket(t, e.staff, map[string]any{"title": "unlinked"})

	rec := e.do(t, http.MethodGet, "/api/tickets?company="+e.c1.ID, e.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))
	got := decodeInto[[]models.TicketView](t, rec)
	require.Len(t, got, 2)
	ids := []string{got[0].ID, got[1].ID}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
	for _, v := range got {
		assert.Equal(t, e.c1.ID, v.CompanyID)
		assert.Equal(t, "Acme", v.CompanyName)
	}

	c3 := &models.Company{Name: "Empty"}
	require.NoError(t, sqlrepo.NewCompanyRepo(e.db).Create(context.Background(), c3))
	rec = e.do(t, http.MethodGet, "/api/tickets?company="+c3.ID, e.staff, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRejectsMalformedCompany(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/api/tickets?company=acme", e.staff, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeInto[map[string]any](t, rec)
	assert.Contains(t, body["message"], "invalid query company")
	assert.NotEmpty(t, body["stack"])
}

func TestListByProjectValidatesIdentifier(t *testing.T) {
	e := newEnv(t)
	tk := e.createTicket(t, e.staff, map[string]any{"title": "acme", "project": e.p1.ID})
	e.createTicket(t, e.staff, map[string]any{"title": "globex", "project": e.p2.ID})

	rec := e.do(t, http.MethodGet, "/api/tickets?project=not-a-uuid", e.staff, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, decodeInto[map[string]any](t, rec)["message"], "invalid query project")

	rec = e.do(t, http.MethodGet, "/api/tickets?project="+strings.ToUpper(e.p1.ID), e.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeInto[[]models.TicketView](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, tk.ID, got[0].ID)
}

func TestClientTicketListingIsNarrowed(t *testing.T) {
	e := newEnv(t)
	own := e.createTicket(t, e.client, map[string]any{"title": "mine", "project": e.p1.ID})
	e.createTicket(t, e.staff, map[string]any{"title": "theirs", "project": e.p2.ID})

	rec := e.do(t, http.MethodGet, "/api/tickets", e.client, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeInto[[]models.TicketView](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, own.ID, got[0].ID)
	assert.Equal(t, "Cora", got[0].ExternalReporter.FirstName)

	// an explicit company is not overridden for ticket listings
	rec = e.do(t, http.MethodGet, "/api/tickets?company="+e.c2.ID, e.client, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decodeInto[[]models.TicketView](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "theirs", got[0].Title)
}

func TestClientProjectListingIsPinned(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/api/projects?company="+e.c2.ID, e.client, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeInto[[]models.Project](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, e.p1.ID, got[0].ID)

	rec = e.do(t, http.MethodGet, "/api/projects/"+e.p2.ID, e.client, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPatchByExternalReporterRespectsTeamAssignment(t *testing.T) {
	e := newEnv(t)
	free := e.createTicket(t, e.client, map[string]any{"title": "free", "project": e.p1.ID})
	team := e.createTicket(t, e.client, map[string]any{"title": "team", "project": e.p1.ID})

	rec := e.do(t, http.MethodPatch, "/api/tickets/"+team.ID, e.staff, map[string]any{"assignToTeam": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPatch, "/api/tickets/"+free.ID, e.client, map[string]any{"priority": "HIGH"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.PriorityHigh, decodeInto[models.TicketView](t, rec).Priority)

	rec = e.do(t, http.MethodPatch, "/api/tickets/"+team.ID, e.client, map[string]any{"priority": "HIGH"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPatch, "/api/tickets/"+free.ID, e.client, map[string]any{"status": "NOPE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPatch, "/api/tickets/"+free.ID, e.outside, map[string]any{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteTeamAssignedByExternalReporter(t *testing.T) {
	e := newEnv(t)
	team := e.createTicket(t, e.client, map[string]any{"title": "team", "project": e.p1.ID, "assignToTeam": true})

	rec := e.do(t, http.MethodDelete, "/api/tickets/"+team.ID, e.client, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ticket deleted", decodeInto[map[string]string](t, rec)["message"])

	rec = e.do(t, http.MethodDelete, "/api/tickets/"+team.ID, e.staff, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSingleReadRequiresOwnershipForClients(t *testing.T) {
	e := newEnv(t)
	tk := e.createTicket(t, e.staff, map[string]any{"title": "internal", "project": e.p1.ID})

	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/api/tickets/"+tk.ID, e.client, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/api/tickets/"+tk.ID, nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/tickets/nope", e.staff, nil).Code)
}

func TestCommentsNewestFirst(t *testing.T) {
	e := newEnv(t)
	tk := e.createTicket(t, e.client, map[string]any{"title": "t", "project": e.p1.ID})

	rec := e.do(t, http.MethodPost, "/api/tickets/"+tk.ID+"/comments", e.client, map[string]any{"message": "first"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decodeInto[models.Comment](t, rec)
	time.Sleep(2 * time.Millisecond)
	rec = e.do(t, http.MethodPost, "/api/tickets/"+tk.ID+"/comments", e.staff, map[string]any{"message": "second"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPatch, "/api/comments/"+first.ID, e.client, map[string]any{"message": "first, edited"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodGet, "/api/tickets/"+tk.ID, e.client, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decodeInto[detail](t, rec)
	require.Len(t, d.Comments, 2)
	assert.Equal(t, "second", d.Comments[0]["message"])
	assert.Equal(t, "first, edited", d.Comments[1]["message"])
	assert.Equal(t, true, d.Comments[1]["isEdited"])
	assert.NotContains(t, d.Comments[0], "ticketId")
	assert.NotContains(t, d.Comments[0], "revision")
	author := d.Comments[0]["author"].(map[string]any)
	assert.Equal(t, "Sam", author["firstName"])
}

func TestAuthFlow(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodPost, "/api/auth/register", nil, map[string]any{
		"firstName": "New", "lastName": "Person", "email": "new@acme.test", "password": "secret1", "company": e.c1.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "CLIENT", decodeInto[map[string]any](t, rec)["role"])

	rec = e.do(t, http.MethodPost, "/api/auth/login", nil, map[string]any{"email": "new@acme.test", "password": "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/login", nil, map[string]any{"email": "new@acme.test", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookies[0])
	me := httptest.NewRecorder()
	e.h.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code, me.Body.String())
	assert.Equal(t, "new@acme.test", decodeInto[map[string]any](t, me)["email"])

	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/api/auth/me", nil, nil).Code)
}

func TestSelfRegistrationCannotClaimCompany(t *testing.T) {
	e := newEnv(t)
	e.createTicket(t, e.outside, map[string]any{"title": "globex secret", "project": e.p2.ID})

	rec := e.do(t, http.MethodPost, "/api/auth/register", nil, map[string]any{
		"firstName": "Mal", "lastName": "Lory", "email": "mal@evil.test", "password": "secret1", "company": e.c2.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, decodeInto[map[string]any](t, rec), "company")

	rec = e.do(t, http.MethodPost, "/api/auth/login", nil, map[string]any{"email": "mal@evil.test", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookies[0])
		out := httptest.NewRecorder()
		e.h.ServeHTTP(out, req)
		return out
	}

	assert.Equal(t, http.StatusNotFound, get("/api/projects").Code)
	assert.Equal(t, http.StatusNotFound, get("/api/tickets").Code)
	assert.Equal(t, http.StatusUnauthorized, get("/api/companies/"+e.c2.ID).Code)
	assert.Equal(t, http.StatusUnauthorized, get("/api/companies/"+strings.ToUpper(e.c2.ID)).Code)

	// the genuine member can read their company, whatever the id's case
	rec = e.do(t, http.MethodGet, "/api/companies/"+strings.ToUpper(e.c2.ID), e.outside, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestReferenceDataRequiresStaff(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodPost, "/api/projects", e.client, map[string]any{"name": "x"}).Code)
	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodGet, "/api/companies", e.client, nil).Code)

	rec := e.do(t, http.MethodPost, "/api/services", e.staff, map[string]any{"name": "billing"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	svc := decodeInto[models.Service](t, rec)

	rec = e.do(t, http.MethodPatch, "/api/projects/"+e.p1.ID, e.staff, map[string]any{"services": []string{svc.ID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	e.createTicket(t, e.staff, map[string]any{"title": "billing bug", "project": e.p1.ID})
	rec = e.do(t, http.MethodGet, "/api/tickets?service="+svc.ID, e.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeInto[[]models.TicketView](t, rec), 1)

	rec = e.do(t, http.MethodGet, "/api/projects?services="+svc.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeInto[[]models.Project](t, rec), 1)
}

func TestReportSummary(t *testing.T) {
	e := newEnv(t)
	e.createTicket(t, e.client, map[string]any{"title": "a", "project": e.p1.ID})
	e.createTicket(t, e.staff, map[string]any{"title": "b", "project": e.p2.ID, "status": "CLOSED"})

	rec := e.do(t, http.MethodGet, "/api/reports/summary", e.client, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var s struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"byStatus"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.ByStatus["OPEN"])
	assert.Equal(t, 0, s.ByStatus["CLOSED"])
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
