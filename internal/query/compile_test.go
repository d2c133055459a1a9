package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-tracking/internal/apperr"
)

const companyID = "6f1c2b0e-3d4a-4b8e-9a51-1f2e3d4c5b6a"

func TestCompile_UnrecognizedKeyPassesThrough(t *testing.T) {
	cases := []struct {
		kind  Kind
		key   string
		value string
	}{
		{KindTicket, "assignee", "u-42"},
		{KindTicket, "nonsense", " spaced value "},
		{KindTicket, "title", "Printer on fire"},
		{KindProject, "name", "Website"},
		{KindProject, "url", "https://example.com"},
	}
	for _, tt := range cases {
		f, err := Compile(url.Values{tt.key: {tt.value}}, tt.kind)
		require.NoError(t, err)

		c, ok := f.Lookup(tt.key)
		require.True(t, ok, "constraint on %q", tt.key)
		assert.Equal(t, OpEq, c.Op)
		assert.Equal(t, []string{tt.value}, c.Values)
	}
}

func TestCompile_TicketCompanyTargetsJoinedProject(t *testing.T) {
	f, err := Compile(url.Values{"company": {"6F1C2B0E-3D4A-4B8E-9A51-1F2E3D4C5B6A"}}, KindTicket)
	require.NoError(t, err)

	assert.False(t, f.Has("company"))
	c, ok := f.Lookup(FieldProjectCompany)
	require.True(t, ok)
	assert.Equal(t, OpEq, c.Op)
	assert.Equal(t, []string{companyID}, c.Values)
}

func TestCompile_TicketServiceTargetsJoinedServices(t *testing.T) {
	f, err := Compile(url.Values{"service": {companyID}}, KindTicket)
	require.NoError(t, err)

	c, ok := f.Lookup(FieldProjectService)
	require.True(t, ok)
	assert.Equal(t, OpEq, c.Op)
}

func TestCompile_TicketProjectIsCanonicalized(t *testing.T) {
	f, err := Compile(url.Values{"project": {"6F1C2B0E-3D4A-4B8E-9A51-1F2E3D4C5B6A"}}, KindTicket)
	require.NoError(t, err)

	c, ok := f.Lookup("project")
	require.True(t, ok)
	assert.Equal(t, OpEq, c.Op)
	assert.Equal(t, []string{companyID}, c.Values)
}

func TestCompile_MalformedIdentifier(t *testing.T) {
	cases := []struct {
		kind Kind
		key  string
	}{
		{KindTicket, "company"},
		{KindTicket, "service"},
		{KindTicket, "project"},
		{KindProject, "company"},
		{KindProject, "services"},
	}
	for _, tt := range cases {
		_, err := Compile(url.Values{tt.key: {"not-an-id"}}, tt.kind)
		var iq *apperr.InvalidQueryError
		require.ErrorAs(t, err, &iq, "%s %s", tt.kind, tt.key)
		assert.Equal(t, tt.key, iq.Key)
	}
}

func TestCompile_ProjectServicesIsContains(t *testing.T) {
	other := "0b9e8d7c-6b5a-4f3e-8d2c-1b0a9f8e7d6c"
	f, err := Compile(url.Values{"services": {companyID, other}}, KindProject)
	require.NoError(t, err)

	c, ok := f.Lookup(FieldServices)
	require.True(t, ok)
	assert.Equal(t, OpContains, c.Op)
	assert.ElementsMatch(t, []string{companyID, other}, c.Values)
}

func TestCompile_ProjectCompanyIsEquality(t *testing.T) {
	f, err := Compile(url.Values{"company": {companyID}}, KindProject)
	require.NoError(t, err)

	c, ok := f.Lookup(FieldCompany)
	require.True(t, ok)
	assert.Equal(t, OpEq, c.Op)
	assert.Equal(t, []string{companyID}, c.Values)
}

func TestCompile_EnumValidation(t *testing.T) {
	_, err := Compile(url.Values{"status": {"OPEN", "CLOSED"}, "priority": {"HIGH"}}, KindTicket)
	require.NoError(t, err)

	_, err = Compile(url.Values{"status": {"open"}}, KindTicket)
	var iq *apperr.InvalidQueryError
	require.ErrorAs(t, err, &iq)
	assert.Equal(t, "status", iq.Key)

	_, err = Compile(url.Values{"ticketType": {"ISSUE"}}, KindTicket)
	require.NoError(t, err)

	_, err = Compile(url.Values{"subscriptionStatus": {"PAUSED"}}, KindCompany)
	require.Error(t, err)

	// status is only an enum on tickets
	_, err = Compile(url.Values{"status": {"whatever"}}, KindProject)
	require.NoError(t, err)
}

func TestCompile_EmptyValuesDropped(t *testing.T) {
	f, err := Compile(url.Values{"status": {""}, "assignee": {"  "}}, KindTicket)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestFilter_WithReplacesSameField(t *testing.T) {
	f := NewFilter(KindProject, Eq(FieldCompany, "a"), Eq("name", "x"))
	g := f.With(Eq(FieldCompany, "b"))

	c, _ := g.Lookup(FieldCompany)
	assert.Equal(t, []string{"b"}, c.Values)
	assert.Equal(t, 2, g.Len())

	// original untouched
	c, _ = f.Lookup(FieldCompany)
	assert.Equal(t, []string{"a"}, c.Values)

	assert.False(t, g.Without(FieldCompany).Has(FieldCompany))
}
