package query

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"

	"issue-tracking/internal/apperr"
	"issue-tracking/internal/models"
)

var errNotEnumMember = errors.New("not an allowed value")

// enum-typed attributes per resource kind
var enums = map[Kind]map[string][]string{
	KindTicket: {
		"status":     models.TicketStatuses,
		"priority":   models.TicketPriorities,
		"ticketType": models.TicketTypes,
	},
	KindCompany: {
		"subscriptionStatus": models.SubscriptionStatuses,
	},
}

// Compile turns query parameters into a Filter for kind.
//
// Keys without a dedicated rule become equality constraints on the attribute
// of the same name. Repeated keys become membership constraints. Keys that
// address identifiers (ticket company/service/project, project
// company/services) must parse as UUIDs and are stored in canonical form.
func Compile(values url.Values, kind Kind) (Filter, error) {
	f := Filter{Kind: kind}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := nonEmpty(values[key])
		if len(vals) == 0 {
			continue
		}

		c, err := compileKey(kind, key, vals)
		if err != nil {
			return Filter{}, err
		}
		f = f.With(c)
	}
	return f, nil
}

func compileKey(kind Kind, key string, vals []string) (Constraint, error) {
	switch kind {
	case KindTicket:
		switch key {
		case "company":
			ids, err := canonicalIDs(key, vals)
			if err != nil {
				return Constraint{}, err
			}
			return Eq(FieldProjectCompany, ids...), nil
		case "service":
			ids, err := canonicalIDs(key, vals)
			if err != nil {
				return Constraint{}, err
			}
			return Eq(FieldProjectService, ids...), nil
		case "project":
			ids, err := canonicalIDs(key, vals)
			if err != nil {
				return Constraint{}, err
			}
			return Eq(key, ids...), nil
		}
	case KindProject:
		switch key {
		case "services":
			ids, err := canonicalIDs(key, vals)
			if err != nil {
				return Constraint{}, err
			}
			return Contains(FieldServices, ids...), nil
		case "company":
			ids, err := canonicalIDs(key, vals)
			if err != nil {
				return Constraint{}, err
			}
			return Eq(FieldCompany, ids...), nil
		}
	}

	if allowed, ok := enums[kind][key]; ok {
		for _, v := range vals {
			if !contains(allowed, v) {
				return Constraint{}, &apperr.InvalidQueryError{Key: key, Value: v, Err: errNotEnumMember}
			}
		}
	}
	return Eq(key, vals...), nil
}

// CanonicalID parses an identifier and returns its canonical string form.
func CanonicalID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func canonicalIDs(key string, vals []string) ([]string, error) {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		id, err := CanonicalID(v)
		if err != nil {
			return nil, &apperr.InvalidQueryError{Key: key, Value: v, Err: err}
		}
		out = append(out, id)
	}
	return out, nil
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func contains(values []string, value string) bool {
	for _, item := range values {
		if item == value {
			return true
		}
	}
	return false
}
