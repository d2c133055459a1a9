// Package policy decides what a principal may see and change.
//
// Only CLIENT principals are narrowed; internal roles see everything. Two
// asymmetries are deliberate and covered by tests:
//
//   - Project listings pin a CLIENT to their own company even when the caller
//     asked for another one, while ticket listings only inject the company when
//     the caller did not pass one.
//   - Updates by a CLIENT are refused on team-assigned tickets; deletes are not.
package policy

import (
	"issue-tracking/internal/models"
	"issue-tracking/internal/query"
)

// Change is the kind of mutation being authorized.
type Change int

const (
	ChangeUpdate Change = iota
	ChangeDelete
)

func (c Change) String() string {
	switch c {
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// NarrowListQuery applies role-dependent constraints to a list filter.
func NarrowListQuery(p models.Principal, f query.Filter, kind query.Kind) query.Filter {
	switch p.Role {
	case models.RoleClient:
		switch kind {
		case query.KindProject:
			return f.With(query.Eq(query.FieldCompany, p.CompanyID))
		case query.KindTicket:
			if f.Has(query.FieldProjectCompany) {
				return f
			}
			return f.With(query.Eq(query.FieldProjectCompany, p.CompanyID))
		default:
			return f
		}
	case models.RoleStaff, models.RoleAdmin, models.RoleSuperAdmin:
		return f
	default:
		return f
	}
}

// AuthorizeSingleRead reports whether p may read ticket t.
func AuthorizeSingleRead(p models.Principal, t *models.TicketView) bool {
	switch p.Role {
	case models.RoleClient:
		return isExternalReporter(p, t)
	case models.RoleStaff, models.RoleAdmin, models.RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// AuthorizeMutation reports whether p may apply change to ticket t.
func AuthorizeMutation(p models.Principal, t *models.TicketView, change Change) bool {
	switch p.Role {
	case models.RoleClient:
		if !isExternalReporter(p, t) {
			return false
		}
		if change == ChangeUpdate && t.AssignToTeam {
			return false
		}
		return true
	case models.RoleStaff, models.RoleAdmin, models.RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// AuthorizeProjectRead reports whether p may read a single project.
func AuthorizeProjectRead(p models.Principal, project *models.Project) bool {
	switch p.Role {
	case models.RoleClient:
		return project != nil && p.CompanyID != "" && project.Company == p.CompanyID
	case models.RoleStaff, models.RoleAdmin, models.RoleSuperAdmin:
		return true
	default:
		// anonymous callers may read projects, as they may list them
		return p.Anonymous()
	}
}

// AuthorizeCommentChange reports whether p may edit or remove comment c.
func AuthorizeCommentChange(p models.Principal, c *models.Comment) bool {
	switch p.Role {
	case models.RoleClient:
		return c != nil && p.ID != "" && c.Author == p.ID
	case models.RoleStaff, models.RoleAdmin, models.RoleSuperAdmin:
		return true
	default:
		return false
	}
}

func isExternalReporter(p models.Principal, t *models.TicketView) bool {
	return t != nil && p.ID != "" && t.ExternalReporterID() == p.ID
}
