package policy

import (
	"sort"

	"issue-tracking/internal/apperr"
	"issue-tracking/internal/models"
)

// TicketFields lists every ticket attribute a patch may address.
var TicketFields = []string{
	"title", "description", "assignee", "reporter", "externalReporter",
	"status", "priority", "ticketType", "assignToTeam", "estimatedTime",
	"deadline", "isSubtask", "parentTask",
}

// capabilities maps a role to the ticket attributes it may change.
// A nil set means every attribute.
var capabilities = map[models.Role]map[string]bool{
	models.RoleClient: set("title", "description", "priority", "ticketType", "deadline"),
	models.RoleStaff: set("title", "description", "assignee", "status", "priority",
		"ticketType", "assignToTeam", "estimatedTime", "deadline", "isSubtask", "parentTask"),
	models.RoleAdmin:      nil,
	models.RoleSuperAdmin: nil,
}

// MutableFields returns the ticket attributes role may change, sorted.
func MutableFields(role models.Role) []string {
	allowed, ok := capabilities[role]
	if !ok {
		return nil
	}
	if allowed == nil {
		out := append([]string(nil), TicketFields...)
		sort.Strings(out)
		return out
	}
	out := make([]string, 0, len(allowed))
	for f := range allowed {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// CheckPatchFields rejects a patch touching attributes outside role's
// capability set. Only enforced when strict updates are enabled.
func CheckPatchFields(role models.Role, fields []string) error {
	allowed, ok := capabilities[role]
	if !ok {
		return apperr.NotAuthorized("role may not change tickets")
	}
	if allowed == nil {
		return nil
	}
	for _, f := range fields {
		if !allowed[f] {
			return apperr.NotAuthorized("role may not change " + f)
		}
	}
	return nil
}

func set(fields ...string) map[string]bool {
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		m[f] = true
	}
	return m
}
