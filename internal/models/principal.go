package models

// Role is a closed set. Code that branches on it must handle every member.
type Role string

const (
	RoleClient     Role = "CLIENT"
	RoleStaff      Role = "STAFF"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

var Roles = []Role{RoleClient, RoleStaff, RoleAdmin, RoleSuperAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleStaff, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// IsInternal reports whether the role belongs to company staff.
func (r Role) IsInternal() bool {
	switch r {
	case RoleStaff, RoleAdmin, RoleSuperAdmin:
		return true
	case RoleClient:
		return false
	default:
		return false
	}
}

// Principal is the authenticated caller as seen by the core.
type Principal struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	CompanyID string `json:"company,omitempty"`
}

// Anonymous reports whether no identity is attached.
func (p Principal) Anonymous() bool { return p.ID == "" }
