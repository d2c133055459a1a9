package middleware

import (
	"net/http"

	"issue-tracking/internal/models"
	"issue-tracking/internal/utils"
)

// RequireAuth blocks when no principal is present in context (set by WithAuth).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFrom(r.Context()).Anonymous() {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles allows request only if the current role is in the allowed list.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFrom(r.Context())
			if p.Anonymous() {
				utils.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				utils.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// StaffRoles are the internal roles allowed to manage reference data.
var StaffRoles = []models.Role{models.RoleStaff, models.RoleAdmin, models.RoleSuperAdmin}
