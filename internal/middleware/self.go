package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"issue-tracking/internal/models"
	"issue-tracking/internal/utils"
)

// RequireSelfOrRoles allows if {id} == ctx user id OR user has any of the given roles.
func RequireSelfOrRoles(roles ...models.Role) func(http.Handler) http.Handler {
	roleSet := map[models.Role]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFrom(r.Context())
			if p.Anonymous() {
				utils.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, ok := roleSet[p.Role]; ok {
				next.ServeHTTP(w, r)
				return
			}
			// otherwise only self
			if chi.URLParam(r, "id") == p.ID {
				next.ServeHTTP(w, r)
				return
			}
			utils.Error(w, http.StatusForbidden, "forbidden")
		})
	}
}
