package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"issue-tracking/internal/config"
	"issue-tracking/internal/models"
	"issue-tracking/internal/utils"
)

type ctxKey string

const ctxPrincipal ctxKey = "principal"

// SessionCookie carries the signed session token.
const SessionCookie = "session"

// PrincipalFrom returns the caller set by WithAuth. Unauthenticated requests
// get the zero Principal.
func PrincipalFrom(ctx context.Context) models.Principal {
	p, _ := ctx.Value(ctxPrincipal).(models.Principal)
	return p
}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

func WithAuth(log zerolog.Logger, cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Read JWT from cookie "session" or Authorization: Bearer
			var tok string
			if c, err := r.Cookie(SessionCookie); err == nil {
				tok = c.Value
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimPrefix(h, "Bearer ")
			}

			if tok == "" {
				next.ServeHTTP(w, r) // unauthenticated; handlers can decide
				return
			}

			claims, err := utils.ParseJWT(cfg.SessionSecret, tok)
			if err != nil {
				log.Debug().Err(err).Msg("rejected session token")
				// clear broken/expired cookie so it stops being sent
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    "",
					Path:     "/",
					HttpOnly: true,
					MaxAge:   -1,
				})
				next.ServeHTTP(w, r)
				return
			}

			p := claims.Principal()
			if !p.Role.Valid() {
				log.Warn().Str("uid", p.ID).Str("role", string(p.Role)).Msg("token carries unknown role")
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
