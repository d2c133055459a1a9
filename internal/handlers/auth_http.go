package handlers

import (
	"net/http"
	"time"

	"issue-tracking/internal/middleware"
	"issue-tracking/internal/service"
	"issue-tracking/internal/utils"
)

type AuthHTTP struct {
	svc    *service.AuthService
	rs     Responder
	secure bool
}

// NewAuthHTTP builds the auth endpoints. secure marks the session cookie
// HTTPS-only.
func NewAuthHTTP(s *service.AuthService, rs Responder, secure bool) *AuthHTTP {
	return &AuthHTTP{svc: s, rs: rs, secure: secure}
}

func (h *AuthHTTP) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.RegisterInput
		if err := decode(w, r, &in); err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		u, err := h.svc.Register(r.Context(), in)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusCreated, u)
	}
}

func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := decode(w, r, &in); err != nil {
			h.rs.writeError(w, r, err)
			return
		}

		token, u, err := h.svc.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}

		// Issue httpOnly session cookie
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   h.secure,
			Expires:  time.Now().Add(h.svc.SessionTTL()),
		})

		utils.JSON(w, http.StatusOK, map[string]any{"user": u, "token": token})
	}
}

func (h *AuthHTTP) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,              // expire immediately
			Expires:  time.Unix(0, 0), // for older browsers
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AuthHTTP) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := middleware.PrincipalFrom(r.Context())
		u, err := h.svc.User(r.Context(), p.ID)
		if err != nil {
			h.rs.writeError(w, r, err)
			return
		}
		utils.JSON(w, http.StatusOK, u)
	}
}
