package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the auth router. Staff account management is admin only.
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/me", h.Me)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/staff", h.CreateStaff)
			r.Get("/staff", h.ListStaff)
		})
	})

	return r
}
