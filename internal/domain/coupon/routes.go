package coupon

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the coupon router. Validation is open to the POS surface;
// everything else requires staff auth, mutations require manager or admin.
func (h *Handler) Routes(authMiddleware, managerOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/validate", h.Validate)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/redeem", h.Redeem)

		r.Group(func(r chi.Router) {
			r.Use(managerOnly)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})

	return r
}
