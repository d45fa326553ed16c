package loyalty

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the loyalty router. All endpoints require a staff token;
// configuration and reward mutations additionally require manager or admin.
func (h *Handler) Routes(authMiddleware, managerOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/config", h.GetConfig)
	r.Get("/rewards", h.ListRewards)
	r.Get("/rewards/available", h.AvailableRewards)
	r.Get("/rewards/{id}", h.GetReward)
	r.Get("/customers/{id}", h.GetCustomer)
	r.Get("/customers/{id}/transactions", h.ListCustomerTransactions)
	r.Get("/analytics", h.Analytics)

	r.Post("/earn", h.Earn)
	r.Post("/redeem", h.Redeem)

	r.Group(func(r chi.Router) {
		r.Use(managerOnly)
		r.Put("/config", h.UpdateConfig)
		r.Post("/rewards", h.CreateReward)
		r.Put("/rewards/{id}", h.UpdateReward)
		r.Delete("/rewards/{id}", h.DeleteReward)
	})

	return r
}
