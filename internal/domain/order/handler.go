package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dinehub/dinehub-api/internal/pkg/response"
	"github.com/dinehub/dinehub-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	o, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, o)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	o, points, err := h.svc.Complete(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, CompleteResponse{Order: o, PointsEarned: points})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	o, err := h.svc.Cancel(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, o)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid order id")
		return
	}

	o, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, o)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	orders, total, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.WithMeta(w, orders, response.Meta{Total: total, Limit: limit, Offset: offset})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "order not found")
	case errors.Is(err, ErrAlreadyCompleted):
		response.Conflict(w, "order already completed")
	case errors.Is(err, ErrCancelled):
		response.Conflict(w, "order is cancelled")
	case errors.Is(err, ErrCouponRejected):
		response.BadRequest(w, "coupon cannot be applied to this order")
	default:
		response.InternalError(w)
	}
}
