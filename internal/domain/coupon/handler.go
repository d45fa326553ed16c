package coupon

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dinehub/dinehub-api/internal/middleware"
	"github.com/dinehub/dinehub-api/internal/pkg/response"
	"github.com/dinehub/dinehub-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Validate checks a coupon code against a prospective order
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customerID := uuid.Nil
	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			response.BadRequest(w, "invalid customer_id")
			return
		}
		customerID = id
	}

	res, c, err := h.svc.ValidateCode(r.Context(), req.Code, req.OrderAmount, customerID)
	if err != nil {
		response.InternalError(w)
		return
	}

	resp := ValidateResponse{
		IsValid:        res.Valid,
		DiscountAmount: res.DiscountAmount,
		Message:        res.Message,
	}
	if c != nil {
		resp.Coupon = c.ToResponse()
	}
	response.OK(w, resp)
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

	c, err := h.svc.Create(r.Context(), &req, middleware.GetStaffID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, c.ToResponse())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid coupon id")
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.svc.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, c.ToResponse())
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid coupon id")
		return
	}

	c, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, c.ToResponse())
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	coupons, total, err := h.svc.List(r.Context(), includeInactive, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	items := make([]*Response, 0, len(coupons))
	for i := range coupons {
		items = append(items, coupons[i].ToResponse())
	}
	response.WithMeta(w, items, response.Meta{Total: total, Limit: limit, Offset: offset})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid coupon id")
		return
	}

	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

// Redeem records one usage of a coupon after a completed order
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid coupon id")
		return
	}

	if err := h.svc.RecordUsage(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, map[string]string{"status": "recorded"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "coupon not found")
	case errors.Is(err, ErrCodeTaken):
		response.Conflict(w, "coupon code already exists")
	case errors.Is(err, ErrUsageLimitReached):
		response.Conflict(w, "coupon usage limit reached")
	case errors.Is(err, ErrInvalidSchedule),
		errors.Is(err, ErrInvalidDiscountValue),
		errors.Is(err, ErrNoCustomersSelected):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w)
	}
}
