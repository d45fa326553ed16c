package auth

import (
	"encoding/json"
	"errors"
	"net/http"

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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, resp)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	staffID := middleware.GetStaffID(r.Context())
	if staffID == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	resp, err := h.svc.GetStaff(r.Context(), staffID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, resp)
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	resp, err := h.svc.CreateStaff(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, resp)
}

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.svc.ListStaff(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, staff)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		response.Unauthorized(w, "invalid email or password")
	case errors.Is(err, ErrInvalidRefresh):
		response.Unauthorized(w, "invalid refresh token")
	case errors.Is(err, ErrAccountDisabled):
		response.Forbidden(w, "account disabled")
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Conflict(w, "email already registered")
	case errors.Is(err, ErrInvalidRole):
		response.BadRequest(w, "invalid role")
	case errors.Is(err, ErrStaffNotFound):
		response.NotFound(w, "staff not found")
	default:
		response.InternalError(w)
	}
}
