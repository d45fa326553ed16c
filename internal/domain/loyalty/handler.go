package loyalty

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

// ---------- Config ----------

func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.GetConfig(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, cfg)
}

func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cfg, err := h.svc.UpdateConfig(r.Context(), &req)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, cfg)
}

// ---------- Rewards ----------

func (h *Handler) CreateReward(w http.ResponseWriter, r *http.Request) {
	var req RewardCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	reward, err := h.svc.CreateReward(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, reward)
}

func (h *Handler) UpdateReward(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid reward id")
		return
	}

	var req RewardUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	reward, err := h.svc.UpdateReward(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, reward)
}

func (h *Handler) GetReward(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid reward id")
		return
	}

	reward, err := h.svc.GetReward(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, reward)
}

func (h *Handler) ListRewards(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	rewards, err := h.svc.ListRewards(r.Context(), includeInactive)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, rewards)
}

func (h *Handler) DeleteReward(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid reward id")
		return
	}

	if err := h.svc.DeactivateReward(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) AvailableRewards(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(r.URL.Query().Get("customer_id"))
	if err != nil {
		response.BadRequest(w, "customer_id query parameter is required")
		return
	}

	rewards, err := h.svc.AvailableRewardsFor(r.Context(), customerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, rewards)
}

// ---------- Earn / redeem ----------

func (h *Handler) Earn(w http.ResponseWriter, r *http.Request) {
	var req EarnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID)
	orderID, _ := uuid.Parse(req.OrderID)

	points, err := h.svc.EarnPoints(r.Context(), customerID, req.CustomerEmail, orderID, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, EarnResponse{PointsEarned: points})
}

func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID)
	rewardID, _ := uuid.Parse(req.RewardID)

	reward, customer, err := h.svc.RedeemReward(r.Context(), customerID, rewardID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, RedeemResponse{
		RewardID:        reward.ID.String(),
		RewardName:      reward.Name,
		PointsUsed:      reward.PointsRequired,
		RemainingPoints: customer.TotalPoints,
		BenefitValue:    Benefit(reward, req.OrderAmount),
	})
}

// ---------- Reads ----------

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid customer id")
		return
	}

	summary, err := h.svc.GetCustomerSummary(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, summary)
}

func (h *Handler) ListCustomerTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid customer id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	txs, total, err := h.svc.ListTransactions(r.Context(), id, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.WithMeta(w, txs, response.Meta{Total: total, Limit: limit, Offset: offset})
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.svc.Analytics(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, analytics)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		response.ValidationError(w, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, ErrConfigNotInitialized):
		response.Conflict(w, "loyalty program is not configured")
	case errors.Is(err, ErrProgramInactive):
		response.Conflict(w, "loyalty program is inactive")
	case errors.Is(err, ErrCustomerNotFound):
		response.NotFound(w, "customer has no loyalty record")
	case errors.Is(err, ErrRewardNotFound):
		response.NotFound(w, "reward not found")
	case errors.Is(err, ErrRewardNotRedeemable):
		response.Conflict(w, "reward is not redeemable")
	case errors.Is(err, ErrInsufficientPoints):
		response.Conflict(w, "insufficient points")
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, "amount must be greater than zero")
	default:
		response.InternalError(w)
	}
}
