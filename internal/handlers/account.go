package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/teslys/teslys-backend/internal/attribution"
	"github.com/teslys/teslys-backend/internal/db"
	"github.com/teslys/teslys-backend/internal/middleware"
	"github.com/teslys/teslys-backend/internal/models"
	"github.com/teslys/teslys-backend/internal/notify"
)

// AccountHandler manages the paid plan of the current account. Plan changes
// fire purchase events so the push pipeline and marketing analytics see
// subscription state transitions.
type AccountHandler struct {
	users       db.UserCollection
	events      *notify.Events
	attribution *attribution.Client
}

// NewAccountHandler creates a new account handler. The attribution client
// may be nil when marketing analytics is disabled.
func NewAccountHandler(users db.UserCollection, events *notify.Events, attributionClient *attribution.Client) *AccountHandler {
	return &AccountHandler{users: users, events: events, attribution: attributionClient}
}

type purchasePlanRequest struct {
	Plan string `json:"plan"`
}

// PurchasePlan upgrades the current account to a paid plan.
func (h *AccountHandler) PurchasePlan(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req purchasePlanRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Plan != models.PlanPremium {
		http.Error(w, "Unknown plan", http.StatusBadRequest)
		return
	}

	if err := h.users.UpdateUserPlan(r.Context(), claims.UserID, req.Plan); err != nil {
		http.Error(w, "Failed to update plan", http.StatusInternalServerError)
		return
	}

	h.emitPlanChange(r, claims.UserID, req.Plan, true)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"plan": req.Plan})
}

// CancelPlan returns the current account to the free tier.
func (h *AccountHandler) CancelPlan(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	user, err := h.users.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if user.Plan == "" {
		http.Error(w, "No active plan", http.StatusConflict)
		return
	}

	if err := h.users.UpdateUserPlan(r.Context(), claims.UserID, ""); err != nil {
		http.Error(w, "Failed to update plan", http.StatusInternalServerError)
		return
	}

	h.emitPlanChange(r, claims.UserID, user.Plan, false)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"plan": ""})
}

func (h *AccountHandler) emitPlanChange(r *http.Request, userID, plan string, active bool) {
	if h.events != nil {
		h.events.EmitPurchase(notify.PurchaseEvent{
			UserID:    userID,
			ProductID: plan,
			Active:    active,
		})
	}

	if h.attribution != nil && h.attribution.Initialized() {
		event := attribution.Event{
			Name:   attribution.EventSubscription,
			UserID: userID,
			Params: map[string]interface{}{"plan": plan, "active": active},
		}
		if err := h.attribution.Track(r.Context(), event); err != nil {
			log.WithError(err).Warn("Failed to track subscription event")
		}
	}
}
